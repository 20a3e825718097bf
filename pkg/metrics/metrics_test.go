package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStoreMetricsExportCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)

	m.IncMutation("cart", "add")
	m.IncMutation("cart", "add")
	m.IncMutation("", "")
	m.ObserveSettlement(250 * time.Millisecond)
	m.IncOrderPlaced()

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("cart", "add")); got != 2 {
		t.Fatalf("expected 2 cart adds, got %f", got)
	}
	if got := testutil.ToFloat64(m.mutations.WithLabelValues("unknown", "unknown")); got != 1 {
		t.Fatalf("expected empty labels to normalize, got %f", got)
	}
	if got := testutil.ToFloat64(m.ordersPlaced); got != 1 {
		t.Fatalf("expected 1 order placed, got %f", got)
	}

	count, err := testutil.GatherAndCount(reg, "settlement_duration_seconds")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected settlement histogram to be registered, got %d series", count)
	}
}

func TestStoreMetricsNilSafe(t *testing.T) {
	var m *StoreMetrics
	m.IncMutation("cart", "add")
	m.ObserveSettlement(time.Second)
	m.IncOrderPlaced()

	empty := NewStoreMetrics(nil)
	empty.IncMutation("cart", "add")
	empty.ObserveSettlement(time.Second)
	empty.IncOrderPlaced()
}
