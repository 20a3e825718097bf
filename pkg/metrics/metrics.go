package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records store mutations and settlement outcomes. A nil
// receiver is safe so services can run without a registry in tests.
type StoreMetrics struct {
	mutations          *prometheus.CounterVec
	settlementDuration prometheus.Histogram
	ordersPlaced       prometheus.Counter
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_mutations_total",
		Help: "Store mutations by collection and operation.",
	}, []string{"store", "op"})
	settlementDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of simulated payment settlement.",
		Buckets: prometheus.DefBuckets,
	})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders confirmed after settlement.",
	})
	reg.MustRegister(mutations, settlementDuration, ordersPlaced)
	return &StoreMetrics{
		mutations:          mutations,
		settlementDuration: settlementDuration,
		ordersPlaced:       ordersPlaced,
	}
}

// IncMutation counts one mutation of the named store.
func (m *StoreMetrics) IncMutation(store, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

// ObserveSettlement records the duration of one settlement attempt.
func (m *StoreMetrics) ObserveSettlement(duration time.Duration) {
	if m == nil || m.settlementDuration == nil {
		return
	}
	m.settlementDuration.Observe(duration.Seconds())
}

// IncOrderPlaced counts one confirmed order.
func (m *StoreMetrics) IncOrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
