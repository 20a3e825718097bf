package watchlist

import (
	"context"
	"testing"
	"time"

	"github.com/ecocycle/ecocycle-backend/pkg/storage"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, kv storage.KV) Service {
	t.Helper()
	svc, err := NewService(context.Background(), ServiceParams{
		KV:  kv,
		Now: func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new watchlist service: %v", err)
	}
	return svc
}

func sampleItem(id string) Item {
	return Item{
		ID:        id,
		Title:     "Reclaimed Teak Planks",
		Category:  "Wood",
		Quantity:  "40 planks",
		Location:  "Austin, TX",
		Price:     "12.00/plank",
		Seller:    "Timber Revival",
		Condition: "Good",
	}
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemory())

	if err := svc.Add(ctx, sampleItem("w1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(ctx, sampleItem("w1")); err != nil {
		t.Fatalf("second add: %v", err)
	}

	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected membership count 1, got %d", len(items))
	}
	if !items[0].AddedDate.Equal(fixedNow) {
		t.Fatalf("expected fresh added date, got %v", items[0].AddedDate)
	}
}

func TestAddRequiresID(t *testing.T) {
	svc := newTestService(t, storage.NewMemory())
	if err := svc.Add(context.Background(), Item{Title: "no id"}); err == nil {
		t.Fatal("expected validation error for missing id")
	}
}

func TestRemoveAndMembership(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemory())

	if err := svc.Add(ctx, sampleItem("w1")); err != nil {
		t.Fatalf("add: %v", err)
	}

	watched, err := svc.IsWatched(ctx, "w1")
	if err != nil || !watched {
		t.Fatalf("expected w1 watched, got %v err=%v", watched, err)
	}

	if err := svc.Remove(ctx, "w1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	watched, _ = svc.IsWatched(ctx, "w1")
	if watched {
		t.Fatal("expected w1 unwatched after remove")
	}

	if err := svc.Remove(ctx, "ghost"); err != nil {
		t.Fatalf("removing a missing id should be a no-op: %v", err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemory())

	for _, id := range []string{"w1", "w2", "w3"} {
		if err := svc.Add(ctx, sampleItem(id)); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, _ := svc.Items(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty watchlist, got %d", len(items))
	}
}

func TestWatchlistPersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	first := newTestService(t, kv)
	if err := first.Add(ctx, sampleItem("w1")); err != nil {
		t.Fatalf("add: %v", err)
	}

	second := newTestService(t, kv)
	watched, err := second.IsWatched(ctx, "w1")
	if err != nil || !watched {
		t.Fatalf("expected persisted membership, got %v err=%v", watched, err)
	}
}

func TestCorruptPersistedWatchlistStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	if err := kv.Set(ctx, storage.KeyWatchlist, []byte("[oops")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := newTestService(t, kv)
	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty watchlist, got %d", len(items))
	}
}
