package storage

import (
	"context"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func backends(t *testing.T) map[string]KV {
	t.Helper()

	fileKV, err := NewFile(t.TempDir(), "ecocycle")
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}

	return map[string]KV{
		"memory": NewMemory(),
		"file":   fileKV,
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := kv.Get(ctx, KeyCart); err != nil || ok {
				t.Fatalf("missing key should be absent without error, ok=%v err=%v", ok, err)
			}

			if err := kv.Set(ctx, KeyCart, []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			raw, ok, err := kv.Get(ctx, KeyCart)
			if err != nil || !ok {
				t.Fatalf("get after set, ok=%v err=%v", ok, err)
			}
			if string(raw) != `[{"id":"a"}]` {
				t.Fatalf("unexpected value %q", raw)
			}

			if err := kv.Delete(ctx, KeyCart); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := kv.Get(ctx, KeyCart); ok {
				t.Fatal("value should be gone after delete")
			}
			if err := kv.Delete(ctx, KeyCart); err != nil {
				t.Fatalf("deleting a missing key should be a no-op: %v", err)
			}
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := kv.Set(ctx, KeyUser, []byte(`{"v":1}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set(ctx, KeyUser, []byte(`{"v":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			raw, _, _ := kv.Get(ctx, KeyUser)
			if string(raw) != `{"v":2}` {
				t.Fatalf("expected overwrite, got %q", raw)
			}
		})
	}
}

func TestLoadJSONMissingKeyLeavesDefault(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	out := sample{Name: "default"}
	corrupt, err := LoadJSON(ctx, kv, KeyUser, &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if corrupt {
		t.Fatal("missing key is not corruption")
	}
	if out.Name != "default" {
		t.Fatalf("dest should be untouched, got %+v", out)
	}
}

func TestLoadJSONCorruptValueResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	if err := kv.Set(ctx, KeyCart, []byte("{not json")); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []sample
	corrupt, err := LoadJSON(ctx, kv, KeyCart, &out)
	if err != nil {
		t.Fatalf("corruption must not be fatal: %v", err)
	}
	if !corrupt {
		t.Fatal("expected corruption to be reported")
	}
	if len(out) != 0 {
		t.Fatalf("expected empty collection, got %v", out)
	}
	if _, ok, _ := kv.Get(ctx, KeyCart); ok {
		t.Fatal("corrupt value should have been discarded")
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	in := []sample{{Name: "bottles", Count: 3}}
	if err := SaveJSON(ctx, kv, KeyWatchlist, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []sample
	if _, err := LoadJSON(ctx, kv, KeyWatchlist, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestFileBackendSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFile(dir, "ecocycle")
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	if err := first.Set(ctx, KeyOrders, []byte(`["order"]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := NewFile(dir, "ecocycle")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	raw, ok, err := second.Get(ctx, KeyOrders)
	if err != nil || !ok {
		t.Fatalf("expected persisted value after reopen, ok=%v err=%v", ok, err)
	}
	if string(raw) != `["order"]` {
		t.Fatalf("unexpected value %q", raw)
	}
}

func TestFileBackendNamespacesKeys(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFile(dir, "ecocycle")
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	if err := kv.Set(context.Background(), KeyCart, []byte("[]")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := kv.path(KeyCart); got != filepath.Join(dir, "ecocycle_cart.json") {
		t.Fatalf("unexpected path %q", got)
	}
}
