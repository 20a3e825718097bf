package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ecocycle.db")

	kv, err := NewSQLite(path, "ecocycle")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer kv.Close()

	if _, ok, err := kv.Get(ctx, KeyCart); err != nil || ok {
		t.Fatalf("missing key should be absent, ok=%v err=%v", ok, err)
	}

	if err := kv.Set(ctx, KeyCart, []byte(`[1]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, KeyCart, []byte(`[1,2]`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	raw, ok, err := kv.Get(ctx, KeyCart)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(raw) != `[1,2]` {
		t.Fatalf("expected upserted value, got %q", raw)
	}

	if err := kv.Delete(ctx, KeyCart); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, KeyCart); ok {
		t.Fatal("value should be gone after delete")
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ecocycle.db")

	first, err := NewSQLite(path, "ecocycle")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := first.Set(ctx, KeyUser, []byte(`{"id":"u1"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewSQLite(path, "ecocycle")
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer second.Close()

	raw, ok, err := second.Get(ctx, KeyUser)
	if err != nil || !ok {
		t.Fatalf("expected persisted value, ok=%v err=%v", ok, err)
	}
	if string(raw) != `{"id":"u1"}` {
		t.Fatalf("unexpected value %q", raw)
	}
}
