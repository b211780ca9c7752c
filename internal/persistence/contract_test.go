package persistence

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// testByteStoreContract exercises the behavior every ByteStore must share.
// The store is expected to be empty.
func testByteStoreContract(t *testing.T, store ByteStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	first := []byte(`[{"kind":"get-data","id":1}]`)
	if err := store.Put(ctx, "workflowData", first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := store.Get(ctx, "workflowData")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, first) {
		t.Fatalf("expected %q, got %q", first, got)
	}

	second := []byte(`[]`)
	if err := store.Put(ctx, "workflowData", second); err != nil {
		t.Fatalf("Put (overwrite) failed: %v", err)
	}
	got, err = store.Get(ctx, "workflowData")
	if err != nil {
		t.Fatalf("Get after overwrite failed: %v", err)
	}
	if !bytes.Equal(got, second) {
		t.Fatalf("expected overwritten value %q, got %q", second, got)
	}

	if err := store.Put(ctx, "empty", []byte{}); err != nil {
		t.Fatalf("Put (empty) failed: %v", err)
	}
	got, err = store.Get(ctx, "empty")
	if err != nil {
		t.Fatalf("Get of empty value should succeed, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty value, got %q", got)
	}

	if err := store.Put(ctx, "another", []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	want := []string{"another", "empty", "workflowData"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
	}

	if err := store.Delete(ctx, "workflowData"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "workflowData"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after Delete, got %v", err)
	}
	if err := store.Delete(ctx, "workflowData"); err != nil {
		t.Fatalf("Delete of missing key should not fail, got %v", err)
	}
	keys, err = store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys after delete, got %v", keys)
	}
}
