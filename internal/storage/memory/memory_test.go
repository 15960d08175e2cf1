package memory

import (
	"context"
	"errors"
	"testing"

	"expenso/internal/storage"
)

func TestMemoryStoreGetPut(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Get(ctx, "k"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	val := []byte(`["a"]`)
	if err := s.Put(ctx, "k", val); err != nil {
		t.Fatalf("put: %v", err)
	}
	val[0] = 'x' // caller mutation must not leak in

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != `["a"]` {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}
}

func TestNewWithRecords(t *testing.T) {
	s := NewWithRecords(map[string]string{"a": "1"})
	got, err := s.Get(context.Background(), "a")
	if err != nil || string(got) != "1" {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}
}
