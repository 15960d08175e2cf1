package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"expenso/internal/storage"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := s.Get(ctx, "expense-tracker-data"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Put(ctx, "expense-tracker-data", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "expense-tracker-data", []byte(`["x"]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Get(ctx, "expense-tracker-data")
	if err != nil || string(got) != `["x"]` {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "expense-tracker-data.json" {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "../escape", `a\b`, ".hidden"} {
		if err := s.Put(context.Background(), key, []byte("1")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
