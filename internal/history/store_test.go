package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Record(ctx, Entry{Operation: "metadata", InputPath: "/a.mkv", Status: StatusOK}); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	entries, err := second.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries after reopen, want 1", len(entries))
	}
}

func TestRecord_FillsDefaults(t *testing.T) {
	store := openTestStore(t)
	e, err := store.Record(context.Background(), Entry{
		Operation: "watermark",
		InputPath: "/media/movie.mkv",
		Status:    StatusFailed,
		Detail:    "ffmpeg exited with status 1",
		Elapsed:   1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.ID == "" {
		t.Error("ID not assigned")
	}
	if e.StartedAt.IsZero() {
		t.Error("StartedAt not assigned")
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	got := entries[0]
	if got.ID != e.ID || got.Operation != "watermark" || got.Status != StatusFailed {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Elapsed != 1500*time.Millisecond {
		t.Errorf("Elapsed = %v, want 1.5s", got.Elapsed)
	}
	if got.Detail != "ffmpeg exited with status 1" {
		t.Errorf("Detail = %q", got.Detail)
	}
}

func TestRecent_NewestFirstWithLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"a.mkv", "b.mkv", "c.mkv"} {
		_, err := store.Record(ctx, Entry{
			Operation: "attach",
			InputPath: name,
			Status:    StatusOK,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].InputPath != "c.mkv" || entries[1].InputPath != "b.mkv" {
		t.Errorf("order = %s, %s; want c.mkv, b.mkv", entries[0].InputPath, entries[1].InputPath)
	}
	if !entries[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("StartedAt = %v", entries[0].StartedAt)
	}
}

func TestCloseNil(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Errorf("nil Close() = %v", err)
	}
}
