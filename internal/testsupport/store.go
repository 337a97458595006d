package testsupport

import (
	"context"
	"testing"
	"time"

	"nasflow/internal/config"
	"nasflow/internal/tracking"
)

// MustOpenStore opens a tracking.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *tracking.Store {
	t.Helper()

	store, err := tracking.Open(context.Background(), cfg.Paths.DBPath)
	if err != nil {
		t.Fatalf("tracking.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Track inserts a record and advances it to status, failing the test on error.
func Track(t testing.TB, store *tracking.Store, path, filename string, status tracking.Status) *tracking.Record {
	t.Helper()

	ctx := context.Background()
	if _, err := store.InsertIfAbsent(ctx, path, filename, time.Now()); err != nil {
		t.Fatalf("InsertIfAbsent: %v", err)
	}
	for next := tracking.StatusCopied; next <= status; next++ {
		if err := store.Advance(ctx, path, next, time.Now()); err != nil {
			t.Fatalf("Advance to %s: %v", next, err)
		}
	}
	record, err := store.Get(ctx, path)
	if err != nil || record == nil {
		t.Fatalf("Get %s: %v", path, err)
	}
	return record
}
