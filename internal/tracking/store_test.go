package tracking_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nasflow/internal/testsupport"
	"nasflow/internal/tracking"
)

func TestOpenCreatesParentDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := os.Stat(filepath.Dir(cfg.Paths.DBPath)); !os.IsNotExist(err) {
		t.Fatalf("expected state dir to be absent before Open, got %v", err)
	}

	store := testsupport.MustOpenStore(t, cfg)
	if store.Path() != cfg.Paths.DBPath {
		t.Fatalf("unexpected store path: %q", store.Path())
	}
	if _, err := os.Stat(cfg.Paths.DBPath); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestOpenFailsWhenParentCannotBeCreated(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	_, err := tracking.Open(context.Background(), filepath.Join(blocker, "sub", "nasflow.db"))
	if !errors.Is(err, tracking.ErrStorageDir) {
		t.Fatalf("expected ErrStorageDir, got %v", err)
	}
}

func TestInsertIfAbsentIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	path := filepath.Join(cfg.Paths.SourceDir, "clip.mp4")
	detected := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	inserted, err := store.InsertIfAbsent(ctx, path, "clip.mp4", detected)
	if err != nil {
		t.Fatalf("InsertIfAbsent failed: %v", err)
	}
	if !inserted {
		t.Fatal("expected first insert to report true")
	}

	for i := 0; i < 3; i++ {
		inserted, err = store.InsertIfAbsent(ctx, path, "renamed.mp4", time.Now())
		if err != nil {
			t.Fatalf("repeat InsertIfAbsent failed: %v", err)
		}
		if inserted {
			t.Fatal("expected repeat insert to be a no-op")
		}
	}

	record, err := store.Get(ctx, path)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record == nil {
		t.Fatal("expected record")
	}
	if record.Filename != "clip.mp4" || record.Status != tracking.StatusDetected || record.History != "" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if !record.DetectedAt.Equal(detected) {
		t.Fatalf("unexpected detected_at: got %v want %v", record.DetectedAt, detected)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[tracking.StatusDetected] != 1 {
		t.Fatalf("expected exactly one record, got %v", stats)
	}
}

func TestGetUnknownPathReturnsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record, err := store.Get(context.Background(), "/nope.mp4")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record, got %#v", record)
	}
}

func TestAdvanceAppendsHistoryOneStepAtATime(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	path := "/media/show.mov"

	if _, err := store.InsertIfAbsent(ctx, path, "show.mov", time.Now()); err != nil {
		t.Fatalf("InsertIfAbsent failed: %v", err)
	}

	first := time.Date(2024, 6, 1, 8, 30, 0, 0, time.Local)
	if err := store.Advance(ctx, path, tracking.StatusCopied, first); err != nil {
		t.Fatalf("Advance to copied failed: %v", err)
	}
	afterCopy, _ := store.Get(ctx, path)
	if afterCopy.Status != tracking.StatusCopied {
		t.Fatalf("expected copied, got %s", afterCopy.Status)
	}
	if afterCopy.History != "2024-06-01 08:30:00 : 0 -> 1\n" {
		t.Fatalf("unexpected history: %q", afterCopy.History)
	}

	second := first.Add(26 * time.Hour)
	if err := store.Advance(ctx, path, tracking.StatusCompleted, second); err != nil {
		t.Fatalf("Advance to completed failed: %v", err)
	}
	done, _ := store.Get(ctx, path)
	if !done.IsTerminal() {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if !strings.HasPrefix(done.History, afterCopy.History) || len(done.History) <= len(afterCopy.History) {
		t.Fatalf("history must only grow: before %q after %q", afterCopy.History, done.History)
	}

	transitions, err := tracking.ParseHistory(done.History)
	if err != nil {
		t.Fatalf("ParseHistory failed: %v", err)
	}
	if len(transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(transitions))
	}
	if transitions[1].From != tracking.StatusCopied || transitions[1].To != tracking.StatusCompleted {
		t.Fatalf("unexpected second transition: %+v", transitions[1])
	}
	if !transitions[1].At.Equal(second) {
		t.Fatalf("unexpected second timestamp: %v", transitions[1].At)
	}
}

func TestAdvanceRejectsSkipsAndRepeats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	path := "/media/a.mp4"

	if _, err := store.InsertIfAbsent(ctx, path, "a.mp4", time.Now()); err != nil {
		t.Fatalf("InsertIfAbsent failed: %v", err)
	}

	if err := store.Advance(ctx, path, tracking.StatusCompleted, time.Now()); !errors.Is(err, tracking.ErrStaleTransition) {
		t.Fatalf("expected 0 -> 2 to be rejected as stale, got %v", err)
	}
	if err := store.Advance(ctx, path, tracking.StatusDetected, time.Now()); !errors.Is(err, tracking.ErrInvalidTransition) {
		t.Fatalf("expected advance to detected to be invalid, got %v", err)
	}
	if err := store.Advance(ctx, path, tracking.Status(7), time.Now()); !errors.Is(err, tracking.ErrInvalidTransition) {
		t.Fatalf("expected unknown status to be invalid, got %v", err)
	}

	if err := store.Advance(ctx, path, tracking.StatusCopied, time.Now()); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := store.Advance(ctx, path, tracking.StatusCopied, time.Now()); !errors.Is(err, tracking.ErrStaleTransition) {
		t.Fatalf("expected repeated advance to be stale, got %v", err)
	}

	record, _ := store.Get(ctx, path)
	if strings.Count(record.History, "\n") != 1 {
		t.Fatalf("rejected transitions must not touch history: %q", record.History)
	}

	if err := store.Advance(ctx, "/media/missing.mp4", tracking.StatusCopied, time.Now()); !errors.Is(err, tracking.ErrStaleTransition) {
		t.Fatalf("expected missing record to be stale, got %v", err)
	}
}

func TestByStatusAndListFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Track(t, store, "/m/b.mp4", "b.mp4", tracking.StatusDetected)
	testsupport.Track(t, store, "/m/a.mp4", "a.mp4", tracking.StatusDetected)
	testsupport.Track(t, store, "/m/c.mov", "c.mov", tracking.StatusCopied)
	testsupport.Track(t, store, "/m/d.mov", "d.mov", tracking.StatusCompleted)

	pending, err := store.ByStatus(ctx, tracking.StatusDetected)
	if err != nil {
		t.Fatalf("ByStatus failed: %v", err)
	}
	if len(pending) != 2 || pending[0].Path != "/m/a.mp4" || pending[1].Path != "/m/b.mp4" {
		t.Fatalf("unexpected detected records: %+v", pending)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %d", len(all))
	}

	active, err := store.List(ctx, tracking.StatusCopied, tracking.StatusCompleted)
	if err != nil {
		t.Fatalf("List filtered failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 filtered records, got %d", len(active))
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := map[tracking.Status]int{
		tracking.StatusDetected:  2,
		tracking.StatusCopied:    1,
		tracking.StatusCompleted: 1,
	}
	for status, count := range want {
		if stats[status] != count {
			t.Fatalf("stats[%s] = %d, want %d", status, stats[status], count)
		}
	}
}

func TestStatsReportsZeroForEmptyStore(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	for _, status := range tracking.AllStatuses() {
		count, ok := stats[status]
		if !ok || count != 0 {
			t.Fatalf("expected zero entry for %s, got %d (present=%v)", status, count, ok)
		}
	}
}

func TestTransitionsSurviveReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := tracking.Open(ctx, cfg.Paths.DBPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.InsertIfAbsent(ctx, "/m/x.mp4", "x.mp4", time.Now()); err != nil {
		t.Fatalf("InsertIfAbsent failed: %v", err)
	}
	if err := store.Advance(ctx, "/m/x.mp4", tracking.StatusCopied, time.Now()); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	record, err := reopened.Get(ctx, "/m/x.mp4")
	if err != nil || record == nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if record.Status != tracking.StatusCopied {
		t.Fatalf("expected copied after reopen, got %s", record.Status)
	}
}

func TestCheckHealthReportsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.Track(t, store, "/m/a.mp4", "a.mp4", tracking.StatusCopied)

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health flags: %+v", health)
	}
	if len(health.MissingColumns) != 0 {
		t.Fatalf("unexpected missing columns: %v", health.MissingColumns)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
	if health.TotalRecords != 1 {
		t.Fatalf("expected 1 record, got %d", health.TotalRecords)
	}
	if len(health.AppliedMigrations) != 3 {
		t.Fatalf("expected 3 applied migrations, got %v", health.AppliedMigrations)
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]tracking.Status{
		"detected":  tracking.StatusDetected,
		"Pending":   tracking.StatusDetected,
		"1":         tracking.StatusCopied,
		"copied":    tracking.StatusCopied,
		"completed": tracking.StatusCompleted,
		" done ":    tracking.StatusCompleted,
	}
	for input, want := range cases {
		got, err := tracking.ParseStatus(input)
		if err != nil {
			t.Fatalf("ParseStatus(%q) failed: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := tracking.ParseStatus("archived"); err == nil {
		t.Fatal("expected unknown status error")
	}
}
