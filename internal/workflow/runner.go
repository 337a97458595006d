package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"nasflow/internal/config"
	"nasflow/internal/fileutil"
	"nasflow/internal/logging"
	"nasflow/internal/tracking"
)

const (
	phaseScan     = "scan"
	phaseCopy     = "copy"
	phaseComplete = "complete"
)

// RecordStore is the subset of tracking.Store the runner relies on.
type RecordStore interface {
	InsertIfAbsent(ctx context.Context, path, filename string, detectedAt time.Time) (bool, error)
	ByStatus(ctx context.Context, status tracking.Status) ([]*tracking.Record, error)
	Advance(ctx context.Context, path string, to tracking.Status, at time.Time) error
}

// Runner executes the scan, copy, and completion phases against a store.
//
// A record copied during a pass is not checked for completion until the next
// pass, even when its completed file already exists. The cron script this tool
// replaces re-read copied records after its copy loop and could move a file
// from detected to completed in a single run; a Runner needs two passes.
type Runner struct {
	cfg    *config.Config
	store  RecordStore
	logger *slog.Logger

	now         func() time.Time
	copyFile    func(src, dst string) error
	ensureSpace func(dir string, need int64) error
	runID       string
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithClock overrides the time source used for detection and history stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCopier replaces the file copy implementation (used in tests).
func WithCopier(copyFile func(src, dst string) error) Option {
	return func(r *Runner) {
		if copyFile != nil {
			r.copyFile = copyFile
		}
	}
}

// WithSpaceCheck replaces the free-space probe run before each copy.
func WithSpaceCheck(check func(dir string, need int64) error) Option {
	return func(r *Runner) {
		if check != nil {
			r.ensureSpace = check
		}
	}
}

// WithRunID fixes the invocation identifier instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// New constructs a Runner. A nil logger discards output.
func New(cfg *config.Config, store RecordStore, logger *slog.Logger, opts ...Option) *Runner {
	runner := &Runner{
		cfg:         cfg,
		store:       store,
		logger:      logging.NewComponentLogger(logger, "workflow"),
		now:         time.Now,
		copyFile:    fileutil.CopyPreserve,
		ensureSpace: fileutil.EnsureSpace,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run performs one full pass. The returned error joins phase-level failures;
// the Summary is valid even when an error is returned.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	runID := r.runID
	if runID == "" {
		if id, ok := logging.RunIDFromContext(ctx); ok {
			runID = id
		} else {
			runID = uuid.NewString()
		}
	}
	ctx = logging.WithRunID(ctx, runID)

	summary := Summary{RunID: runID, StartedAt: r.now()}
	advanced := make(map[string]struct{})

	var errs []error
	phases := []struct {
		name string
		fn   func(context.Context, *Summary, map[string]struct{}) error
	}{
		{phaseScan, r.scan},
		{phaseCopy, r.copyPending},
		{phaseComplete, r.checkCompleted},
	}
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		phaseCtx := logging.WithPhase(ctx, phase.name)
		if err := phase.fn(phaseCtx, &summary, advanced); err != nil {
			logging.WithContext(phaseCtx, r.logger).Warn("phase aborted", logging.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", phase.name, err))
		}
	}

	summary.Duration = r.now().Sub(summary.StartedAt)
	logging.WithContext(ctx, r.logger).Info(
		"workflow pass finished",
		logging.Int("new", summary.New),
		logging.Int("copied", summary.Copied),
		logging.Int("completed", summary.Completed),
		logging.Int("retry", summary.OutcomeCount(OutcomeRetry)),
		logging.Int("waiting", summary.OutcomeCount(OutcomeWaiting)),
		logging.Duration("duration", summary.Duration),
	)
	return summary, errors.Join(errs...)
}

// recordName is the base name used for upload and completion lookups. Rows
// written by older tools may lack a filename.
func recordName(record *tracking.Record) string {
	if record.Filename != "" {
		return record.Filename
	}
	return filepath.Base(record.Path)
}
