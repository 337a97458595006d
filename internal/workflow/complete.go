package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"nasflow/internal/logging"
	"nasflow/internal/tracking"
)

// checkCompleted advances copied records whose base name exists in the
// completed directory. Presence of the name is the only signal; content is not
// compared. Records copied earlier in this pass wait for the next one.
func (r *Runner) checkCompleted(ctx context.Context, summary *Summary, advanced map[string]struct{}) error {
	logger := logging.WithContext(ctx, r.logger)

	records, err := r.store.ByStatus(ctx, tracking.StatusCopied)
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := advanced[record.Path]; ok {
			continue
		}

		candidate := filepath.Join(r.cfg.Paths.CompletedDir, recordName(record))
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				summary.addOutcome(phaseComplete, record.Path, OutcomeWaiting, nil)
				continue
			}
			err = fmt.Errorf("stat completed file: %w", err)
			logger.Debug("completion check deferred", logging.String(logging.FieldPath, record.Path), logging.Error(err))
			summary.addOutcome(phaseComplete, record.Path, OutcomeRetry, err)
			continue
		}

		if err := r.store.Advance(ctx, record.Path, tracking.StatusCompleted, r.now()); err != nil {
			logger.Debug("completion deferred", logging.String(logging.FieldPath, record.Path), logging.Error(err))
			summary.addOutcome(phaseComplete, record.Path, OutcomeRetry, err)
			continue
		}
		summary.Completed++
		advanced[record.Path] = struct{}{}
		logger.Info("marked completed", logging.String(logging.FieldPath, record.Path))
	}
	return nil
}
