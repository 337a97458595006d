package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nasflow/internal/logging"
	"nasflow/internal/tracking"
)

// copyPending copies every detected record into the upload directory under
// its base name. Failures leave the record detected so the next pass retries
// it; they are only visible at debug level and in the summary outcomes.
func (r *Runner) copyPending(ctx context.Context, summary *Summary, advanced map[string]struct{}) error {
	logger := logging.WithContext(ctx, r.logger)

	records, err := r.store.ByStatus(ctx, tracking.StatusDetected)
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.copyRecord(ctx, record); err != nil {
			logger.Debug("copy deferred", logging.String(logging.FieldPath, record.Path), logging.Error(err))
			summary.addOutcome(phaseCopy, record.Path, OutcomeRetry, err)
			continue
		}
		summary.Copied++
		advanced[record.Path] = struct{}{}
		logger.Info("copied to upload", logging.String(logging.FieldPath, record.Path))
	}
	return nil
}

func (r *Runner) copyRecord(ctx context.Context, record *tracking.Record) error {
	info, err := os.Stat(record.Path)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source %s is not a regular file", record.Path)
	}

	uploadDir := r.cfg.Paths.UploadDir
	if err := r.ensureSpace(uploadDir, info.Size()); err != nil {
		return err
	}

	dst := filepath.Join(uploadDir, recordName(record))
	if err := r.copyFile(record.Path, dst); err != nil {
		return err
	}

	return r.store.Advance(ctx, record.Path, tracking.StatusCopied, r.now())
}
