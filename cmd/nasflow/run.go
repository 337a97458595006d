package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"nasflow/internal/config"
	"nasflow/internal/logging"
	"nasflow/internal/notifications"
	"nasflow/internal/runlock"
	"nasflow/internal/tracking"
	"nasflow/internal/workflow"
)

// runSummary is the --json rendering of a workflow pass.
type runSummary struct {
	RunID     string             `json:"run_id"`
	StartedAt time.Time          `json:"started_at"`
	Duration  string             `json:"duration"`
	New       int                `json:"new"`
	Copied    int                `json:"copied"`
	Completed int                `json:"completed"`
	Retry     int                `json:"retry"`
	Waiting   int                `json:"waiting"`
	Notified  bool               `json:"notified"`
	Outcomes  []runOutcomeRecord `json:"outcomes,omitempty"`
	Error     string             `json:"error,omitempty"`
}

type runOutcomeRecord struct {
	Path   string `json:"path"`
	Phase  string `json:"phase"`
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
}

// runWorkflow performs one pass. Configuration, store, and lock failures are
// returned (exit 1); errors inside the pass are logged and the command still
// succeeds so scheduled runs keep making progress.
func runWorkflow(cmd *cobra.Command, cctx *commandContext, notify bool) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	ctx := logging.WithRunID(cmd.Context(), runID)
	logger := logging.WithContext(ctx, cctx.logger())

	store, err := tracking.Open(ctx, cfg.Paths.DBPath)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer store.Close()

	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", logging.String("lock", lock.Path()), logging.Error(err))
		}
	}()

	runner := workflow.New(cfg, store, logger, workflow.WithRunID(runID))
	summary, runErr := runner.Run(ctx)
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return runErr
		}
		logger.Warn("workflow pass incomplete", logging.Error(runErr))
	}

	notified := false
	if notify {
		notified = sendSummary(ctx, cfg, store, summary, logger)
	}

	return cctx.emit(cmd, buildRunSummary(summary, notified, runErr), nil)
}

// sendSummary delivers the run digest. Failures are logged only.
func sendSummary(ctx context.Context, cfg *config.Config, store *tracking.Store, summary workflow.Summary, logger *slog.Logger) bool {
	if !notifications.Enabled(cfg) {
		logger.Info("notification skipped: webhook URL missing or placeholder")
		return false
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		logger.Warn("notification skipped: record stats unavailable", logging.Error(err))
		return false
	}

	digest := notifications.NewDigest(notifications.Host(), summary.Counts(), stats)
	if err := notifications.NewService(cfg).NotifySummary(ctx, digest); err != nil {
		logger.Warn("notification failed", logging.String("kind", cfg.Notifications.Kind), logging.Error(err))
		return false
	}
	logger.Info("notification sent", logging.String("kind", cfg.Notifications.Kind))
	return true
}

func buildRunSummary(summary workflow.Summary, notified bool, runErr error) runSummary {
	out := runSummary{
		RunID:     summary.RunID,
		StartedAt: summary.StartedAt,
		Duration:  summary.Duration.Round(time.Millisecond).String(),
		New:       summary.New,
		Copied:    summary.Copied,
		Completed: summary.Completed,
		Retry:     summary.OutcomeCount(workflow.OutcomeRetry),
		Waiting:   summary.OutcomeCount(workflow.OutcomeWaiting),
		Notified:  notified,
	}
	for _, outcome := range summary.Outcomes {
		out.Outcomes = append(out.Outcomes, runOutcomeRecord{
			Path:   outcome.Path,
			Phase:  outcome.Phase,
			Kind:   string(outcome.Kind),
			Reason: outcome.Reason,
		})
	}
	if runErr != nil {
		out.Error = runErr.Error()
	}
	return out
}
