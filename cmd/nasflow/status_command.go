package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"nasflow/internal/preflight"
	"nasflow/internal/tracking"
)

type statusView struct {
	DBPath  string                   `json:"db_path"`
	Counts  map[string]int           `json:"counts"`
	Total   int                      `json:"total"`
	Health  *tracking.DatabaseHealth `json:"health,omitempty"`
	Missing bool                     `json:"database_missing,omitempty"`
	Checks  []preflight.Result       `json:"checks"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cumulative record counts and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			view := statusView{
				DBPath: cfg.Paths.DBPath,
				Counts: map[string]int{},
				Checks: preflight.RunAll(cfg),
			}

			store, err := ctx.openExistingStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				view.Missing = true
				for _, status := range tracking.AllStatuses() {
					view.Counts[status.String()] = 0
				}
			} else {
				defer store.Close()
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				for _, status := range tracking.AllStatuses() {
					view.Counts[status.String()] = stats[status]
					view.Total += stats[status]
				}
				health, err := store.CheckHealth(cmd.Context())
				if err != nil && health.Error == "" {
					health.Error = err.Error()
				}
				view.Health = &health
			}

			return ctx.emit(cmd, view, func(out io.Writer) {
				renderStatus(out, view)
			})
		},
	}
}

func renderStatus(out io.Writer, view statusView) {
	colorize := shouldColorize(out)
	painter := newStatusPainter(colorize)

	fmt.Fprintln(out, renderSectionHeader("Paths"))
	for _, check := range view.Checks {
		fmt.Fprintln(out, renderCheckLine(check, colorize))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Records"))

	tbl := newRecordTable(column{title: "Status"}, column{title: "Records", quantity: true})
	for _, status := range tracking.AllStatuses() {
		tbl.row(painter.label(status), strconv.Itoa(view.Counts[status.String()]))
	}
	tbl.total("total", strconv.Itoa(view.Total))
	tbl.render(out)

	fmt.Fprintf(out, "Database path: %s\n", view.DBPath)
	if view.Missing {
		fmt.Fprintln(out, "Database exists: no (created on the first workflow run)")
		return
	}
	health := view.Health
	fmt.Fprintf(out, "Database exists: %s\n", yesNo(health.DatabaseExists))
	fmt.Fprintf(out, "Readable: %s\n", yesNo(health.DatabaseReadable))
	if len(health.AppliedMigrations) > 0 {
		fmt.Fprintf(out, "Migrations: %s\n", strings.Join(health.AppliedMigrations, ", "))
	}
	fmt.Fprintf(out, "files table present: %s\n", yesNo(health.TableExists))
	if len(health.MissingColumns) > 0 {
		fmt.Fprintf(out, "Missing columns: %s\n", strings.Join(health.MissingColumns, ", "))
	} else {
		fmt.Fprintln(out, "Missing columns: none")
	}
	fmt.Fprintf(out, "Integrity check: %s\n", yesNo(health.IntegrityCheck))
	if health.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", health.Error)
	}
}
