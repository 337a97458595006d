package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"nasflow/internal/config"
	"nasflow/internal/tracking"
)

type showView struct {
	Path        string           `json:"path"`
	Filename    string           `json:"filename"`
	Status      string           `json:"status"`
	DetectedAt  time.Time        `json:"detected_at"`
	Transitions []transitionView `json:"transitions"`
}

type transitionView struct {
	At   string `json:"at"`
	From string `json:"from"`
	To   string `json:"to"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Show one record and its transition history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			store, err := ctx.openExistingStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("%s is not tracked (no record database yet)", path)
			}
			defer store.Close()

			record, err := store.Get(cmd.Context(), path)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%s is not tracked", path)
			}

			transitions, parseErr := tracking.ParseHistory(record.History)
			view := showView{
				Path:        record.Path,
				Filename:    record.Filename,
				Status:      record.Status.String(),
				DetectedAt:  record.DetectedAt,
				Transitions: []transitionView{},
			}
			for _, tr := range transitions {
				view.Transitions = append(view.Transitions, transitionView{
					At:   tr.At.Format("2006-01-02 15:04:05"),
					From: tr.From.String(),
					To:   tr.To.String(),
				})
			}

			return ctx.emit(cmd, view, func(out io.Writer) {
				renderShow(out, record, view, parseErr)
			})
		},
	}
}

func renderShow(out io.Writer, record *tracking.Record, view showView, parseErr error) {
	painter := newStatusPainter(shouldColorize(out))
	fmt.Fprintf(out, "Path: %s\n", record.Path)
	fmt.Fprintf(out, "Filename: %s\n", record.Filename)
	fmt.Fprintf(out, "Status: %s\n", painter.label(record.Status))
	if !record.DetectedAt.IsZero() {
		fmt.Fprintf(out, "Detected: %s (%s)\n", record.DetectedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(record.DetectedAt))
	}
	if len(view.Transitions) == 0 {
		fmt.Fprintln(out, "History: none")
	} else {
		tbl := newRecordTable(column{title: "At"}, column{title: "From"}, column{title: "To"})
		for _, tr := range view.Transitions {
			tbl.row(tr.At, tr.From, tr.To)
		}
		tbl.render(out)
	}
	if parseErr != nil {
		fmt.Fprintf(out, "History contains unreadable lines: %v\n", parseErr)
	}
}
