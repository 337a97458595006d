package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"nasflow/internal/tracking"
)

type listItem struct {
	Path       string    `json:"path"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	DetectedAt time.Time `json:"detected_at"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatusFilters(statusFlags)
			if err != nil {
				return err
			}

			store, err := ctx.openExistingStore(cmd.Context())
			if err != nil {
				return err
			}
			var records []*tracking.Record
			if store != nil {
				defer store.Close()
				if records, err = store.List(cmd.Context(), statuses...); err != nil {
					return err
				}
			}

			items := make([]listItem, 0, len(records))
			for _, record := range records {
				item := listItem{
					Path:       record.Path,
					Filename:   record.Filename,
					Status:     record.Status.String(),
					DetectedAt: record.DetectedAt,
				}
				if info, err := os.Stat(record.Path); err == nil {
					item.SizeBytes = info.Size()
				}
				items = append(items, item)
			}

			return ctx.emit(cmd, items, func(out io.Writer) {
				renderList(out, records, items)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Filter by status (detected, copied, completed); repeatable")
	return cmd
}

func renderList(out io.Writer, records []*tracking.Record, items []listItem) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No records tracked")
		return
	}
	painter := newStatusPainter(shouldColorize(out))
	tbl := newRecordTable(
		column{title: "Status"},
		column{title: "File"},
		column{title: "Size", quantity: true},
		column{title: "Detected"},
		column{title: "Directory"},
	)
	var totalBytes uint64
	for i, record := range records {
		size := "-"
		if items[i].SizeBytes > 0 {
			totalBytes += uint64(items[i].SizeBytes)
			size = humanize.IBytes(uint64(items[i].SizeBytes))
		}
		detected := "-"
		if !record.DetectedAt.IsZero() {
			detected = humanize.Time(record.DetectedAt)
		}
		tbl.row(painter.label(record.Status), filepath.Base(record.Path), size, detected, filepath.Dir(record.Path))
	}
	tbl.total("", fmt.Sprintf("%s records", humanize.Comma(int64(len(records)))), humanize.IBytes(totalBytes))
	tbl.render(out)
}

func parseStatusFilters(values []string) ([]tracking.Status, error) {
	var statuses []tracking.Status
	seen := make(map[tracking.Status]struct{})
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			status, err := tracking.ParseStatus(part)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[status]; ok {
				continue
			}
			seen[status] = struct{}{}
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}
