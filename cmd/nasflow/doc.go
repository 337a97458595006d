// Package main hosts the nasflow CLI entrypoint and command graph.
//
// Running nasflow with no subcommand performs one workflow pass (scan, copy,
// completion check) and exits; the positional argument "notify" additionally
// sends the run summary to the configured webhook. The remaining commands
// inspect the record store, scaffold configuration, and exercise the
// notification transport.
//
// Scheduling is left to cron or a systemd timer. Keep the commands thin: the
// behavior lives in internal/workflow and internal/tracking.
package main
