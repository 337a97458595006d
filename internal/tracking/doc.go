// Package tracking persists media file records in SQLite and exposes helpers
// for driving their detected -> copied -> completed lifecycle.
//
// The Store owns the single files table keyed by absolute source path. Each
// status transition is a single autocommitted statement guarded by the
// expected current status, so an interrupted run never loses earlier
// transitions and a record can never skip or repeat a step. Every transition
// appends one line to the record's history.
//
// Schema changes are additive migrations recorded in schema_migrations; add a
// new numbered step rather than editing an applied one. Databases created by
// the earlier script-based tool open without conversion.
package tracking
