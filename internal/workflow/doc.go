// Package workflow performs one pass of the media backup lifecycle.
//
// A Runner walks the source tree and records qualifying files, copies every
// detected record into the upload directory, and marks copied records complete
// once a same-named file appears in the completed directory. Each pass returns
// a Summary with the per-run counts and an Outcome for every record that did
// not advance, so callers can report stuck files without the pass failing.
//
// A record advances at most one status per pass. Store errors that prevent a
// phase from listing its candidates abort only that phase; per-record errors
// never abort a pass.
package workflow
