// Package preflight verifies that the configured directories are usable
// before an operator relies on a workflow pass.
package preflight
