package tracking

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of a tracked file. Values are persisted as
// integers and only ever increase by one.
type Status int

const (
	StatusDetected  Status = 0
	StatusCopied    Status = 1
	StatusCompleted Status = 2
)

var allStatuses = []Status{StatusDetected, StatusCopied, StatusCompleted}

// AllStatuses returns every lifecycle status in order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	return s >= StatusDetected && s <= StatusCompleted
}

func (s Status) String() string {
	switch s {
	case StatusDetected:
		return "detected"
	case StatusCopied:
		return "copied"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseStatus accepts a status name or its numeric form.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "detected", "pending", "0":
		return StatusDetected, nil
	case "copied", "copying", "uploading", "1":
		return StatusCopied, nil
	case "completed", "done", "2":
		return StatusCompleted, nil
	}
	return 0, fmt.Errorf("unknown status %q", value)
}

// Record is one tracked source file persisted in SQLite.
type Record struct {
	Path       string
	Filename   string
	Status     Status
	DetectedAt time.Time
	History    string
}

// IsTerminal reports whether the record has reached the final status.
func (r *Record) IsTerminal() bool {
	return r != nil && r.Status == StatusCompleted
}

// DatabaseHealth captures diagnostic information about the record database.
type DatabaseHealth struct {
	DBPath            string
	DatabaseExists    bool
	DatabaseReadable  bool
	AppliedMigrations []string
	TableExists       bool
	MissingColumns    []string
	IntegrityCheck    bool
	TotalRecords      int
	Error             string
}
