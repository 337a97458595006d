package tracking

import (
	"fmt"
	"strings"
	"time"
)

// historyTimeLayout matches the timestamps already present in existing databases.
const historyTimeLayout = "2006-01-02 15:04:05"

// Transition is one parsed history entry.
type Transition struct {
	At   time.Time
	From Status
	To   Status
}

// HistoryLine formats a single history entry, including the trailing newline.
func HistoryLine(at time.Time, from, to Status) string {
	return fmt.Sprintf("%s : %d -> %d\n", at.Local().Format(historyTimeLayout), int(from), int(to))
}

// ParseHistory splits a history log into transitions. Timestamps are read in
// the local time zone because that is how they were written.
func ParseHistory(history string) ([]Transition, error) {
	var out []Transition
	for _, line := range strings.Split(history, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stamp, rest, ok := strings.Cut(line, " : ")
		if !ok {
			return nil, fmt.Errorf("malformed history line %q", line)
		}
		at, err := time.ParseInLocation(historyTimeLayout, stamp, time.Local)
		if err != nil {
			return nil, fmt.Errorf("history timestamp %q: %w", stamp, err)
		}
		var from, to int
		if _, err := fmt.Sscanf(rest, "%d -> %d", &from, &to); err != nil {
			return nil, fmt.Errorf("history transition %q: %w", rest, err)
		}
		out = append(out, Transition{At: at, From: Status(from), To: Status(to)})
	}
	return out, nil
}
