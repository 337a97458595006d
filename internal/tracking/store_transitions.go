package tracking

import (
	"context"
	"fmt"
	"time"
)

// Advance moves a record from to-1 to to and appends one history line stamped
// with at. The update is its own statement, so it is durable as soon as it
// returns. Targets other than a single forward step are rejected with
// ErrInvalidTransition; a record that is missing or not at to-1 yields
// ErrStaleTransition.
func (s *Store) Advance(ctx context.Context, path string, to Status, at time.Time) error {
	if !to.Valid() || to == StatusDetected {
		return fmt.Errorf("%w: cannot advance to %s", ErrInvalidTransition, to)
	}
	from := to - 1

	res, err := s.execWithRetry(
		ctx,
		`UPDATE files SET status = ?, history = COALESCE(history, '') || ? WHERE filepath = ? AND status = ?`,
		int(to),
		HistoryLine(at, from, to),
		path,
		int(from),
	)
	if err != nil {
		return fmt.Errorf("advance %s to %s: %w", path, to, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s is not %s", ErrStaleTransition, path, from)
	}
	return nil
}
