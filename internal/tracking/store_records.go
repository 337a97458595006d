package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertIfAbsent tracks a newly observed file at StatusDetected with an empty
// history. detected_at is stored as whole-second UTC text in the same layout as
// SQLite's CURRENT_TIMESTAMP. It reports whether a row was inserted; an already tracked path is
// left untouched.
func (s *Store) InsertIfAbsent(ctx context.Context, path, filename string, detectedAt time.Time) (bool, error) {
	if detectedAt.IsZero() {
		detectedAt = time.Now()
	}
	res, err := s.execWithRetry(
		ctx,
		`INSERT OR IGNORE INTO files (filepath, filename, status, detected_at, history) VALUES (?, ?, ?, ?, '')`,
		path,
		filename,
		int(StatusDetected),
		detectedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Get fetches a record by path. It returns nil when the path is not tracked.
func (s *Store) Get(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+recordColumns+` FROM files WHERE filepath = ?`, path)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

// ByStatus returns records at the given status ordered by path.
func (s *Store) ByStatus(ctx context.Context, status Status) ([]*Record, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+recordColumns+` FROM files WHERE status = ? ORDER BY filepath`, int(status))
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// List returns records filtered by status set (or all records when no status
// is provided) ordered by detection time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Record, error) {
	ctx = ensureContext(ctx)
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + recordColumns + ` FROM files`
	orderClause := ` ORDER BY detected_at, filepath`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = int(status)
		}
		query := baseQuery + ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
