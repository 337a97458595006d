package tracking

import (
	"database/sql"
	"errors"
	"time"
)

const recordColumns = "filepath, filename, status, detected_at, history"

// timestampLayout matches SQLite's CURRENT_TIMESTAMP so rows written by nasflow
// and rows defaulted by the column sort together as text.
const timestampLayout = "2006-01-02 15:04:05"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		path        string
		filename    sql.NullString
		status      sql.NullInt64
		detectedRaw any
		history     sql.NullString
	)
	if err := scanner.Scan(&path, &filename, &status, &detectedRaw, &history); err != nil {
		return nil, err
	}

	record := &Record{
		Path:     path,
		Filename: filename.String,
		Status:   Status(status.Int64),
		History:  history.String,
	}
	if detected, err := parseTimeValue(detectedRaw); err == nil {
		record.DetectedAt = detected
	}
	return record, nil
}

// parseTimeValue accepts the driver's native time values as well as text in
// timestampLayout or RFC3339.
func parseTimeValue(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimeString(v)
	case []byte:
		return parseTimeString(string(v))
	default:
		return time.Time{}, errors.New("unsupported time value")
	}
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(timestampLayout, value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
