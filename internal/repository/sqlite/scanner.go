package sqlite

import (
	"fmt"
	"time"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// recordColumns is the column list every record query selects, in scan order.
const recordColumns = `id, reference, kind, status, title, counterparty, origin, destination,
	occurred_at, amount, created_at, updated_at`

// ScanRecord scans a single record from a database row
func ScanRecord(scanner Scanner) (*Record, error) {
	record := &Record{}
	var occurredAt, createdAt, updatedAt string

	err := scanner.Scan(
		&record.ID,
		&record.Reference,
		&record.Kind,
		&record.Status,
		&record.Title,
		&record.Counterparty,
		&record.Origin,
		&record.Destination,
		&occurredAt,
		&record.Amount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := parseTimes(
		timeField{"occurred_at", occurredAt, &record.OccurredAt},
		timeField{"created_at", createdAt, &record.CreatedAt},
		timeField{"updated_at", updatedAt, &record.UpdatedAt},
	); err != nil {
		return nil, err
	}

	return record, nil
}

// ScanRecords scans multiple records from database rows
func ScanRecords(rows Rows) ([]*Record, error) {
	records := make([]*Record, 0)
	for rows.Next() {
		record, err := ScanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ScanStatusChange scans a single audit row
func ScanStatusChange(scanner Scanner) (*StatusChange, error) {
	change := &StatusChange{}
	var changedAt string
	if err := scanner.Scan(&change.ID, &change.RecordID, &change.Action, &change.FromStatus, &change.ToStatus, &changedAt); err != nil {
		return nil, err
	}
	if err := parseTimes(timeField{"changed_at", changedAt, &change.ChangedAt}); err != nil {
		return nil, err
	}
	return change, nil
}

// ScanStatusChanges scans multiple audit rows
func ScanStatusChanges(rows Rows) ([]*StatusChange, error) {
	changes := make([]*StatusChange, 0)
	for rows.Next() {
		change, err := ScanStatusChange(rows)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

type timeField struct {
	column string
	raw    string
	dest   *time.Time
}

func parseTimes(fields ...timeField) error {
	for _, f := range fields {
		t, err := ParseTimeFromDB(f.raw)
		if err != nil {
			return fmt.Errorf("parse %s %q: %w", f.column, f.raw, err)
		}
		*f.dest = t
	}
	return nil
}
