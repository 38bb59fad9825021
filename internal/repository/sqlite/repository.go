package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"haulboard/internal/errors"
	"haulboard/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// SearchOptions narrows a record query in SQL. Presentation filtering
// (date range, text search, sort order) happens in the pipeline.
type SearchOptions struct {
	Kind   *string
	Status *string
}

// Repository defines the interface for database operations
type Repository interface {
	// Create operations
	CreateRecord(ctx context.Context, record *Record) error

	// Read operations
	GetRecord(ctx context.Context, id int64) (*Record, error)
	GetRecordByReference(ctx context.Context, reference string) (*Record, error)
	ListRecords(ctx context.Context) ([]*Record, error)
	SearchRecords(ctx context.Context, opts SearchOptions) ([]*Record, error)
	ListStatusChanges(ctx context.Context, recordID int64) ([]*StatusChange, error)

	// Update operations. Records are never deleted.
	TransitionRecord(ctx context.Context, change *StatusChange) error

	// Utility
	Close() error
}

// Options holds per-operation timeouts. Zero means no timeout.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

// New creates a new SQLite repository instance without timeouts
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions opens the database at dbPath and runs pending migrations.
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// One connection keeps :memory: databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("enable foreign keys", err)
	}

	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts, now: time.Now}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

func (r *SQLiteRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.WriteTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.WriteTimeout)
	}
	return context.WithCancel(ctx)
}

// CreateRecord inserts a record and sets its ID. CreatedAt and UpdatedAt
// default to now when zero.
func (r *SQLiteRepository) CreateRecord(ctx context.Context, record *Record) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	now := r.now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}

	query := `
	INSERT INTO records (reference, kind, status, title, counterparty, origin, destination,
		occurred_at, amount, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		record.Reference, record.Kind, record.Status, record.Title, record.Counterparty,
		record.Origin, record.Destination, FormatTimeForDB(record.OccurredAt), record.Amount,
		FormatTimeForDB(record.CreatedAt), FormatTimeForDB(record.UpdatedAt))
	if err != nil {
		return err
	}

	record.ID = id
	return nil
}

// GetRecord retrieves a record by ID
func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (*Record, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanRecord, "record", fmt.Sprintf("%d", id), id)
}

// GetRecordByReference retrieves a record by its external reference
func (r *SQLiteRepository) GetRecordByReference(ctx context.Context, reference string) (*Record, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + recordColumns + ` FROM records WHERE reference = ?`
	return QuerySingle(ctx, r.db, query, ScanRecord, "record", reference, reference)
}

// ListRecords retrieves all records in insertion order
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]*Record, error) {
	return r.SearchRecords(ctx, SearchOptions{})
}

// SearchRecords retrieves records matching the provided options, in insertion order
func (r *SQLiteRepository) SearchRecords(ctx context.Context, opts SearchOptions) ([]*Record, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var conditions []string
	var args []interface{}

	if opts.Kind != nil && *opts.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, *opts.Kind)
	}
	if opts.Status != nil && *opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}

	query := `SELECT ` + recordColumns + ` FROM records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	return QueryMultiple(ctx, r.db, query, ScanRecords, "records", args...)
}

// TransitionRecord moves a record from change.FromStatus to change.ToStatus
// and appends the audit row, atomically. The update only applies while the
// stored status still equals FromStatus; otherwise an invalid transition
// error is returned and nothing is written.
func (r *SQLiteRepository) TransitionRecord(ctx context.Context, change *StatusChange) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	if change.ChangedAt.IsZero() {
		change.ChangedAt = r.now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transition", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE records SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		change.ToStatus, FormatTimeForDB(change.ChangedAt), change.RecordID, change.FromStatus)
	if err != nil {
		return HandleDatabaseError("update record status", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", err)
	}
	if rows == 0 {
		var kind string
		err := tx.QueryRowContext(ctx, `SELECT kind FROM records WHERE id = ?`, change.RecordID).Scan(&kind)
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError("record", fmt.Sprintf("%d", change.RecordID))
		}
		if err != nil {
			return HandleDatabaseError("load record kind", err)
		}
		return errors.NewInvalidTransitionError(change.Action, change.FromStatus, kind).
			WithContext("reason", "status changed concurrently")
	}

	id, err := ExecuteWithLastInsertID(ctx, tx,
		`INSERT INTO status_changes (record_id, action, from_status, to_status, changed_at) VALUES (?, ?, ?, ?, ?)`,
		change.RecordID, change.Action, change.FromStatus, change.ToStatus, FormatTimeForDB(change.ChangedAt))
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transition", err)
	}
	change.ID = id
	return nil
}

// ListStatusChanges returns the audit trail of a record, oldest first
func (r *SQLiteRepository) ListStatusChanges(ctx context.Context, recordID int64) ([]*StatusChange, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
	SELECT id, record_id, action, from_status, to_status, changed_at
	FROM status_changes
	WHERE record_id = ?
	ORDER BY changed_at ASC, id ASC`

	return QueryMultiple(ctx, r.db, query, ScanStatusChanges, "status changes", recordID)
}
