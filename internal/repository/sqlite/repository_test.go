package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haulboard/internal/errors"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "hb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestRecord(ref, kind, status string) *Record {
	return &Record{
		Reference:    ref,
		Kind:         kind,
		Status:       status,
		Title:        "Load " + ref,
		Counterparty: "Ravi Transport",
		Origin:       "Mumbai",
		Destination:  "Pune",
		OccurredAt:   time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC),
	}
}

func TestCreateAndGetRecord(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	record := newTestRecord("T-1", "trip", "pending")
	record.Amount = decimal.NewNullDecimal(decimal.RequireFromString("1250.50"))

	require.NoError(t, repo.CreateRecord(ctx, record))
	assert.Greater(t, record.ID, int64(0))
	assert.False(t, record.CreatedAt.IsZero())

	got, err := repo.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "T-1", got.Reference)
	assert.Equal(t, "trip", got.Kind)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "Ravi Transport", got.Counterparty)
	assert.True(t, got.OccurredAt.Equal(record.OccurredAt))
	require.True(t, got.Amount.Valid)
	assert.True(t, got.Amount.Decimal.Equal(decimal.RequireFromString("1250.5")))

	byRef, err := repo.GetRecordByReference(ctx, "T-1")
	require.NoError(t, err)
	assert.Equal(t, record.ID, byRef.ID)
}

func TestCreateRecord_NullAmount(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	record := newTestRecord("B-1", "booking", "booked")
	require.NoError(t, repo.CreateRecord(ctx, record))

	got, err := repo.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.False(t, got.Amount.Valid)
}

func TestCreateRecord_DuplicateReference(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateRecord(ctx, newTestRecord("T-1", "trip", "pending")))
	err := repo.CreateRecord(ctx, newTestRecord("T-1", "trip", "pending"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
}

func TestGetRecord_NotFound(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.GetRecord(ctx, 999)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "not found")

	_, err = repo.GetRecordByReference(ctx, "missing")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestSearchRecords(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateRecord(ctx, newTestRecord("T-1", "trip", "pending")))
	require.NoError(t, repo.CreateRecord(ctx, newTestRecord("T-2", "trip", "completed")))
	require.NoError(t, repo.CreateRecord(ctx, newTestRecord("B-1", "booking", "completed")))

	all, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "T-1", all[0].Reference)

	kind := "trip"
	trips, err := repo.SearchRecords(ctx, SearchOptions{Kind: &kind})
	require.NoError(t, err)
	assert.Len(t, trips, 2)

	status := "completed"
	completed, err := repo.SearchRecords(ctx, SearchOptions{Kind: &kind, Status: &status})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "T-2", completed[0].Reference)

	earning := "earning"
	none, err := repo.SearchRecords(ctx, SearchOptions{Kind: &earning})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTransitionRecord(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	record := newTestRecord("T-1", "trip", "pending")
	require.NoError(t, repo.CreateRecord(ctx, record))

	changedAt := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	change := &StatusChange{
		RecordID:   record.ID,
		Action:     "accept",
		FromStatus: "pending",
		ToStatus:   "accepted",
		ChangedAt:  changedAt,
	}
	require.NoError(t, repo.TransitionRecord(ctx, change))
	assert.Greater(t, change.ID, int64(0))

	got, err := repo.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", got.Status)
	assert.True(t, got.UpdatedAt.Equal(changedAt))

	history, err := repo.ListStatusChanges(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "accept", history[0].Action)
	assert.Equal(t, "pending", history[0].FromStatus)
	assert.Equal(t, "accepted", history[0].ToStatus)
	assert.True(t, history[0].ChangedAt.Equal(changedAt))
}

func TestTransitionRecord_StaleStatus(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	record := newTestRecord("T-1", "trip", "in-transit")
	require.NoError(t, repo.CreateRecord(ctx, record))

	err := repo.TransitionRecord(ctx, &StatusChange{
		RecordID:   record.ID,
		Action:     "accept",
		FromStatus: "pending",
		ToStatus:   "accepted",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransition(err))

	got, err := repo.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "in-transit", got.Status)

	history, err := repo.ListStatusChanges(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransitionRecord_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.TransitionRecord(context.Background(), &StatusChange{
		RecordID:   42,
		Action:     "accept",
		FromStatus: "pending",
		ToStatus:   "accepted",
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestQueryTimeout_CancelledContext(t *testing.T) {
	repo, err := NewWithOptions(filepath.Join(t.TempDir(), "hb.db"), Options{QueryTimeout: time.Second})
	require.NoError(t, err)
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.ListRecords(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))
}

func TestNew_InMemory(t *testing.T) {
	repo, err := New(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.CreateRecord(ctx, newTestRecord("E-1", "earning", "pending")))

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
