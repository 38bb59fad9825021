package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haulboard/internal/config"
	"haulboard/internal/domain"
	"haulboard/internal/errors"
	"haulboard/internal/pipeline"
	"haulboard/internal/repository/sqlite"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func setupServices(t *testing.T) (*ServiceContainer, sqlite.Repository) {
	t.Helper()
	repo, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	p := pipeline.New(pipeline.WithClock(func() time.Time { return fixedNow }))
	return NewServiceContainer(repo, p, nil), repo
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func record(ref string, kind domain.Kind, status domain.Status, hoursAgo int, amt *decimal.Decimal) domain.Record {
	return domain.Record{
		Reference:    ref,
		Kind:         kind,
		Status:       status,
		Title:        "Load " + ref,
		Counterparty: "Ravi Transport",
		Origin:       "Mumbai",
		Destination:  "Pune",
		Timestamp:    fixedNow.Add(-time.Duration(hoursAgo) * time.Hour),
		Amount:       amt,
	}
}

func seed(t *testing.T, c *ServiceContainer) {
	t.Helper()
	_, err := c.RecordService.ImportRecords(context.Background(), []domain.Record{
		record("T-1", domain.KindTrip, domain.StatusPending, 2, amount("1000")),
		record("T-2", domain.KindTrip, domain.StatusInTransit, 30, amount("2500.50")),
		record("T-3", domain.KindTrip, domain.StatusCompleted, 24*10, amount("100")),
		record("B-1", domain.KindBooking, domain.StatusConfirmed, 5, nil),
		record("E-1", domain.KindEarning, domain.StatusCancelled, 1, amount("50")),
	})
	require.NoError(t, err)
}

func TestImportRecords(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()

	result, err := c.RecordService.ImportRecords(ctx, []domain.Record{
		record("T-1", domain.KindTrip, domain.StatusPending, 2, amount("1000")),
		record("B-1", domain.KindBooking, domain.StatusBooked, 3, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, []string{"T-1", "B-1"}, result.CreatedRefs)

	changed := record("T-1", domain.KindTrip, domain.StatusCompleted, 2, amount("9"))
	result, err = c.RecordService.ImportRecords(ctx, []domain.Record{
		changed,
		record("E-1", domain.KindEarning, domain.StatusPending, 1, amount("10")),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"T-1"}, result.SkippedRefs)

	stored, err := c.RecordService.FindRecord(ctx, "T-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status, "existing record must not be overwritten")
	assert.True(t, stored.CreatedAt.Equal(fixedNow))
}

func TestImportRecords_InvalidStoresNothing(t *testing.T) {
	c, repo := setupServices(t)
	ctx := context.Background()

	bad := record("E-9", domain.KindEarning, domain.StatusInTransit, 1, nil)
	_, err := c.RecordService.ImportRecords(ctx, []domain.Record{
		record("T-1", domain.KindTrip, domain.StatusPending, 2, nil),
		bad,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "records[1]")

	rows, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFindRecord(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	byRef, err := c.RecordService.FindRecord(ctx, "B-1")
	require.NoError(t, err)
	assert.Equal(t, domain.KindBooking, byRef.Kind)
	assert.Nil(t, byRef.Amount)

	byID, err := c.RecordService.FindRecord(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "T-1", byID.Reference)
	require.NotNil(t, byID.Amount)
	assert.True(t, byID.Amount.Equal(decimal.NewFromInt(1000)))

	_, err = c.RecordService.FindRecord(ctx, "missing")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = c.RecordService.FindRecord(ctx, "  ")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestFindRecord_NumericReference(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()

	_, err := c.RecordService.ImportRecords(ctx, []domain.Record{
		record("778812", domain.KindTrip, domain.StatusPending, 1, nil),
	})
	require.NoError(t, err)

	got, err := c.RecordService.FindRecord(ctx, "778812")
	require.NoError(t, err)
	assert.Equal(t, "778812", got.Reference)
}

func TestListRecords(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	all, err := c.RecordService.ListRecords(ctx, domain.NewFilterSpec())
	require.NoError(t, err)
	refs := make([]string, len(all))
	for i, r := range all {
		refs[i] = r.Reference
	}
	assert.Equal(t, []string{"E-1", "T-1", "B-1", "T-2", "T-3"}, refs)

	spec := domain.NewFilterSpec()
	spec.Kind = domain.KindTrip
	spec.DateRange = domain.RangeWeek
	trips, err := c.RecordService.ListRecords(ctx, spec)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "T-1", trips[0].Reference)
	assert.Equal(t, "T-2", trips[1].Reference)

	spec = domain.NewFilterSpec()
	spec.Status = domain.StatusConfirmed
	spec.SearchTerm = "pune"
	confirmed, err := c.RecordService.ListRecords(ctx, spec)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "B-1", confirmed[0].Reference)

	spec = domain.NewFilterSpec()
	spec.Where = `has_amount && amount >= 1000`
	big, err := c.RecordService.ListRecords(ctx, spec)
	require.NoError(t, err)
	assert.Len(t, big, 2)
}

func TestListRecords_InvalidWhere(t *testing.T) {
	c, _ := setupServices(t)
	spec := domain.NewFilterSpec()
	spec.Where = "amount >"

	_, err := c.RecordService.ListRecords(context.Background(), spec)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestApplyAction(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	result, err := c.TransitionService.ApplyAction(ctx, "T-1", domain.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, result.Record.Status)
	assert.True(t, result.Record.UpdatedAt.Equal(fixedNow))
	assert.Equal(t, domain.StatusPending, result.Change.FromStatus)
	assert.Equal(t, domain.StatusAccepted, result.Change.ToStatus)
	assert.Greater(t, result.Change.ID, int64(0))

	stored, err := c.RecordService.FindRecord(ctx, "T-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, stored.Status)

	history, err := c.TransitionService.History(ctx, stored.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ActionAccept, history[0].Action)
}

func TestApplyAction_Rejected(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	_, err := c.TransitionService.ApplyAction(ctx, "T-2", domain.ActionCancel)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransition(err))
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)

	stored, err := c.RecordService.FindRecord(ctx, "T-2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, stored.Status)

	history, err := c.TransitionService.History(ctx, stored.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = c.TransitionService.ApplyAction(ctx, "E-1", domain.ActionComplete)
	assert.True(t, errors.IsInvalidTransition(err), "cancelled is terminal")

	_, err = c.TransitionService.ApplyAction(ctx, "nope", domain.ActionAccept)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestSummarize(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	summary, err := c.ReportingService.Summarize(ctx, domain.NewFilterSpec())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Active)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.Cancelled)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("3650.50")), summary.TotalAmount.String())

	spec := domain.NewFilterSpec()
	spec.Kind = domain.KindEarning
	spec.Status = domain.StatusPending
	empty, err := c.ReportingService.Summarize(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.True(t, empty.TotalAmount.IsZero())
}

func TestSummaryByKindAndHistogram(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	breakdown, err := c.ReportingService.SummaryByKind(ctx, domain.NewFilterSpec())
	require.NoError(t, err)
	assert.Equal(t, 5, breakdown.Overall.Total)
	require.Len(t, breakdown.ByKind, 3)
	assert.Equal(t, domain.KindTrip, breakdown.ByKind[0].Kind)
	assert.Equal(t, 3, breakdown.ByKind[0].Summary.Total)
	assert.Equal(t, 1, breakdown.ByKind[1].Summary.Total)
	assert.Equal(t, 1, breakdown.ByKind[2].Summary.Total)

	histogram, err := c.ReportingService.StatusHistogram(ctx, domain.NewFilterSpec())
	require.NoError(t, err)
	assert.Len(t, histogram, 5)
	for _, bucket := range histogram {
		assert.Equal(t, 1, bucket.Count)
	}
}

func TestGetRecordDetail(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	_, err := c.TransitionService.ApplyAction(ctx, "B-1", domain.ActionAssign)
	require.NoError(t, err)

	detail, err := c.ReportingService.GetRecordDetail(ctx, "B-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, detail.Record.Status)
	require.Len(t, detail.History, 1)
	assert.Equal(t, domain.StatusConfirmed, detail.History[0].FromStatus)
	assert.Equal(t, []domain.Action{domain.ActionStart, domain.ActionCancel}, detail.AvailableActions)
}

func TestExport_CSV(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	spec := domain.NewFilterSpec()
	spec.Kind = domain.KindBooking

	var buf bytes.Buffer
	n, err := c.ExportService.Export(ctx, &buf, spec, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "B-1", rows[1][1])
	assert.Equal(t, "confirmed", rows[1][3])
	assert.Equal(t, "", rows[1][9])
}

func TestExport_JSON(t *testing.T) {
	c, _ := setupServices(t)
	ctx := context.Background()
	seed(t, c)

	var buf bytes.Buffer
	n, err := c.ExportService.Export(ctx, &buf, domain.NewFilterSpec(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 5)
	assert.Equal(t, "E-1", decoded[0]["reference"])
	assert.Equal(t, "50", decoded[0]["amount"])

	for _, r := range decoded {
		if r["reference"] == "B-1" {
			assert.Nil(t, r["amount"])
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	c, _ := setupServices(t)

	_, err := c.ExportService.Export(context.Background(), &bytes.Buffer{}, domain.NewFilterSpec(), "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))

	f, err := ParseExportFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
}
