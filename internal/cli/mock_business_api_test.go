package cli

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"haulboard/internal/api"
	"haulboard/internal/domain"
	"haulboard/internal/errors"
	"haulboard/internal/importer"
	"haulboard/internal/pipeline"
	"haulboard/internal/services"
	"haulboard/internal/validation"
)

var mockNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// mockBusinessAPI implements the BusinessAPI interface in memory for testing
type mockBusinessAPI struct {
	records  []domain.Record
	history  map[int64][]domain.StatusChange
	pipeline *pipeline.Pipeline
	filters  *validation.FilterValidator
	parser   *importer.Parser
	err      error // returned by every call when set
}

// newMockBusinessAPI creates a mock seeded with one record of each kind
func newMockBusinessAPI() *mockBusinessAPI {
	m := &mockBusinessAPI{
		history:  make(map[int64][]domain.StatusChange),
		pipeline: pipeline.New(pipeline.WithClock(func() time.Time { return mockNow })),
		filters:  validation.NewFilterValidator(nil),
		parser:   importer.NewParser(nil),
	}
	amount := decimal.RequireFromString("18500")
	payout := decimal.RequireFromString("4200.50")
	m.add(domain.Record{Reference: "T-1", Kind: domain.KindTrip, Status: domain.StatusPending,
		Title: "Steel coils", Origin: "Mumbai", Destination: "Pune",
		Timestamp: mockNow.Add(-2 * time.Hour), Amount: &amount})
	m.add(domain.Record{Reference: "B-1", Kind: domain.KindBooking, Status: domain.StatusConfirmed,
		Title: "Cold chain slot", Counterparty: "Fresh Farms",
		Timestamp: mockNow.Add(-50 * time.Hour)})
	m.add(domain.Record{Reference: "E-1", Kind: domain.KindEarning, Status: domain.StatusCompleted,
		Title: "Weekly payout", Timestamp: mockNow.Add(-20 * 24 * time.Hour), Amount: &payout})
	return m
}

var _ api.BusinessAPI = (*mockBusinessAPI)(nil)

func (m *mockBusinessAPI) add(r domain.Record) {
	r.ID = int64(len(m.records) + 1)
	r.CreatedAt = mockNow
	r.UpdatedAt = mockNow
	m.records = append(m.records, r)
}

func (m *mockBusinessAPI) find(identifier string) (int, error) {
	for i, r := range m.records {
		if r.Reference == identifier || strconv.FormatInt(r.ID, 10) == identifier {
			return i, nil
		}
	}
	return -1, errors.NewNotFoundError("record", identifier)
}

func (m *mockBusinessAPI) ImportFile(ctx context.Context, path string) (*services.ImportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	records, err := m.parser.ParseFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeInvalidInput, "cannot read import document "+path)
	}
	return m.store(records), nil
}

func (m *mockBusinessAPI) Import(ctx context.Context, r io.Reader) (*services.ImportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	records, err := m.parser.Parse(r)
	if err != nil {
		return nil, errors.NewValidationError("invalid import document", err)
	}
	return m.store(records), nil
}

func (m *mockBusinessAPI) store(records []domain.Record) *services.ImportResult {
	result := &services.ImportResult{}
	for _, r := range records {
		if _, err := m.find(r.Reference); err == nil {
			result.Skipped++
			result.SkippedRefs = append(result.SkippedRefs, r.Reference)
			continue
		}
		m.add(r)
		result.Created++
		result.CreatedRefs = append(result.CreatedRefs, r.Reference)
	}
	return result
}

func (m *mockBusinessAPI) ApplyAction(ctx context.Context, identifier string, action string) (*services.TransitionResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, err := domain.ParseAction(action)
	if err != nil {
		return nil, errors.NewInvalidInputError("action", action, err.Error())
	}
	i, err := m.find(identifier)
	if err != nil {
		return nil, err
	}

	current := m.records[i]
	next, err := m.pipeline.Transition(current, a)
	if err != nil {
		return nil, err
	}
	change := domain.StatusChange{
		ID: int64(len(m.history[current.ID]) + 1), RecordID: current.ID, Action: a,
		FromStatus: current.Status, ToStatus: next.Status, ChangedAt: next.UpdatedAt,
	}
	m.records[i] = next
	m.history[current.ID] = append(m.history[current.ID], change)
	return &services.TransitionResult{Record: next, Change: change}, nil
}

func (m *mockBusinessAPI) ParseFilter(in validation.FilterInput) (domain.FilterSpec, error) {
	spec, err := m.filters.ParseFilter(in)
	if err != nil {
		return domain.FilterSpec{}, errors.NewValidationError(err.(*validation.ValidationError).GetUserFriendlyMessage(), err)
	}
	return spec, nil
}

func (m *mockBusinessAPI) ListRecords(ctx context.Context, spec domain.FilterSpec) ([]domain.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pipeline.Filter(m.records, spec)
}

func (m *mockBusinessAPI) GetRecordDetail(ctx context.Context, identifier string) (*services.RecordDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	i, err := m.find(identifier)
	if err != nil {
		return nil, err
	}
	r := m.records[i]
	return &services.RecordDetail{
		Record:           r,
		History:          m.history[r.ID],
		AvailableActions: domain.AvailableActions(r.Kind, r.Status),
	}, nil
}

func (m *mockBusinessAPI) GetSummary(ctx context.Context, spec domain.FilterSpec) (*domain.Summary, error) {
	records, err := m.ListRecords(ctx, spec)
	if err != nil {
		return nil, err
	}
	s := m.pipeline.Summarize(records)
	return &s, nil
}

func (m *mockBusinessAPI) GetBreakdown(ctx context.Context, spec domain.FilterSpec) (*pipeline.Breakdown, error) {
	records, err := m.ListRecords(ctx, spec)
	if err != nil {
		return nil, err
	}
	b := m.pipeline.SummaryByKind(records)
	return &b, nil
}

func (m *mockBusinessAPI) GetStatusHistogram(ctx context.Context, spec domain.FilterSpec) ([]pipeline.StatusCount, error) {
	records, err := m.ListRecords(ctx, spec)
	if err != nil {
		return nil, err
	}
	return m.pipeline.StatusHistogram(records), nil
}

func (m *mockBusinessAPI) GetDashboard(ctx context.Context, spec domain.FilterSpec) (*api.Dashboard, error) {
	records, err := m.ListRecords(ctx, spec)
	if err != nil {
		return nil, err
	}
	return &api.Dashboard{
		Spec:      spec,
		Summary:   m.pipeline.Summarize(records),
		Histogram: m.pipeline.StatusHistogram(records),
		Recent:    records,
		Matched:   len(records),
	}, nil
}

func (m *mockBusinessAPI) Export(ctx context.Context, w io.Writer, spec domain.FilterSpec, format string) (int, error) {
	if format != "csv" && format != "json" {
		return 0, errors.NewInvalidInputError("format", format, "supported formats are csv and json")
	}
	records, err := m.ListRecords(ctx, spec)
	if err != nil {
		return 0, err
	}
	refs := make([]string, len(records))
	for i, r := range records {
		refs[i] = r.Reference
	}
	if format == "json" {
		return len(records), json.NewEncoder(w).Encode(refs)
	}
	for _, ref := range refs {
		io.WriteString(w, ref+"\n")
	}
	return len(records), nil
}
