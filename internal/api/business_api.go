package api

import (
	"context"
	stderrors "errors"
	"io"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
	"haulboard/internal/importer"
	"haulboard/internal/pipeline"
	"haulboard/internal/services"
	"haulboard/internal/validation"
)

// DefaultRecentLimit is how many records a dashboard lists
const DefaultRecentLimit = 5

// Dashboard is everything the overview screen shows for one filter
type Dashboard struct {
	Spec      domain.FilterSpec
	Summary   domain.Summary
	Histogram []pipeline.StatusCount
	Recent    []domain.Record // newest first, at most DefaultRecentLimit
	Matched   int
}

// BusinessAPI defines the workflows the command line drives
type BusinessAPI interface {
	// ========== Record Workflows ==========

	// ImportFile parses a YAML or JSON document and stores its records
	ImportFile(ctx context.Context, path string) (*services.ImportResult, error)

	// Import parses a document from r and stores its records
	Import(ctx context.Context, r io.Reader) (*services.ImportResult, error)

	// ApplyAction runs a lifecycle action such as "accept" or "cancel" on a record
	ApplyAction(ctx context.Context, identifier string, action string) (*services.TransitionResult, error)

	// ========== Query Operations ==========

	// ParseFilter validates raw filter input
	ParseFilter(in validation.FilterInput) (domain.FilterSpec, error)

	// ListRecords returns records matching spec, newest first
	ListRecords(ctx context.Context, spec domain.FilterSpec) ([]domain.Record, error)

	// GetRecordDetail returns a record with its history and next actions
	GetRecordDetail(ctx context.Context, identifier string) (*services.RecordDetail, error)

	// ========== Reporting ==========

	GetSummary(ctx context.Context, spec domain.FilterSpec) (*domain.Summary, error)
	GetBreakdown(ctx context.Context, spec domain.FilterSpec) (*pipeline.Breakdown, error)
	GetStatusHistogram(ctx context.Context, spec domain.FilterSpec) ([]pipeline.StatusCount, error)

	// GetDashboard returns the summary, histogram and most recent records for spec
	GetDashboard(ctx context.Context, spec domain.FilterSpec) (*Dashboard, error)

	// Export writes records matching spec as csv or json and returns the count
	Export(ctx context.Context, w io.Writer, spec domain.FilterSpec, format string) (int, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services        *services.ServiceContainer
	parser          *importer.Parser
	filterValidator *validation.FilterValidator
}

// NewBusinessAPI creates a new BusinessAPI instance. A nil validator uses
// default limits.
func NewBusinessAPI(container *services.ServiceContainer, v *validation.Validator) BusinessAPI {
	if v == nil {
		v = validation.NewValidator()
	}
	return &businessAPIImpl{
		services:        container,
		parser:          importer.NewParser(validation.NewRecordValidator(v)),
		filterValidator: validation.NewFilterValidator(v),
	}
}

// ========== Record Workflows ==========

func (b *businessAPIImpl) ImportFile(ctx context.Context, path string) (*services.ImportResult, error) {
	records, err := b.parser.ParseFile(path)
	if err != nil {
		return nil, importError(path, err)
	}
	return b.services.RecordService.ImportRecords(ctx, records)
}

func (b *businessAPIImpl) Import(ctx context.Context, r io.Reader) (*services.ImportResult, error) {
	records, err := b.parser.Parse(r)
	if err != nil {
		return nil, importError("-", err)
	}
	return b.services.RecordService.ImportRecords(ctx, records)
}

// importError keeps record problems as validation errors and reports
// unreadable or malformed documents as invalid input.
func importError(source string, err error) error {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return errors.NewValidationError(ve.GetUserFriendlyMessage(), ve).WithContext("source", source)
	}
	return errors.WrapError(err, errors.ErrorTypeInvalidInput, "cannot read import document "+source)
}

func (b *businessAPIImpl) ApplyAction(ctx context.Context, identifier string, action string) (*services.TransitionResult, error) {
	// 1. Validate the action name before touching storage
	a, err := domain.ParseAction(action)
	if err != nil {
		return nil, errors.NewInvalidInputError("action", action, err.Error())
	}

	// 2. Guarded status change plus audit row
	return b.services.TransitionService.ApplyAction(ctx, identifier, a)
}

// ========== Query Operations ==========

func (b *businessAPIImpl) ParseFilter(in validation.FilterInput) (domain.FilterSpec, error) {
	spec, err := b.filterValidator.ParseFilter(in)
	if err != nil {
		var ve *validation.ValidationError
		if stderrors.As(err, &ve) {
			return domain.FilterSpec{}, errors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
		}
		return domain.FilterSpec{}, err
	}
	return spec, nil
}

func (b *businessAPIImpl) ListRecords(ctx context.Context, spec domain.FilterSpec) ([]domain.Record, error) {
	return b.services.RecordService.ListRecords(ctx, spec)
}

func (b *businessAPIImpl) GetRecordDetail(ctx context.Context, identifier string) (*services.RecordDetail, error) {
	return b.services.ReportingService.GetRecordDetail(ctx, identifier)
}

// ========== Reporting ==========

func (b *businessAPIImpl) GetSummary(ctx context.Context, spec domain.FilterSpec) (*domain.Summary, error) {
	return b.services.ReportingService.Summarize(ctx, spec)
}

func (b *businessAPIImpl) GetBreakdown(ctx context.Context, spec domain.FilterSpec) (*pipeline.Breakdown, error) {
	return b.services.ReportingService.SummaryByKind(ctx, spec)
}

func (b *businessAPIImpl) GetStatusHistogram(ctx context.Context, spec domain.FilterSpec) ([]pipeline.StatusCount, error) {
	return b.services.ReportingService.StatusHistogram(ctx, spec)
}

func (b *businessAPIImpl) GetDashboard(ctx context.Context, spec domain.FilterSpec) (*Dashboard, error) {
	summary, err := b.services.ReportingService.Summarize(ctx, spec)
	if err != nil {
		return nil, err
	}
	histogram, err := b.services.ReportingService.StatusHistogram(ctx, spec)
	if err != nil {
		return nil, err
	}
	records, err := b.services.RecordService.ListRecords(ctx, spec)
	if err != nil {
		return nil, err
	}

	recent := records
	if len(recent) > DefaultRecentLimit {
		recent = recent[:DefaultRecentLimit]
	}

	return &Dashboard{
		Spec:      spec,
		Summary:   *summary,
		Histogram: histogram,
		Recent:    recent,
		Matched:   len(records),
	}, nil
}

func (b *businessAPIImpl) Export(ctx context.Context, w io.Writer, spec domain.FilterSpec, format string) (int, error) {
	f, err := services.ParseExportFormat(format)
	if err != nil {
		return 0, err
	}
	return b.services.ExportService.Export(ctx, w, spec, f)
}
