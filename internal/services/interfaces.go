package services

import (
	"context"
	"io"

	"haulboard/internal/domain"
	"haulboard/internal/pipeline"
)

// ImportResult reports what an import stored
type ImportResult struct {
	Created     int      `json:"created"`
	Skipped     int      `json:"skipped"`
	CreatedRefs []string `json:"created_refs"`
	SkippedRefs []string `json:"skipped_refs"` // already present, left untouched
}

// TransitionResult is a persisted status change and the record after it
type TransitionResult struct {
	Record domain.Record
	Change domain.StatusChange
}

// RecordDetail is a record with its audit trail and next possible actions
type RecordDetail struct {
	Record           domain.Record
	History          []domain.StatusChange
	AvailableActions []domain.Action
}

// ExportFormat selects the export encoding
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// RecordService handles storing and querying records
type RecordService interface {
	// ImportRecords validates and stores records, skipping known references
	ImportRecords(ctx context.Context, records []domain.Record) (*ImportResult, error)

	// FindRecord resolves a numeric ID or a reference. A numeric identifier
	// that matches no ID is retried as a reference.
	FindRecord(ctx context.Context, identifier string) (*domain.Record, error)

	// ListRecords returns the records matching spec, newest first
	ListRecords(ctx context.Context, spec domain.FilterSpec) ([]domain.Record, error)
}

// TransitionService applies lifecycle actions to stored records
type TransitionService interface {
	ApplyAction(ctx context.Context, identifier string, action domain.Action) (*TransitionResult, error)
	History(ctx context.Context, recordID int64) ([]domain.StatusChange, error)
}

// ReportingService handles aggregation over filtered record sets
type ReportingService interface {
	Summarize(ctx context.Context, spec domain.FilterSpec) (*domain.Summary, error)
	SummaryByKind(ctx context.Context, spec domain.FilterSpec) (*pipeline.Breakdown, error)
	StatusHistogram(ctx context.Context, spec domain.FilterSpec) ([]pipeline.StatusCount, error)
	GetRecordDetail(ctx context.Context, identifier string) (*RecordDetail, error)
}

// ExportService writes filtered record sets in a machine-readable format
type ExportService interface {
	// Export writes the records matching spec and returns how many were written
	Export(ctx context.Context, w io.Writer, spec domain.FilterSpec, format ExportFormat) (int, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	RecordService     RecordService
	TransitionService TransitionService
	ReportingService  ReportingService
	ExportService     ExportService
}
