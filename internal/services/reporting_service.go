package services

import (
	"context"

	"haulboard/internal/domain"
	"haulboard/internal/pipeline"
	"haulboard/internal/repository/sqlite"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	repo     sqlite.Repository
	records  RecordService
	pipeline *pipeline.Pipeline
	mapper   *domain.Mapper
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(repo sqlite.Repository, records RecordService, p *pipeline.Pipeline) ReportingService {
	return &reportingServiceImpl{
		repo:     repo,
		records:  records,
		pipeline: p,
		mapper:   domain.NewMapper(),
	}
}

// Summarize aggregates the records matching spec
func (s *reportingServiceImpl) Summarize(ctx context.Context, spec domain.FilterSpec) (*domain.Summary, error) {
	records, err := s.records.ListRecords(ctx, spec)
	if err != nil {
		return nil, err
	}
	summary := s.pipeline.Summarize(records)
	return &summary, nil
}

// SummaryByKind aggregates the records matching spec overall and per kind
func (s *reportingServiceImpl) SummaryByKind(ctx context.Context, spec domain.FilterSpec) (*pipeline.Breakdown, error) {
	records, err := s.records.ListRecords(ctx, spec)
	if err != nil {
		return nil, err
	}
	breakdown := s.pipeline.SummaryByKind(records)
	return &breakdown, nil
}

// StatusHistogram counts the records matching spec per status
func (s *reportingServiceImpl) StatusHistogram(ctx context.Context, spec domain.FilterSpec) ([]pipeline.StatusCount, error) {
	records, err := s.records.ListRecords(ctx, spec)
	if err != nil {
		return nil, err
	}
	return s.pipeline.StatusHistogram(records), nil
}

// GetRecordDetail returns a record, its transition history and the actions
// that may be applied next
func (s *reportingServiceImpl) GetRecordDetail(ctx context.Context, identifier string) (*RecordDetail, error) {
	record, err := s.records.FindRecord(ctx, identifier)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListStatusChanges(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	return &RecordDetail{
		Record:           *record,
		History:          s.mapper.StatusChange.FromDatabaseSlice(rows),
		AvailableActions: domain.AvailableActions(record.Kind, record.Status),
	}, nil
}
