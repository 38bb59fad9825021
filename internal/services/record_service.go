package services

import (
	"context"
	"fmt"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
	"haulboard/internal/logging"
	"haulboard/internal/pipeline"
	"haulboard/internal/repository/sqlite"
	"haulboard/internal/validation"
)

// recordServiceImpl implements the RecordService interface
type recordServiceImpl struct {
	repo            sqlite.Repository
	pipeline        *pipeline.Pipeline
	mapper          *domain.Mapper
	recordValidator *validation.RecordValidator
}

// NewRecordService creates a new RecordService instance
func NewRecordService(repo sqlite.Repository, p *pipeline.Pipeline, v *validation.Validator) RecordService {
	return &recordServiceImpl{
		repo:            repo,
		pipeline:        p,
		mapper:          domain.NewMapper(),
		recordValidator: validation.NewRecordValidator(v),
	}
}

// ImportRecords validates every record first and stores nothing if any is
// invalid. References that already exist are skipped, never overwritten.
func (s *recordServiceImpl) ImportRecords(ctx context.Context, records []domain.Record) (*ImportResult, error) {
	problems := validation.NewValidationError()
	for i, r := range records {
		problems.Merge(fmt.Sprintf("records[%d]", i), s.recordValidator.ValidateRecord(r))
	}
	if problems.HasErrors() {
		return nil, errors.NewValidationError(problems.GetUserFriendlyMessage(), problems)
	}

	result := &ImportResult{CreatedRefs: []string{}, SkippedRefs: []string{}}
	now := s.pipeline.Now()
	for _, r := range records {
		_, err := s.repo.GetRecordByReference(ctx, r.Reference)
		if err == nil {
			result.Skipped++
			result.SkippedRefs = append(result.SkippedRefs, r.Reference)
			continue
		}
		if !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, err
		}

		r.CreatedAt = now
		r.UpdatedAt = now
		row := s.mapper.Record.ToDatabase(r)
		if err := s.repo.CreateRecord(ctx, &row); err != nil {
			return nil, err
		}
		result.Created++
		result.CreatedRefs = append(result.CreatedRefs, r.Reference)
	}

	logging.Debugf("import stored %d records, skipped %d", result.Created, result.Skipped)
	return result, nil
}

// FindRecord resolves a numeric ID, then a reference
func (s *recordServiceImpl) FindRecord(ctx context.Context, identifier string) (*domain.Record, error) {
	id, err := s.recordValidator.ParseIdentifier(identifier)
	if err != nil {
		return nil, errors.NewValidationError("invalid record identifier", err)
	}

	var row *sqlite.Record
	if id.IsID() {
		row, err = s.repo.GetRecord(ctx, id.ID)
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			row, err = s.repo.GetRecordByReference(ctx, id.String())
		}
	} else {
		row, err = s.repo.GetRecordByReference(ctx, id.Reference)
	}
	if err != nil {
		return nil, err
	}

	record := s.mapper.Record.FromDatabase(*row)
	return &record, nil
}

// ListRecords prefilters by kind and status in SQL and applies the full
// spec in the pipeline.
func (s *recordServiceImpl) ListRecords(ctx context.Context, spec domain.FilterSpec) ([]domain.Record, error) {
	opts := s.mapper.SearchOptions.ToDatabase(domain.SearchOptions{Kind: spec.Kind, Status: spec.Status})
	rows, err := s.repo.SearchRecords(ctx, opts)
	if err != nil {
		return nil, err
	}

	return s.pipeline.Filter(s.mapper.Record.FromDatabaseSlice(rows), spec)
}
