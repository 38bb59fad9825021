package services

import (
	"context"

	"haulboard/internal/domain"
	"haulboard/internal/logging"
	"haulboard/internal/pipeline"
	"haulboard/internal/repository/sqlite"
)

// transitionServiceImpl implements the TransitionService interface
type transitionServiceImpl struct {
	repo     sqlite.Repository
	records  RecordService
	pipeline *pipeline.Pipeline
	mapper   *domain.Mapper
}

// NewTransitionService creates a new TransitionService instance
func NewTransitionService(repo sqlite.Repository, records RecordService, p *pipeline.Pipeline) TransitionService {
	return &transitionServiceImpl{
		repo:     repo,
		records:  records,
		pipeline: p,
		mapper:   domain.NewMapper(),
	}
}

// ApplyAction checks the action against the record's current status, then
// persists the new status and its audit row together. A rejected action
// leaves the record untouched.
func (s *transitionServiceImpl) ApplyAction(ctx context.Context, identifier string, action domain.Action) (*TransitionResult, error) {
	record, err := s.records.FindRecord(ctx, identifier)
	if err != nil {
		return nil, err
	}

	next, err := s.pipeline.Transition(*record, action)
	if err != nil {
		return nil, err
	}

	change := domain.StatusChange{
		RecordID:   record.ID,
		Action:     action,
		FromStatus: record.Status,
		ToStatus:   next.Status,
		ChangedAt:  next.UpdatedAt,
	}
	row := s.mapper.StatusChange.ToDatabase(change)
	if err := s.repo.TransitionRecord(ctx, &row); err != nil {
		return nil, err
	}
	change.ID = row.ID

	log := logging.New("transitions")
	log.Debug().
		Int64("record_id", record.ID).
		Str("reference", record.Reference).
		Str("action", string(action)).
		Str("from", string(change.FromStatus)).
		Str("to", string(change.ToStatus)).
		Msg("status changed")

	return &TransitionResult{Record: next, Change: change}, nil
}

// History returns the audit trail of a record, oldest first
func (s *transitionServiceImpl) History(ctx context.Context, recordID int64) ([]domain.StatusChange, error) {
	rows, err := s.repo.ListStatusChanges(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return s.mapper.StatusChange.FromDatabaseSlice(rows), nil
}
