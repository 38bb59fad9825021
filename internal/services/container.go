package services

import (
	"haulboard/internal/pipeline"
	"haulboard/internal/repository/sqlite"
	"haulboard/internal/validation"
)

// NewServiceContainer wires every service over one repository and pipeline.
// A nil validator uses default limits.
func NewServiceContainer(repo sqlite.Repository, p *pipeline.Pipeline, v *validation.Validator) *ServiceContainer {
	if v == nil {
		v = validation.NewValidator()
	}
	records := NewRecordService(repo, p, v)
	return &ServiceContainer{
		RecordService:     records,
		TransitionService: NewTransitionService(repo, records, p),
		ReportingService:  NewReportingService(repo, records, p),
		ExportService:     NewExportService(records),
	}
}
