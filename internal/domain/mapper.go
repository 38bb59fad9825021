package domain

import (
	"github.com/shopspring/decimal"

	"haulboard/internal/repository/sqlite"
)

// RecordMapper handles conversion between domain and database Record models.
type RecordMapper struct{}

// NewRecordMapper creates a new RecordMapper instance.
func NewRecordMapper() *RecordMapper {
	return &RecordMapper{}
}

// ToDatabase converts a domain Record to a database Record.
func (m *RecordMapper) ToDatabase(r Record) sqlite.Record {
	amount := decimal.NullDecimal{}
	if r.Amount != nil {
		amount = decimal.NewNullDecimal(*r.Amount)
	}
	return sqlite.Record{
		ID:           r.ID,
		Reference:    r.Reference,
		Kind:         string(r.Kind),
		Status:       string(r.Status),
		Title:        r.Title,
		Counterparty: r.Counterparty,
		Origin:       r.Origin,
		Destination:  r.Destination,
		OccurredAt:   r.Timestamp,
		Amount:       amount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromDatabase converts a database Record to a domain Record.
func (m *RecordMapper) FromDatabase(r sqlite.Record) Record {
	var amount *decimal.Decimal
	if r.Amount.Valid {
		d := r.Amount.Decimal
		amount = &d
	}
	return Record{
		ID:           r.ID,
		Reference:    r.Reference,
		Kind:         Kind(r.Kind),
		Status:       Status(r.Status),
		Title:        r.Title,
		Counterparty: r.Counterparty,
		Origin:       r.Origin,
		Destination:  r.Destination,
		Timestamp:    r.OccurredAt,
		Amount:       amount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromDatabaseSlice converts database rows to domain Records. The result is
// never nil.
func (m *RecordMapper) FromDatabaseSlice(rows []*sqlite.Record) []Record {
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = m.FromDatabase(*row)
	}
	return records
}

// StatusChangeMapper handles conversion between domain and database StatusChange models.
type StatusChangeMapper struct{}

// NewStatusChangeMapper creates a new StatusChangeMapper instance.
func NewStatusChangeMapper() *StatusChangeMapper {
	return &StatusChangeMapper{}
}

// ToDatabase converts a domain StatusChange to a database StatusChange.
func (m *StatusChangeMapper) ToDatabase(c StatusChange) sqlite.StatusChange {
	return sqlite.StatusChange{
		ID:         c.ID,
		RecordID:   c.RecordID,
		Action:     string(c.Action),
		FromStatus: string(c.FromStatus),
		ToStatus:   string(c.ToStatus),
		ChangedAt:  c.ChangedAt,
	}
}

// FromDatabase converts a database StatusChange to a domain StatusChange.
func (m *StatusChangeMapper) FromDatabase(c sqlite.StatusChange) StatusChange {
	return StatusChange{
		ID:         c.ID,
		RecordID:   c.RecordID,
		Action:     Action(c.Action),
		FromStatus: Status(c.FromStatus),
		ToStatus:   Status(c.ToStatus),
		ChangedAt:  c.ChangedAt,
	}
}

// FromDatabaseSlice converts database rows to domain StatusChanges.
func (m *StatusChangeMapper) FromDatabaseSlice(rows []*sqlite.StatusChange) []StatusChange {
	changes := make([]StatusChange, len(rows))
	for i, row := range rows {
		changes[i] = m.FromDatabase(*row)
	}
	return changes
}

// SearchOptionsMapper handles conversion between domain and database SearchOptions.
type SearchOptionsMapper struct{}

// NewSearchOptionsMapper creates a new SearchOptionsMapper instance.
func NewSearchOptionsMapper() *SearchOptionsMapper {
	return &SearchOptionsMapper{}
}

// ToDatabase converts domain SearchOptions to database SearchOptions.
// StatusAll and empty fields leave the column unconstrained.
func (m *SearchOptionsMapper) ToDatabase(opts SearchOptions) sqlite.SearchOptions {
	var dbOpts sqlite.SearchOptions
	if opts.Kind != "" {
		kind := string(opts.Kind)
		dbOpts.Kind = &kind
	}
	if opts.Status != "" && opts.Status != StatusAll {
		status := string(opts.Status)
		dbOpts.Status = &status
	}
	return dbOpts
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Record        *RecordMapper
	StatusChange  *StatusChangeMapper
	SearchOptions *SearchOptionsMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Record:        NewRecordMapper(),
		StatusChange:  NewStatusChangeMapper(),
		SearchOptions: NewSearchOptionsMapper(),
	}
}
