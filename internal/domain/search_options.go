package domain

// SearchOptions narrows which records are loaded from storage. The empty
// value loads every record.
type SearchOptions struct {
	Kind   Kind
	Status Status
}
