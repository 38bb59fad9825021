package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a timestamped marketplace entity: a trip, a booking or an
// earning line item.
type Record struct {
	ID           int64
	Reference    string
	Kind         Kind
	Status       Status
	Title        string
	Counterparty string
	Origin       string
	Destination  string
	Timestamp    time.Time
	Amount       *decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SearchableText returns the non-empty fields eligible for text search.
func (r Record) SearchableText() []string {
	fields := []string{r.Reference, r.Title, r.Counterparty, r.Origin, r.Destination}
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// HasAmount reports whether the record carries a monetary value.
func (r Record) HasAmount() bool {
	return r.Amount != nil
}

// AmountOrZero returns the amount, or zero when absent.
func (r Record) AmountOrZero() decimal.Decimal {
	if r.Amount == nil {
		return decimal.Zero
	}
	return *r.Amount
}

// IsValid checks the fields every stored record must have.
func (r Record) IsValid() bool {
	if !r.Kind.IsValid() || !r.Kind.Allows(r.Status) {
		return false
	}
	if r.Timestamp.IsZero() || r.Title == "" {
		return false
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return false
	}
	return true
}

// Route returns "origin -> destination", or whichever side is known.
func (r Record) Route() string {
	switch {
	case r.Origin != "" && r.Destination != "":
		return r.Origin + " -> " + r.Destination
	case r.Origin != "":
		return r.Origin
	default:
		return r.Destination
	}
}

// StatusChange is one persisted transition of a record.
type StatusChange struct {
	ID         int64
	RecordID   int64
	Action     Action
	FromStatus Status
	ToStatus   Status
	ChangedAt  time.Time
}
