package sqlite

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a row of the records table
type Record struct {
	ID           int64
	Reference    string
	Kind         string
	Status       string
	Title        string
	Counterparty string
	Origin       string
	Destination  string
	OccurredAt   time.Time
	Amount       decimal.NullDecimal // NULL when the record carries no amount
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StatusChange is a row of the status_changes audit table
type StatusChange struct {
	ID         int64
	RecordID   int64
	Action     string
	FromStatus string
	ToStatus   string
	ChangedAt  time.Time
}
