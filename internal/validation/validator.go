package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"haulboard/internal/config"
)

var referencePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:/-]*$`)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
	now    func() time.Time
}

// NewValidator creates a new validator instance with default limits
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg, now: time.Now}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinLength checks the trimmed rune length of s against max
func (v *Validator) IsWithinLength(s string, max int) bool {
	return len([]rune(strings.TrimSpace(s))) <= max
}

// IsValidReference checks that a reference is a single token of letters,
// digits and . _ : / -
func (v *Validator) IsValidReference(ref string) bool {
	return referencePattern.MatchString(ref)
}

// IsValidRecordID checks if a record ID is valid (positive)
func (v *Validator) IsValidRecordID(id int64) bool {
	return id > 0
}

// IsNonNegativeAmount checks an optional amount
func (v *Validator) IsNonNegativeAmount(amount *decimal.Decimal) bool {
	return amount == nil || !amount.IsNegative()
}

// IsReasonableDate checks if a date is within ten years back and one year ahead
func (v *Validator) IsReasonableDate(t time.Time) bool {
	now := v.now()
	return t.After(now.AddDate(-10, 0, 0)) && t.Before(now.AddDate(1, 0, 0))
}

// TitleMaxLength returns configured maximum title length or default
func (v *Validator) TitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 200
}

// ReferenceMaxLength returns configured maximum reference length or default
func (v *Validator) ReferenceMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ReferenceMaxLength
	}
	return 64
}

// SearchMaxLength returns configured maximum search term length or default
func (v *Validator) SearchMaxLength() int {
	if v.config != nil {
		return v.config.Validation.SearchMaxLength
	}
	return 100
}
