package validation

import (
	"strconv"
	"strings"

	"haulboard/internal/domain"
)

// RecordValidator validates records before they are stored
type RecordValidator struct {
	validator *Validator
}

// NewRecordValidator creates a new record validator
func NewRecordValidator(v *Validator) *RecordValidator {
	if v == nil {
		v = NewValidator()
	}
	return &RecordValidator{validator: v}
}

// ValidateRecord checks every field of a record about to be created
func (rv *RecordValidator) ValidateRecord(r domain.Record) error {
	ve := NewValidationError()
	v := rv.validator

	if !v.IsNonEmptyString(r.Reference) {
		ve.AddRequiredError("reference")
	} else {
		if !v.IsValidReference(r.Reference) {
			ve.AddInvalidFormatError("reference", r.Reference, "letters, digits and . _ : / -")
		}
		if !v.IsWithinLength(r.Reference, v.ReferenceMaxLength()) {
			ve.AddInvalidLengthError("reference", r.Reference, v.ReferenceMaxLength())
		}
	}

	switch {
	case r.Kind == "":
		ve.AddRequiredError("kind")
	case !r.Kind.IsValid():
		ve.AddInvalidValueError("kind", r.Kind, "must be trip, booking or earning")
	case r.Status == "":
		ve.AddRequiredError("status")
	case !r.Kind.Allows(r.Status):
		ve.AddInvalidValueError("status", r.Status, statusReason(r.Kind))
	}

	if !v.IsNonEmptyString(r.Title) {
		ve.AddRequiredError("title")
	} else if !v.IsWithinLength(r.Title, v.TitleMaxLength()) {
		ve.AddInvalidLengthError("title", r.Title, v.TitleMaxLength())
	}

	if r.Timestamp.IsZero() {
		ve.AddRequiredError("timestamp")
	} else if !v.IsReasonableDate(r.Timestamp) {
		ve.AddInvalidRangeError("timestamp", r.Timestamp, "must be within the last ten years and the next year")
	}

	if !v.IsNonNegativeAmount(r.Amount) {
		ve.AddInvalidValueError("amount", r.Amount.String(), "must not be negative")
	}

	return ve.OrNil()
}

func statusReason(k domain.Kind) string {
	names := make([]string, 0, len(k.Statuses()))
	for _, s := range k.Statuses() {
		names = append(names, string(s))
	}
	return string(k) + " status must be one of " + strings.Join(names, ", ")
}

// Identifier is a parsed record lookup key: either a row ID or a reference.
type Identifier struct {
	ID        int64
	Reference string
}

// IsID reports whether the identifier is a numeric row ID
func (i Identifier) IsID() bool {
	return i.ID > 0
}

func (i Identifier) String() string {
	if i.IsID() {
		return strconv.FormatInt(i.ID, 10)
	}
	return i.Reference
}

// ParseIdentifier accepts a positive integer ID or a reference.
func (rv *RecordValidator) ParseIdentifier(s string) (Identifier, error) {
	ve := NewValidationError()
	s = strings.TrimSpace(s)

	if s == "" {
		ve.AddRequiredError("record")
		return Identifier{}, ve
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if !rv.validator.IsValidRecordID(id) {
			ve.AddInvalidValueError("record", id, "ID must be a positive integer")
			return Identifier{}, ve
		}
		return Identifier{ID: id}, nil
	}
	if !rv.validator.IsValidReference(s) {
		ve.AddInvalidFormatError("record", s, "a numeric ID or a reference")
		return Identifier{}, ve
	}
	return Identifier{Reference: s}, nil
}
