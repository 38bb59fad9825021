package validation

import (
	"haulboard/internal/domain"
	"haulboard/internal/pipeline"
)

// FilterInput is the raw, user-supplied filter as read from flags.
type FilterInput struct {
	Kind   string
	Status string
	Range  string
	Search string
	Where  string
}

// FilterValidator turns FilterInput into a domain.FilterSpec
type FilterValidator struct {
	validator *Validator
}

// NewFilterValidator creates a new filter validator
func NewFilterValidator(v *Validator) *FilterValidator {
	if v == nil {
		v = NewValidator()
	}
	return &FilterValidator{validator: v}
}

// ParseFilter validates every field and collects all problems at once.
// A status that the selected kind can never hold is rejected.
func (fv *FilterValidator) ParseFilter(in FilterInput) (domain.FilterSpec, error) {
	ve := NewValidationError()
	spec := domain.NewFilterSpec()

	if in.Kind != "" {
		kind, err := domain.ParseKind(in.Kind)
		if err != nil {
			ve.AddInvalidValueError("kind", in.Kind, err.Error())
		}
		spec.Kind = kind
	}

	status, err := domain.ParseStatus(in.Status)
	if err != nil {
		ve.AddInvalidValueError("status", in.Status, err.Error())
	} else {
		spec.Status = status
		if spec.Kind.IsValid() && status != domain.StatusAll && !spec.Kind.Allows(status) {
			ve.AddInvalidValueError("status", in.Status, statusReason(spec.Kind))
		}
	}

	dr, err := domain.ParseDateRange(in.Range)
	if err != nil {
		ve.AddInvalidValueError("range", in.Range, err.Error())
	} else {
		spec.DateRange = dr
	}

	if !fv.validator.IsWithinLength(in.Search, fv.validator.SearchMaxLength()) {
		ve.AddInvalidLengthError("search", in.Search, fv.validator.SearchMaxLength())
	}
	spec.SearchTerm = in.Search

	if _, err := pipeline.CompileWhere(in.Where); err != nil {
		ve.AddInvalidFormatError("where", in.Where, "a boolean expression such as amount > 500")
	}
	spec.Where = in.Where

	if ve.HasErrors() {
		return domain.FilterSpec{}, ve
	}
	return spec, nil
}
