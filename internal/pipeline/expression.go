package pipeline

import (
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
)

// WherePredicate is a compiled boolean expression over a record.
type WherePredicate struct {
	source  string
	program *vm.Program
}

// CompileWhere compiles source. An empty source yields a nil predicate and
// no error. Unknown identifiers evaluate to nil rather than failing.
func CompileWhere(source string) (*WherePredicate, error) {
	if source == "" {
		return nil, nil
	}
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, errors.NewValidationError("invalid where expression: "+err.Error(), err).
			WithContext("expression", source)
	}
	return &WherePredicate{source: source, program: program}, nil
}

// String returns the expression source.
func (w *WherePredicate) String() string {
	return w.source
}

// Match evaluates the predicate. Evaluation errors and non-boolean results
// count as no match.
func (w *WherePredicate) Match(r domain.Record, now time.Time) bool {
	out, err := expr.Run(w.program, recordEnv(r, now))
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

func recordEnv(r domain.Record, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"kind":         string(r.Kind),
		"status":       string(r.Status),
		"title":        r.Title,
		"counterparty": r.Counterparty,
		"origin":       r.Origin,
		"destination":  r.Destination,
		"reference":    r.Reference,
		"amount":       r.AmountOrZero().InexactFloat64(),
		"has_amount":   r.HasAmount(),
		"age_days":     AgeInDays(r.Timestamp, now),
	}
}
