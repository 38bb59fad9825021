package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DateRange selects records by age relative to now.
type DateRange string

const (
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeAll   DateRange = "all"
)

// ThresholdDays returns the maximum age in days for the range. The second
// result is false for RangeAll, which has no limit.
func (d DateRange) ThresholdDays() (int, bool) {
	switch d {
	case RangeToday:
		return 1, true
	case RangeWeek:
		return 7, true
	case RangeMonth:
		return 30, true
	default:
		return 0, false
	}
}

// ParseDateRange parses a range name. The empty string yields RangeAll.
func ParseDateRange(s string) (DateRange, error) {
	d := DateRange(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case "", RangeAll:
		return RangeAll, nil
	case RangeToday, RangeWeek, RangeMonth:
		return d, nil
	default:
		return "", fmt.Errorf("unknown date range %q (want today, week, month or all)", s)
	}
}

// FilterSpec is the user-controlled predicate bundle for a view.
type FilterSpec struct {
	Kind       Kind // empty means every kind
	Status     Status
	DateRange  DateRange
	SearchTerm string
	Where      string // optional boolean expression
}

// NewFilterSpec returns a spec that keeps every record.
func NewFilterSpec() FilterSpec {
	return FilterSpec{Status: StatusAll, DateRange: RangeAll}
}

// MatchesAllStatuses reports whether the status predicate is disabled.
func (f FilterSpec) MatchesAllStatuses() bool {
	return f.Status == "" || f.Status == StatusAll
}

// Summary aggregates a record set.
type Summary struct {
	Total       int             `json:"total"`
	Active      int             `json:"active"`
	Completed   int             `json:"completed"`
	Cancelled   int             `json:"cancelled"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
