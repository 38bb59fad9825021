// Package pipeline filters, sorts, summarizes and transitions marketplace
// records. It holds no state beyond its options and performs no I/O.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
	"haulboard/internal/logging"
)

// DefaultActiveStatuses are the statuses counted as active by Summarize.
var DefaultActiveStatuses = []domain.Status{domain.StatusInTransit, domain.StatusConfirmed}

const day = 24 * time.Hour

// Pipeline applies filter specs and transitions to record sets.
type Pipeline struct {
	now    func() time.Time
	active map[domain.Status]bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces time.Now as the reference instant.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithActiveStatuses replaces the set of statuses Summarize counts as active.
func WithActiveStatuses(statuses ...domain.Status) Option {
	return func(p *Pipeline) {
		p.active = make(map[domain.Status]bool, len(statuses))
		for _, s := range statuses {
			p.active[s] = true
		}
	}
}

// New creates a pipeline using the wall clock and the default active set.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{now: time.Now}
	WithActiveStatuses(DefaultActiveStatuses...)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// logger is resolved per call so verbosity changes made after New apply.
func logger() *zerolog.Logger {
	l := logging.New("pipeline")
	return &l
}

// Now returns the pipeline's current instant.
func (p *Pipeline) Now() time.Time {
	return p.now()
}

// Filter returns the records matching every predicate of spec, newest first.
// Records with equal timestamps keep their input order. The result is never
// nil. The only error is an invalid Where expression.
func (p *Pipeline) Filter(records []domain.Record, spec domain.FilterSpec) ([]domain.Record, error) {
	where, err := CompileWhere(spec.Where)
	if err != nil {
		return nil, err
	}

	now := p.now()
	term := strings.ToLower(strings.TrimSpace(spec.SearchTerm))

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if !matchKind(r, spec.Kind) ||
			!matchStatus(r, spec) ||
			!matchDateRange(r, spec.DateRange, now) ||
			!matchSearch(r, term) {
			continue
		}
		if where != nil && !where.Match(r, now) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	logger().Debug().
		Int("in", len(records)).
		Int("out", len(out)).
		Str("status", string(spec.Status)).
		Str("range", string(spec.DateRange)).
		Msg("filtered records")

	return out, nil
}

func matchKind(r domain.Record, kind domain.Kind) bool {
	return kind == "" || r.Kind == kind
}

func matchStatus(r domain.Record, spec domain.FilterSpec) bool {
	if spec.MatchesAllStatuses() {
		return true
	}
	return r.Status.IsValid() && r.Status == spec.Status
}

func matchDateRange(r domain.Record, dr domain.DateRange, now time.Time) bool {
	threshold, limited := dr.ThresholdDays()
	if !limited {
		return true
	}
	if r.Timestamp.IsZero() {
		return false
	}
	return AgeInDays(r.Timestamp, now) <= int64(threshold)
}

func matchSearch(r domain.Record, term string) bool {
	if term == "" {
		return true
	}
	text := strings.ToLower(strings.Join(r.SearchableText(), " "))
	return strings.Contains(text, term)
}

// AgeInDays returns the distance between ts and now in whole days, rounded
// up. Timestamps in the future count the same as the past.
func AgeInDays(ts, now time.Time) int64 {
	d := now.Sub(ts)
	if d < 0 {
		d = -d
	}
	days := int64(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

// Summarize aggregates counts and the total of present amounts.
func (p *Pipeline) Summarize(records []domain.Record) domain.Summary {
	summary := domain.Summary{TotalAmount: decimal.Zero}
	for _, r := range records {
		summary.Total++
		if p.active[r.Status] {
			summary.Active++
		}
		switch r.Status {
		case domain.StatusCompleted:
			summary.Completed++
		case domain.StatusCancelled:
			summary.Cancelled++
		}
		if r.Amount != nil {
			summary.TotalAmount = summary.TotalAmount.Add(*r.Amount)
		}
	}
	return summary
}

// KindSummary is the summary of one kind's records.
type KindSummary struct {
	Kind    domain.Kind    `json:"kind"`
	Summary domain.Summary `json:"summary"`
}

// Breakdown is an overall summary with one row per kind.
type Breakdown struct {
	Overall domain.Summary `json:"overall"`
	ByKind  []KindSummary  `json:"by_kind"`
}

// SummaryByKind summarizes records overall and per kind, in domain.Kinds
// order. Kinds with no records are included with zero counts.
func (p *Pipeline) SummaryByKind(records []domain.Record) Breakdown {
	grouped := make(map[domain.Kind][]domain.Record, len(domain.Kinds))
	for _, r := range records {
		grouped[r.Kind] = append(grouped[r.Kind], r)
	}

	b := Breakdown{Overall: p.Summarize(records)}
	for _, k := range domain.Kinds {
		b.ByKind = append(b.ByKind, KindSummary{Kind: k, Summary: p.Summarize(grouped[k])})
	}
	return b
}

// StatusCount is one bucket of a status histogram.
type StatusCount struct {
	Status domain.Status `json:"status"`
	Count  int           `json:"count"`
}

// StatusHistogram counts records per status, most frequent first. Ties are
// ordered by status name.
func (p *Pipeline) StatusHistogram(records []domain.Record) []StatusCount {
	counts := make(map[domain.Status]int)
	for _, r := range records {
		counts[r.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusCount{Status: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// Transition applies action to record and returns the updated copy. The
// input record is never modified. An unknown action, a source status the
// action does not accept, or a target status outside the record's kind
// yields an invalid transition error.
func (p *Pipeline) Transition(record domain.Record, action domain.Action) (domain.Record, error) {
	if !action.CanApply(record.Kind, record.Status) {
		return record, errors.NewInvalidTransitionError(string(action), string(record.Status), string(record.Kind))
	}

	to, _ := action.Target()
	next := record
	next.Status = to
	next.UpdatedAt = p.now()

	logger().Debug().
		Str("reference", record.Reference).
		Str("action", string(action)).
		Str("from", string(record.Status)).
		Str("to", string(to)).
		Msg("transition applied")

	return next, nil
}
