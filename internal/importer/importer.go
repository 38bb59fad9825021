// Package importer reads record documents (YAML, or JSON as a YAML subset)
// into validated domain records.
package importer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"haulboard/internal/domain"
	"haulboard/internal/logging"
	"haulboard/internal/validation"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Document is the top-level import document.
type Document struct {
	Records []RawRecord `yaml:"records"`
}

// RawRecord is one record as written in an import document.
type RawRecord struct {
	Reference    text   `yaml:"reference"`
	Kind         text   `yaml:"kind"`
	Status       text   `yaml:"status"`
	Title        text   `yaml:"title"`
	Counterparty text   `yaml:"counterparty"`
	Origin       text   `yaml:"origin"`
	Destination  text   `yaml:"destination"`
	Timestamp    text   `yaml:"timestamp"`
	Amount       amount `yaml:"amount"`
}

// text accepts any scalar, so unquoted numbers and dates read as written.
type text string

func (t *text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		*t = ""
		return nil
	}
	*t = text(strings.TrimSpace(node.Value))
	return nil
}

// amount is an optional decimal written as a number or a string.
type amount struct {
	value *decimal.Decimal
	raw   string
	err   error
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	a.raw = strings.TrimSpace(node.Value)
	if node.Tag == "!!null" || a.raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(a.raw)
	if err != nil {
		// Reported per record by Parse rather than aborting the document.
		a.err = err
		return nil
	}
	a.value = &d
	return nil
}

// Parser converts import documents into domain records.
type Parser struct {
	validator    *validation.RecordValidator
	newReference func() string
}

// NewParser creates a parser validating with v. A nil v uses default limits.
func NewParser(v *validation.RecordValidator) *Parser {
	if v == nil {
		v = validation.NewRecordValidator(nil)
	}
	return &Parser{validator: v, newReference: uuid.NewString}
}

// ParseFile opens path and parses it.
func (p *Parser) ParseFile(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse decodes a document and validates every record. All record problems
// are returned together as a *validation.ValidationError with fields prefixed
// by "records[i]". An empty document yields no records.
func (p *Parser) Parse(r io.Reader) ([]domain.Record, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode import document: %w", err)
	}

	out := make([]domain.Record, 0, len(doc.Records))
	problems := validation.NewValidationError()
	for i, raw := range doc.Records {
		record, err := p.convert(raw)
		if err != nil {
			problems.Merge(fmt.Sprintf("records[%d]", i), err)
			continue
		}
		out = append(out, record)
	}

	logging.Debugf("parsed %d records, %d problems", len(out), len(problems.Errors))
	if problems.HasErrors() {
		return nil, problems
	}
	return out, nil
}

func (p *Parser) convert(raw RawRecord) (domain.Record, error) {
	ve := validation.NewValidationError()

	record := domain.Record{
		Reference:    string(raw.Reference),
		Kind:         domain.Kind(strings.ToLower(string(raw.Kind))),
		Status:       domain.Status(strings.ToLower(string(raw.Status))),
		Title:        string(raw.Title),
		Counterparty: string(raw.Counterparty),
		Origin:       string(raw.Origin),
		Destination:  string(raw.Destination),
		Amount:       raw.Amount.value,
	}
	if record.Reference == "" {
		record.Reference = p.newReference()
	}

	if raw.Timestamp != "" {
		ts, err := parseTimestamp(string(raw.Timestamp))
		if err != nil {
			ve.AddInvalidFormatError("timestamp", string(raw.Timestamp), "RFC 3339 or YYYY-MM-DD[ HH:MM]")
		}
		record.Timestamp = ts
	}
	if raw.Amount.err != nil {
		ve.AddInvalidFormatError("amount", raw.Amount.raw, "a decimal number")
	}

	if err := p.validator.ValidateRecord(record); err != nil {
		if fieldErrs, ok := err.(*validation.ValidationError); ok {
			for _, fe := range fieldErrs.Errors {
				if len(ve.GetFieldErrors(fe.Field)) == 0 {
					ve.Errors = append(ve.Errors, fe)
				}
			}
		}
	}

	return record, ve.OrNil()
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
