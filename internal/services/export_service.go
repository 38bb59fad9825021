package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
)

var csvHeader = []string{
	"id", "reference", "kind", "status", "title", "counterparty",
	"origin", "destination", "timestamp", "amount", "updated_at",
}

// exportRecord is the JSON shape of an exported record
type exportRecord struct {
	ID           int64            `json:"id"`
	Reference    string           `json:"reference"`
	Kind         domain.Kind      `json:"kind"`
	Status       domain.Status    `json:"status"`
	Title        string           `json:"title"`
	Counterparty string           `json:"counterparty,omitempty"`
	Origin       string           `json:"origin,omitempty"`
	Destination  string           `json:"destination,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
	Amount       *decimal.Decimal `json:"amount"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// exportServiceImpl implements the ExportService interface
type exportServiceImpl struct {
	records RecordService
}

// NewExportService creates a new ExportService instance
func NewExportService(records RecordService) ExportService {
	return &exportServiceImpl{records: records}
}

// ParseExportFormat parses a format name
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", errors.NewInvalidInputError("format", s, "supported formats are csv and json")
	}
}

// Export writes the records matching spec, newest first. Amounts are written
// as exact decimal strings; absent amounts are empty in CSV and null in JSON.
func (s *exportServiceImpl) Export(ctx context.Context, w io.Writer, spec domain.FilterSpec, format ExportFormat) (int, error) {
	if _, err := ParseExportFormat(string(format)); err != nil {
		return 0, err
	}

	records, err := s.records.ListRecords(ctx, spec)
	if err != nil {
		return 0, err
	}

	switch format {
	case FormatJSON:
		err = writeJSON(w, records)
	default:
		err = writeCSV(w, records)
	}
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func writeCSV(w io.Writer, records []domain.Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		amount := ""
		if r.Amount != nil {
			amount = r.Amount.String()
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Reference,
			string(r.Kind),
			string(r.Status),
			r.Title,
			r.Counterparty,
			r.Origin,
			r.Destination,
			r.Timestamp.Format(time.RFC3339),
			amount,
			r.UpdatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, records []domain.Record) error {
	out := make([]exportRecord, 0, len(records))
	for _, r := range records {
		out = append(out, exportRecord{
			ID:           r.ID,
			Reference:    r.Reference,
			Kind:         r.Kind,
			Status:       r.Status,
			Title:        r.Title,
			Counterparty: r.Counterparty,
			Origin:       r.Origin,
			Destination:  r.Destination,
			Timestamp:    r.Timestamp,
			Amount:       r.Amount,
			UpdatedAt:    r.UpdatedAt,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
