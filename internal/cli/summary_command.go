package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
	"haulboard/internal/pipeline"
	"haulboard/internal/validation"
)

// SummaryCommand prints the aggregate of the filtered records
type SummaryCommand struct {
	app    *App
	Filter validation.FilterInput
	ByKind bool
	Format string // table or json
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app}
}

// Execute runs the summary command
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	spec, err := c.app.parseFilter(c.Filter)
	if err != nil {
		return err
	}

	format := c.Format
	if format == "" {
		format = c.app.config.Commands.ListDefaultFormat
	}
	if format != "table" && format != "json" {
		return errors.NewInvalidInputError("format", format, "supported summary formats are table and json")
	}

	if c.ByKind {
		breakdown, err := c.app.businessAPI.GetBreakdown(ctx, spec)
		if err != nil {
			return c.app.errorHandler.Handle("summarize records", err)
		}
		if format == "json" {
			return c.writeJSON(breakdown)
		}
		return c.printBreakdown(breakdown.Overall, breakdown.ByKind)
	}

	dashboard, err := c.app.businessAPI.GetDashboard(ctx, spec)
	if err != nil {
		return c.app.errorHandler.Handle("summarize records", err)
	}
	if format == "json" {
		return c.writeJSON(dashboard.Summary)
	}
	return c.printDashboard(dashboard.Summary, dashboard.Histogram, dashboard.Recent)
}

func (c *SummaryCommand) writeJSON(v interface{}) error {
	enc := json.NewEncoder(c.app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *SummaryCommand) printSummary(s domain.Summary) {
	fmt.Fprintf(c.app.out, "Total:      %d\n", s.Total)
	fmt.Fprintf(c.app.out, "Active:     %d\n", s.Active)
	fmt.Fprintf(c.app.out, "Completed:  %d\n", s.Completed)
	fmt.Fprintf(c.app.out, "Cancelled:  %d\n", s.Cancelled)
	fmt.Fprintf(c.app.out, "Amount:     %s\n", c.app.formatTotal(s.TotalAmount))
}

func (c *SummaryCommand) printDashboard(s domain.Summary, histogram []pipeline.StatusCount, recent []domain.Record) error {
	c.printSummary(s)
	if len(histogram) == 0 {
		return nil
	}

	fmt.Fprintln(c.app.out, "\nBy status:")
	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	for _, bucket := range histogram {
		fmt.Fprintf(w, "  %s\t%d\n", bucket.Status, bucket.Count)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(c.app.out, "\nMost recent:")
	w = tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	for _, r := range recent {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", r.Reference, r.Status, c.app.formatTime(r.Timestamp), r.Title)
	}
	return w.Flush()
}

func (c *SummaryCommand) printBreakdown(overall domain.Summary, byKind []pipeline.KindSummary) error {
	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "KIND\tTOTAL\tACTIVE\tCOMPLETED\tCANCELLED\tAMOUNT\t")
	row := func(label string, s domain.Summary) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t\n",
			label, s.Total, s.Active, s.Completed, s.Cancelled, c.app.formatTotal(s.TotalAmount))
	}
	for _, k := range byKind {
		row(k.Kind.Label(), k.Summary)
	}
	row("All", overall)
	return w.Flush()
}
