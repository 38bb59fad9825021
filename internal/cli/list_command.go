package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
	"haulboard/internal/validation"
)

// ListCommand prints filtered records, newest first
type ListCommand struct {
	app    *App
	Filter validation.FilterInput
	Format string // table or json; empty uses the configured default
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	spec, err := c.app.parseFilter(c.Filter)
	if err != nil {
		return err
	}

	format := c.Format
	if format == "" {
		format = c.app.config.Commands.ListDefaultFormat
	}

	switch format {
	case "json":
		if _, err := c.app.businessAPI.Export(ctx, c.app.out, spec, "json"); err != nil {
			return c.app.errorHandler.Handle("list records", err)
		}
		return nil
	case "table":
		records, err := c.app.businessAPI.ListRecords(ctx, spec)
		if err != nil {
			return c.app.errorHandler.Handle("list records", err)
		}
		return c.printTable(records)
	default:
		return errors.NewInvalidInputError("format", format, "supported list formats are table and json")
	}
}

func (c *ListCommand) printTable(records []domain.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(c.app.out, "No records found")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREFERENCE\tKIND\tSTATUS\tWHEN\tTITLE\tROUTE\tAMOUNT")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Reference, r.Kind, r.Status, c.app.formatTime(r.Timestamp),
			r.Title, orDash(r.Route()), c.app.formatAmount(r.Amount))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "%d record(s)\n", len(records))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
