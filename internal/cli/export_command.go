package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"haulboard/internal/validation"
)

// ExportCommand writes filtered records as CSV or JSON
type ExportCommand struct {
	app    *App
	Filter validation.FilterInput
	Format string // csv or json; empty uses the configured default
	Output string // file path; empty writes to the app output
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute runs the export command
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	spec, err := c.app.parseFilter(c.Filter)
	if err != nil {
		return err
	}

	format := c.Format
	if format == "" {
		format = c.app.config.Commands.ExportDefaultFormat
	}

	var w io.Writer = c.app.out
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return c.app.errorHandler.Handle("create "+c.Output, err)
		}
		defer f.Close()
		w = f
	}

	n, err := c.app.businessAPI.Export(ctx, w, spec, format)
	if err != nil {
		return c.app.errorHandler.Handle("export records", err)
	}

	if c.Output != "" {
		fmt.Fprintf(c.app.out, "Exported %d record(s) to %s\n", n, c.Output)
	}
	return nil
}
