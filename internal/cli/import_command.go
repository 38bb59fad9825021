package cli

import (
	"context"
	"fmt"

	"haulboard/internal/errors"
	"haulboard/internal/services"
)

// ImportCommand loads records from YAML or JSON documents. "-" reads stdin.
type ImportCommand struct {
	app *App
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{app: app}
}

// Execute imports each file in turn and stops at the first failure
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("arguments", args, "expected at least one file, or - for stdin")
	}

	for _, path := range args {
		var (
			result *services.ImportResult
			err    error
		)
		if path == "-" {
			result, err = c.app.businessAPI.Import(ctx, c.app.in)
		} else {
			result, err = c.app.businessAPI.ImportFile(ctx, path)
		}
		if err != nil {
			return c.app.errorHandler.Handle("import "+path, err)
		}

		fmt.Fprintf(c.app.out, "%s: %d imported, %d already present\n", path, result.Created, result.Skipped)
	}
	return nil
}
