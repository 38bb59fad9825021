package cli

import (
	"context"
	"fmt"

	"haulboard/internal/domain"
	"haulboard/internal/errors"
)

// ActionCommand applies one lifecycle action to a record
type ActionCommand struct {
	app    *App
	action domain.Action
}

// NewActionCommand creates a handler for action
func NewActionCommand(app *App, action domain.Action) *ActionCommand {
	return &ActionCommand{app: app, action: action}
}

// Execute expects exactly one record ID or reference
func (c *ActionCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected one record ID or reference")
	}

	result, err := c.app.businessAPI.ApplyAction(ctx, args[0], string(c.action))
	if err != nil {
		return c.app.errorHandler.Handle(string(c.action)+" "+args[0], err)
	}

	fmt.Fprintf(c.app.out, "%s %s: %s -> %s\n",
		result.Record.Kind, result.Record.Reference, result.Change.FromStatus, result.Change.ToStatus)
	return nil
}

func actionDescription(action domain.Action) string {
	target, _ := action.Target()
	from := action.AllowedFrom()
	names := make([]string, len(from))
	for i, s := range from {
		names[i] = string(s)
	}
	return fmt.Sprintf("Move a record from %s to %s", joinOr(names), target)
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	out := items[0]
	for _, s := range items[1 : len(items)-1] {
		out += ", " + s
	}
	return out + " or " + items[len(items)-1]
}
