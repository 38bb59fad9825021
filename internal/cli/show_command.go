package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"haulboard/internal/errors"
)

// ShowCommand prints one record with its transition history
type ShowCommand struct {
	app *App
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app}
}

// Execute expects exactly one record ID or reference
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("arguments", args, "expected one record ID or reference")
	}

	detail, err := c.app.businessAPI.GetRecordDetail(ctx, args[0])
	if err != nil {
		return c.app.errorHandler.Handle("show "+args[0], err)
	}

	r := detail.Record
	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", r.ID)
	fmt.Fprintf(w, "Reference:\t%s\n", r.Reference)
	fmt.Fprintf(w, "Kind:\t%s\n", r.Kind)
	fmt.Fprintf(w, "Status:\t%s\n", r.Status)
	fmt.Fprintf(w, "Title:\t%s\n", r.Title)
	fmt.Fprintf(w, "Counterparty:\t%s\n", orDash(r.Counterparty))
	fmt.Fprintf(w, "Route:\t%s\n", orDash(r.Route()))
	fmt.Fprintf(w, "When:\t%s\n", c.app.formatTime(r.Timestamp))
	fmt.Fprintf(w, "Amount:\t%s\n", c.app.formatAmount(r.Amount))
	fmt.Fprintf(w, "Updated:\t%s\n", c.app.formatTime(r.UpdatedAt))
	if err := w.Flush(); err != nil {
		return err
	}

	switch {
	case len(detail.AvailableActions) > 0:
		names := make([]string, len(detail.AvailableActions))
		for i, a := range detail.AvailableActions {
			names[i] = string(a)
		}
		fmt.Fprintf(c.app.out, "Next:          %s\n", strings.Join(names, ", "))
	case r.Status.IsTerminal():
		fmt.Fprintln(c.app.out, "Next:          none, status is final")
	}

	if len(detail.History) == 0 {
		fmt.Fprintln(c.app.out, "\nNo status changes")
		return nil
	}

	fmt.Fprintln(c.app.out, "\nHistory:")
	w = tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	for _, change := range detail.History {
		fmt.Fprintf(w, "  %s\t%s\t%s -> %s\n",
			c.app.formatTime(change.ChangedAt), change.Action, change.FromStatus, change.ToStatus)
	}
	return w.Flush()
}
