package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"haulboard/internal/domain"
	"haulboard/internal/validation"
)

// filterFlags binds the shared record filter flags of list, summary and export
type filterFlags struct {
	input validation.FilterInput
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.input.Kind, "kind", "", "Only records of this kind (trip, booking, earning)")
	flags.StringVar(&f.input.Status, "status", "all", "Only records with this status")
	flags.StringVar(&f.input.Range, "range", "", "Age window: today, week, month or all (default from config)")
	flags.StringVar(&f.input.Search, "search", "", "Case-insensitive text search over reference, title, names and places")
	flags.StringVar(&f.input.Where, "where", "", `Boolean expression, e.g. 'amount > 500 && origin == "Pune"'`)
}

// resolve fills the date range default and treats positional args as search
// text when --search is not given.
func (f *filterFlags) resolve(app *App, args []string) validation.FilterInput {
	in := f.input
	if in.Range == "" {
		in.Range = app.config.Commands.DefaultDateRange
	}
	if in.Search == "" && len(args) > 0 {
		in.Search = strings.Join(args, " ")
	}
	return in
}

func (a *App) parseFilter(in validation.FilterInput) (domain.FilterSpec, error) {
	spec, err := a.businessAPI.ParseFilter(in)
	if err != nil {
		return domain.FilterSpec{}, a.errorHandler.Handle("parse filter", err)
	}
	return spec, nil
}
