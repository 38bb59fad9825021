package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"haulboard/internal/api"
	"haulboard/internal/config"
	"haulboard/internal/domain"
	"haulboard/internal/logging"
	"haulboard/internal/pipeline"
	"haulboard/internal/services"
	"haulboard/internal/validation"
)

// Backend builds the business API for a loaded configuration. The closer
// releases whatever storage the API holds.
type Backend func(cfg *config.Config) (api.BusinessAPI, io.Closer, error)

// DefaultBackend opens the configured SQLite database and wires the services
// over it.
func DefaultBackend(cfg *config.Config) (api.BusinessAPI, io.Closer, error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(pipeline.WithActiveStatuses(cfg.GetActiveStatuses()...))
	v := validation.NewValidatorWithConfig(cfg)
	container := services.NewServiceContainer(repo, p, v)
	return api.NewBusinessAPI(container, v), repo, nil
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	newBackend Backend
	loader     *config.Loader
	config     *config.Config
	app        *App
	closer     io.Closer
	out        io.Writer
	in         io.Reader
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(newBackend Backend) *RootCommand {
	if newBackend == nil {
		newBackend = DefaultBackend
	}
	root := &RootCommand{
		newBackend: newBackend,
		loader:     config.NewLoader(),
		out:        os.Stdout,
		in:         os.Stdin,
	}

	root.cmd = &cobra.Command{
		Use:   "hb",
		Short: "Browse and manage trucking marketplace records",
		Long: `haulboard (hb) keeps trips, bookings and earnings in a local database and
lets you filter, summarize, export and move them through their lifecycle.

EXAMPLES:
  hb import records.yaml                     # Load records from YAML or JSON
  hb list --kind trip --range week           # Trips from the last 7 days, newest first
  hb list --status in-transit --search pune  # Text search over reference, title, names, places
  hb list --where 'amount > 5000'            # Boolean expression over record fields
  hb summary --by-kind                       # Totals per kind
  hb show T-1042                             # One record with its status history
  hb accept T-1042                           # Apply a lifecycle action
  hb export --format json > records.json     # Export filtered records

ACTIONS:
  accept, confirm, assign, start, deliver, complete, cancel

CONFIGURATION:
  Configuration follows this priority order: flags > environment variables > config file > defaults
  The config file is YAML, named by --config or HB_CONFIG_FILE.

  Database Configuration:
    HB_DATABASE_DIR                        Database directory (default: ~/.haulboard)
    HB_DATABASE_FILENAME                   Database filename (default: hb.db)
    HB_DATABASE_QUERY_TIMEOUT              Query timeout (default: 10s)
    HB_DATABASE_WRITE_TIMEOUT              Write timeout (default: 5s)

  Display Configuration:
    HB_DISPLAY_TIME_FORMAT                 Time format (default: 2006-01-02 15:04)
    HB_DISPLAY_DATE_ONLY                   Show date only (default: false)
    HB_DISPLAY_CURRENCY_SYMBOL             Currency symbol (default: ₹)

  Summary Configuration:
    HB_SUMMARY_ACTIVE_STATUSES             Statuses counted as active (default: in-transit,confirmed)

  Application Configuration:
    HB_APPLICATION_TIMEOUT                 Command timeout (default: 60s)
    HB_APPLICATION_VERBOSE                 Debug logging to stderr (default: false)
    HB_APPLICATION_ENVIRONMENT             production, development or testing

  Command Configuration:
    HB_COMMANDS_LIST_DEFAULT_FORMAT        table or json (default: table)
    HB_COMMANDS_EXPORT_DEFAULT_FORMAT      csv or json (default: csv)
    HB_COMMANDS_DEFAULT_DATE_RANGE         today, week, month or all (default: all)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases storage afterwards
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput redirects command output and cobra's own messages
func (r *RootCommand) SetOutput(w io.Writer) {
	r.out = w
	r.cmd.SetOut(w)
	r.cmd.SetErr(w)
}

// SetInput sets the stream read by "hb import -"
func (r *RootCommand) SetInput(in io.Reader) {
	r.in = in
}

// Config returns the configuration loaded for the last run
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML config file (overrides HB_CONFIG_FILE)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides HB_DATABASE_DIR)")
	flags.String("db-filename", "", "Database filename (overrides HB_DATABASE_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides HB_DATABASE_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides HB_DATABASE_WRITE_TIMEOUT)")

	// Display configuration
	flags.String("time-format", "", "Time display format (overrides HB_DISPLAY_TIME_FORMAT)")
	flags.Bool("date-only", false, "Show date only in displays (overrides HB_DISPLAY_DATE_ONLY)")

	// Summary configuration
	flags.StringSlice("active-status", nil, "Status counted as active, repeatable (overrides HB_SUMMARY_ACTIVE_STATUSES)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides HB_APPLICATION_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Debug logging to stderr (overrides HB_APPLICATION_VERBOSE)")
	flags.String("env", "", "Environment: production, development or testing (overrides HB_APPLICATION_ENVIRONMENT)")
}

// overridesFromFlags collects the global flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	ov := &config.ConfigOverrides{}

	if flags.Changed("config") {
		v, _ := flags.GetString("config")
		ov.ConfigFile = &v
	}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		ov.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		ov.DBFilename = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		ov.DBQueryTimeout = &v
	}
	if flags.Changed("db-write-timeout") {
		v, _ := flags.GetDuration("db-write-timeout")
		ov.DBWriteTimeout = &v
	}
	if flags.Changed("time-format") {
		v, _ := flags.GetString("time-format")
		ov.TimeFormat = &v
	}
	if flags.Changed("date-only") {
		v, _ := flags.GetBool("date-only")
		ov.DateOnly = &v
	}
	if flags.Changed("active-status") {
		ov.ActiveStatuses, _ = flags.GetStringSlice("active-status")
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		ov.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		ov.Verbose = &v
	}
	if flags.Changed("env") {
		v, _ := flags.GetString("env")
		ov.Environment = &v
	}

	return ov
}

// setup loads configuration and opens the backend before any subcommand runs
func (r *RootCommand) setup() error {
	cfg, err := r.loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}
	r.config = cfg
	logging.SetVerbose(cfg.Application.Verbose)

	businessAPI, closer, err := r.newBackend(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	r.closer = closer

	r.app = NewAppWithConfig(businessAPI, cfg)
	r.app.SetOutput(r.out)
	r.app.SetInput(r.in)
	return nil
}

func (r *RootCommand) close() {
	if r.closer != nil {
		r.closer.Close()
		r.closer = nil
	}
}

// run wraps a handler with the configured application timeout
func (r *RootCommand) run(handler func(app *App) Command) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()
		return handler(r.app).Execute(ctx, args)
	}
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	importCmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Load records from YAML or JSON files",
		Long: `Load records from one or more YAML or JSON documents of the form

  records:
    - reference: T-1042        # optional, a UUID is generated when absent
      kind: trip               # trip, booking or earning
      status: pending
      title: Steel coils
      counterparty: Ravi Transport
      origin: Mumbai
      destination: Pune
      timestamp: 2026-10-14T08:30:00Z
      amount: 18500.00         # optional

Records whose reference already exists are skipped. Use - to read stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.run(func(app *App) Command { return NewImportCommand(app) }),
	}

	var listFilter filterFlags
	var listFormat string
	listCmd := &cobra.Command{
		Use:   "list [search text]",
		Short: "List records, newest first",
		Long: `List records matching every given filter, newest first.

Ranges compare a record's age in whole days with 1 (today), 7 (week) or
30 (month). Search is case-insensitive over reference, title, counterparty,
origin and destination. --where takes a boolean expression over kind, status,
title, counterparty, origin, destination, reference, amount, has_amount and
age_days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(func(app *App) Command {
				c := NewListCommand(app)
				c.Filter = listFilter.resolve(app, args)
				c.Format = listFormat
				return c
			})(cmd, args)
		},
	}
	listFilter.register(listCmd)
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "", "Output format: table or json (default from config)")

	var summaryFilter filterFlags
	var summaryByKind bool
	var summaryFormat string
	summaryCmd := &cobra.Command{
		Use:   "summary [search text]",
		Short: "Summarize the filtered records",
		Long: `Show totals for the records matching the filters: how many there are, how
many are active, completed and cancelled, and the sum of their amounts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(func(app *App) Command {
				c := NewSummaryCommand(app)
				c.Filter = summaryFilter.resolve(app, args)
				c.ByKind = summaryByKind
				c.Format = summaryFormat
				return c
			})(cmd, args)
		},
	}
	summaryFilter.register(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryByKind, "by-kind", false, "One row per record kind")
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "", "Output format: table or json")

	showCmd := &cobra.Command{
		Use:   "show <id|reference>",
		Short: "Show a record and its status history",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run(func(app *App) Command { return NewShowCommand(app) }),
	}

	var exportFilter filterFlags
	var exportFormat, exportOutput string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered records as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(func(app *App) Command {
				c := NewExportCommand(app)
				c.Filter = exportFilter.resolve(app, nil)
				c.Format = exportFormat
				c.Output = exportOutput
				return c
			})(cmd, args)
		},
	}
	exportFilter.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "csv or json (default from config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")

	r.cmd.AddCommand(importCmd, listCmd, summaryCmd, showCmd, exportCmd)

	for _, action := range domain.Actions {
		name := string(action)
		r.cmd.AddCommand(&cobra.Command{
			Use:     name + " <id|reference>",
			Short:   actionDescription(action),
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
				defer cancel()
				return NewCommandRegistry(r.app).Execute(ctx, name, args)
			},
		})
	}
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}
