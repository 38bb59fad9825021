package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"haulboard/internal/domain"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnvironment.
const EnvPrefix = "HB"

// Config holds all configuration options for haulboard
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Display     DisplayConfig     `yaml:"display"`
	Summary     SummaryConfig     `yaml:"summary"`
	Validation  ValidationConfig  `yaml:"validation"`
	Application ApplicationConfig `yaml:"application"`
	Commands    CommandsConfig    `yaml:"commands"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir"`
	Filename       string        `yaml:"filename"`
	QueryTimeout   time.Duration `yaml:"query_timeout" split_words:"true"`
	WriteTimeout   time.Duration `yaml:"write_timeout" split_words:"true"`
	DirPermissions uint32        `yaml:"dir_permissions" split_words:"true"`
}

// DisplayConfig holds output formatting configuration
type DisplayConfig struct {
	TimeFormat     string `yaml:"time_format" split_words:"true"`
	DateOnly       bool   `yaml:"date_only" split_words:"true"`
	CurrencySymbol string `yaml:"currency_symbol" split_words:"true"`
}

// SummaryConfig controls how summaries are computed
type SummaryConfig struct {
	ActiveStatuses []string `yaml:"active_statuses" split_words:"true"`
}

// ValidationConfig holds input validation limits
type ValidationConfig struct {
	TitleMaxLength     int `yaml:"title_max_length" split_words:"true"`
	ReferenceMaxLength int `yaml:"reference_max_length" split_words:"true"`
	SearchMaxLength    int `yaml:"search_max_length" split_words:"true"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Verbose     bool          `yaml:"verbose"`
	Environment string        `yaml:"environment"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	ListDefaultFormat   string `yaml:"list_default_format" split_words:"true"`
	ExportDefaultFormat string `yaml:"export_default_format" split_words:"true"`
	DefaultDateRange    string `yaml:"default_date_range" split_words:"true"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Dir:            filepath.Join(homeDir, ".haulboard"),
			Filename:       "hb.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Display: DisplayConfig{
			TimeFormat:     "2006-01-02 15:04",
			DateOnly:       false,
			CurrencySymbol: "₹",
		},
		Summary: SummaryConfig{
			ActiveStatuses: []string{string(domain.StatusInTransit), string(domain.StatusConfirmed)},
		},
		Validation: ValidationConfig{
			TitleMaxLength:     200,
			ReferenceMaxLength: 64,
			SearchMaxLength:    100,
		},
		Application: ApplicationConfig{
			Timeout:     60 * time.Second,
			Verbose:     false,
			Environment: string(Production),
		},
		Commands: CommandsConfig{
			ListDefaultFormat:   "table",
			ExportDefaultFormat: "csv",
			DefaultDateRange:    string(domain.RangeAll),
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// GetActiveStatuses returns the summary active set as domain statuses.
// Call after Validate.
func (c *Config) GetActiveStatuses() []domain.Status {
	out := make([]domain.Status, 0, len(c.Summary.ActiveStatuses))
	for _, s := range c.Summary.ActiveStatuses {
		out = append(out, domain.Status(strings.ToLower(strings.TrimSpace(s))))
	}
	return out
}

// LoadFromFile overlays the YAML document at path. Unknown keys are rejected.
func (c *Config) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ConfigError{Field: "config_file", Message: err.Error()}
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return &ConfigError{Field: "config_file", Message: "parse " + path + ": " + err.Error()}
	}
	return nil
}

// LoadFromEnvironment overlays HB_<SECTION>_<FIELD> environment variables,
// e.g. HB_DATABASE_QUERY_TIMEOUT or HB_SUMMARY_ACTIVE_STATUSES. Unset
// variables leave the current value in place. Lists are comma separated.
func (c *Config) LoadFromEnvironment() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return &ConfigError{Field: "environment", Message: err.Error()}
	}
	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}

	if len(c.Summary.ActiveStatuses) == 0 {
		return &ConfigError{Field: "summary.active_statuses", Message: "at least one active status is required"}
	}
	for _, s := range c.Summary.ActiveStatuses {
		status, err := domain.ParseStatus(s)
		if err != nil || status == domain.StatusAll {
			return &ConfigError{Field: "summary.active_statuses", Message: "unknown status " + s}
		}
	}

	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}
	if c.Validation.ReferenceMaxLength < 1 {
		return &ConfigError{Field: "validation.reference_max_length", Message: "reference maximum length must be at least 1"}
	}
	if c.Validation.SearchMaxLength < 1 {
		return &ConfigError{Field: "validation.search_max_length", Message: "search maximum length must be at least 1"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	if _, err := ParseEnvironment(c.Application.Environment); err != nil {
		return &ConfigError{Field: "application.environment", Message: err.Error()}
	}

	if !isOneOf(c.Commands.ListDefaultFormat, "table", "json") {
		return &ConfigError{Field: "commands.list_default_format", Message: "must be table or json"}
	}
	if !isOneOf(c.Commands.ExportDefaultFormat, "csv", "json") {
		return &ConfigError{Field: "commands.export_default_format", Message: "must be csv or json"}
	}
	if _, err := domain.ParseDateRange(c.Commands.DefaultDateRange); err != nil {
		return &ConfigError{Field: "commands.default_date_range", Message: err.Error()}
	}

	return nil
}

func isOneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
