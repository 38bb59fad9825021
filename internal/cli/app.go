package cli

import (
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"haulboard/internal/api"
	"haulboard/internal/config"
)

// App holds what every command handler needs: the business API, the
// effective configuration and the output streams.
type App struct {
	businessAPI  api.BusinessAPI
	config       *config.Config
	out          io.Writer
	in           io.Reader
	errorHandler *ErrorHandler
}

// NewApp creates a CLI application with default configuration
func NewApp(businessAPI api.BusinessAPI) *App {
	return NewAppWithConfig(businessAPI, config.NewConfig())
}

// NewAppWithConfig creates a CLI application with the given configuration
func NewAppWithConfig(businessAPI api.BusinessAPI, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		businessAPI:  businessAPI,
		config:       cfg,
		out:          os.Stdout,
		in:           os.Stdin,
		errorHandler: NewErrorHandler(),
	}
}

// SetOutput redirects command output
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// SetInput sets the stream read by "hb import -"
func (a *App) SetInput(r io.Reader) {
	a.in = r
}

func (a *App) formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if a.config.Display.DateOnly {
		return t.Local().Format("2006-01-02")
	}
	return t.Local().Format(a.config.Display.TimeFormat)
}

func (a *App) formatAmount(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return a.config.Display.CurrencySymbol + d.StringFixed(2)
}

func (a *App) formatTotal(d decimal.Decimal) string {
	return a.formatAmount(&d)
}
