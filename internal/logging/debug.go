// Package logging configures the zerolog loggers used across haulboard.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	output  io.Writer = os.Stderr
	verbose bool
	base    = build()
)

// DebugEnabled returns true if debug mode is enabled via HB_DEBUG or SetVerbose.
func DebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose || os.Getenv("HB_DEBUG") != ""
}

// SetVerbose turns debug logging on or off for loggers created afterwards
// and for the package-level helpers.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
	rebuild()
}

// SetOutput redirects log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
	rebuild()
}

// New returns a logger tagged with the given component name.
func New(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", component).Logger()
}

// Debugf logs a formatted debug message only if debug mode is enabled.
// HB_DEBUG is read on every call, so it can be toggled after start-up.
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	logger := current().Level(zerolog.DebugLevel)
	logger.Debug().Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func rebuild() {
	l := build()
	mu.Lock()
	base = l
	mu.Unlock()
}

func build() zerolog.Logger {
	level := zerolog.InfoLevel
	if DebugEnabled() {
		level = zerolog.DebugLevel
	}
	mu.RLock()
	w := output
	mu.RUnlock()
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
