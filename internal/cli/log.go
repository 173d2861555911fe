// Package cli implements the auradisp command-line interface.
//
// The commands build node layouts, render them in text and image formats,
// audit seed ranges, browse layouts interactively, serve the HTTP API and
// manage the local cache. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Build a layout and render it
//   - render: Redraw a saved JSON snapshot
//   - sweep: Build a range of seeds and audit each layout
//   - explore: Interactive terminal browser
//   - serve: HTTP API
//   - cache: Manage the local cache
//
// # Configuration
//
// An optional TOML file (--config, or ~/.config/auradisp/config.toml) sets
// defaults; flags given on the command line take precedence.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps as "15:04:05.00", messages
// below level dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configLevel maps the config file's log level to a logger level. An empty
// name selects info.
func configLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(name)
}

// progress logs how long an operation took once it is done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (elapsed)", e.g. "Built 10 layouts (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
