// Package logging builds the process logger: log/slog on top of a
// charmbracelet/log handler.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	clog "github.com/charmbracelet/log"

	"mortgage-agent/config"
)

var formatters = map[string]clog.Formatter{
	"json":   clog.JSONFormatter,
	"text":   clog.TextFormatter,
	"logfmt": clog.LogfmtFormatter,
}

// New returns a logger writing to stdout and installs it as the slog default.
func New(cfg config.LogConfig) *slog.Logger {
	logger := NewWithWriter(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter returns a logger writing to w without touching the default.
func NewWithWriter(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level, err := clog.ParseLevel(cfg.Level)
	if err != nil {
		level = clog.InfoLevel
	}

	formatter, ok := formatters[cfg.Format]
	if !ok {
		formatter = clog.TextFormatter
	}

	handler := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(styles())

	return slog.New(handler)
}

func styles() *clog.Styles {
	s := clog.DefaultStyles()
	errorColor := lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	warnColor := lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}

	s.Levels[clog.ErrorLevel] = lipgloss.NewStyle().SetString("ERROR").Bold(true).Foreground(errorColor)
	s.Levels[clog.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Bold(true).Foreground(warnColor)
	s.Keys["error"] = lipgloss.NewStyle().Foreground(errorColor)
	s.Values["error"] = lipgloss.NewStyle().Bold(true)
	return s
}

// Discard is a logger for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
