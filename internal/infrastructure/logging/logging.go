// Package logging builds the slog handlers used by the CLI.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Format selects the log output encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"
)

// ErrUnknownLogFormat is returned for unsupported format names.
var ErrUnknownLogFormat = errors.New("unknown log format")

// AllFormats lists the accepted format names.
var AllFormats = []string{string(FormatText), string(FormatJSON), string(FormatLogfmt)}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(format)))
	if slices.Contains([]Format{FormatJSON, FormatLogfmt, FormatText}, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownLogFormat, format, strings.Join(AllFormats, ", "))
}

// Level returns debug when verbose, info otherwise.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewHandler creates a handler writing to w.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return newCharmHandler(w, level)
	}
}

// NewLogger is a convenience wrapper around NewHandler.
func NewLogger(w io.Writer, verbose bool, format string) (*slog.Logger, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return slog.New(NewHandler(w, Level(verbose), f)), nil
}

func newCharmHandler(w io.Writer, level slog.Level) slog.Handler {
	//nolint:gosec // G115: slog levels fit in int32
	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(int32(level)),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: level <= slog.LevelDebug,
		TimeFormat:      time.TimeOnly,
	})
}
