// Package output provides formatters for lint reports and profile info views.
package output

import (
	"fmt"
	"io"

	"github.com/reglet-dev/auditpack/internal/application/ports"
)

// Options tunes formatter output.
type Options struct {
	// Indent pretty-prints JSON.
	Indent bool
	// Color enables ANSI colors in table output.
	Color bool
	// BaseDir is used to relativize SARIF artifact URIs. Empty means the
	// working directory.
	BaseDir string
}

// FormatterFactory creates report and info formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// CreateReport returns a lint report formatter for the given format name.
func (f *FormatterFactory) CreateReport(format string, writer io.Writer, options Options) (ports.ReportFormatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(writer, options.Color), nil
	case "json":
		return NewJSONFormatter(writer, options.Indent), nil
	case "yaml":
		return NewYAMLFormatter(writer), nil
	case "sarif":
		return NewSARIFFormatter(writer, options.BaseDir), nil
	default:
		return nil, fmt.Errorf(
			"unknown format: %s (supported: %v)",
			format, f.SupportedReportFormats(),
		)
	}
}

// CreateInfo returns a profile info formatter for the given format name.
func (f *FormatterFactory) CreateInfo(format string, writer io.Writer, options Options) (ports.InfoFormatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(writer, options.Color), nil
	case "json":
		return NewJSONFormatter(writer, options.Indent), nil
	case "yaml":
		return NewYAMLFormatter(writer), nil
	default:
		return nil, fmt.Errorf(
			"unknown format: %s (supported: %v)",
			format, f.SupportedInfoFormats(),
		)
	}
}

// SupportedReportFormats returns the lint report format names.
func (f *FormatterFactory) SupportedReportFormats() []string {
	return []string{"table", "json", "yaml", "sarif"}
}

// SupportedInfoFormats returns the info view format names.
func (f *FormatterFactory) SupportedInfoFormats() []string {
	return []string{"table", "json", "yaml"}
}
