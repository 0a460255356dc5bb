package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

const ruleWidth = 80

// TableFormatter writes human-readable reports and info views.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer, color bool) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: color,
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (f *TableFormatter) rule() string {
	return f.colorize(strings.Repeat("─", ruleWidth), colorGray)
}

// Format writes the lint report.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(report *entities.LintReport) error {
	summary := report.Summary

	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "Profile:  %s\n", f.colorize(displayName(summary.Profile), colorBold))
	fmt.Fprintf(f.writer, "Location: %s\n", summary.Location)
	fmt.Fprintf(f.writer, "Checked:  %s\n", summary.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Report:   %s\n", report.ID)
	fmt.Fprintln(f.writer)

	f.formatDiagnostics("Errors:", "✗", colorRed, report.Errors)
	f.formatDiagnostics("Warnings:", "⚠", colorYellow, report.Warnings)

	fmt.Fprintln(f.writer, f.colorize("Summary:", colorBold))
	fmt.Fprintln(f.writer, f.rule())
	verdict := f.colorize("✓ valid", colorGreen)
	if !summary.Valid {
		verdict = f.colorize("✗ invalid", colorRed)
	}
	fmt.Fprintf(f.writer, "Result:   %s\n", verdict)
	fmt.Fprintf(f.writer, "Controls: %d\n", summary.Controls)
	fmt.Fprintf(f.writer, "Errors:   %d\n", len(report.Errors))
	fmt.Fprintf(f.writer, "Warnings: %d\n", len(report.Warnings))
	fmt.Fprintln(f.writer, f.rule())

	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatDiagnostics(title, symbol, color string, diags []entities.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	fmt.Fprintln(f.writer, f.colorize(title, colorBold))
	for _, d := range diags {
		fmt.Fprintf(f.writer, "  %s %s\n", f.colorize(symbol, color), d.Message)
		if loc := diagnosticLocation(d); loc != "" {
			fmt.Fprintf(f.writer, "    at %s\n", f.colorize(loc, colorGray))
		}
		if d.ControlID != "" {
			fmt.Fprintf(f.writer, "    control: %s\n", f.colorize(d.ControlID, colorCyan))
		}
	}
	fmt.Fprintln(f.writer)
}

// FormatInfo writes the info view, groups and rules in sorted order.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatInfo(info *entities.ProfileInfo) error {
	name, _ := info.Metadata[entities.MetadataNameKey].(string)
	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "Profile: %s", f.colorize(displayName(name), colorBold))
	if version, ok := info.Metadata["version"]; ok {
		fmt.Fprintf(f.writer, " (v%v)", version)
	}
	fmt.Fprintln(f.writer)
	fmt.Fprintf(f.writer, "Controls: %d in %d files\n", info.RuleCount(), len(info.Groups))
	fmt.Fprintln(f.writer, f.rule())

	if len(info.Groups) == 0 {
		fmt.Fprintln(f.writer, "No controls defined.")
		return nil
	}

	for _, key := range sortedKeys(info.Groups) {
		group := info.Groups[key]
		header := f.colorize(key, colorBold)
		if group.Title != "" {
			header += " " + f.colorize("("+group.Title+")", colorGray)
		}
		fmt.Fprintln(f.writer, header)

		for _, id := range sortedKeys(group.Rules) {
			rule := group.Rules[id]
			severity := fmt.Sprintf("[%-8s %.2f]", rule.Severity, rule.Impact)
			fmt.Fprintf(f.writer, "  %s %s %s\n",
				f.colorize(severity, f.severityColor(rule.Severity)),
				f.colorize(id, colorCyan),
				rule.Title)
		}
		fmt.Fprintln(f.writer)
	}

	return nil
}

func (f *TableFormatter) severityColor(severity string) string {
	s, err := values.NewSeverity(severity)
	if err != nil {
		return colorReset
	}
	switch {
	case s.IsHigherOrEqual(values.SevHigh):
		return colorRed
	case s.IsHigherOrEqual(values.SevMedium):
		return colorYellow
	default:
		return colorGray
	}
}

func diagnosticLocation(d entities.Diagnostic) string {
	switch {
	case d.File == "":
		return ""
	case d.Line > 0:
		return fmt.Sprintf("%s:%d", d.File, d.Line)
	default:
		return d.File
	}
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
