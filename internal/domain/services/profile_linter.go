package services

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// Lint messages. Tests and formatters match on these.
const (
	MsgDeprecatedMetadata = "deprecated metadata format"
	MsgLegacyControlsDir  = "deprecated controls directory test/, rename it to controls/"
	MsgNoControls         = "no controls defined"
	MsgEmptyControlID     = "avoid empty control ids"
)

// ProfileLinter runs structural checks over an aggregated profile.
// It never fails on content problems; everything becomes a diagnostic.
type ProfileLinter struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewProfileLinter creates a linter that mirrors diagnostics to logger.
func NewProfileLinter(logger *slog.Logger) *ProfileLinter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProfileLinter{logger: logger, now: time.Now}
}

// WithClock overrides the report timestamp source.
func (l *ProfileLinter) WithClock(now func() time.Time) *ProfileLinter {
	l.now = now
	return l
}

// diagnostics accumulates findings for one lint run.
type diagnostics struct {
	logger   *slog.Logger
	errors   []entities.Diagnostic
	warnings []entities.Diagnostic
}

func (d *diagnostics) warn(file string, line int, controlID, msg string) {
	d.logger.Warn(msg, "file", file, "line", line, "control", controlID)
	d.warnings = append(d.warnings, entities.Diagnostic{
		File: file, Line: line, ControlID: controlID, Message: msg,
	})
}

func (d *diagnostics) error(file string, line int, controlID, msg string) {
	d.logger.Error(msg, "file", file, "line", line, "control", controlID)
	d.errors = append(d.errors, entities.Diagnostic{
		File: file, Line: line, ControlID: controlID, Message: msg,
	})
}

// Lint checks the profile and returns the filled report.
// Report.Summary.Valid is true iff no errors were recorded.
func (l *ProfileLinter) Lint(profile *entities.Profile) *entities.LintReport {
	report := entities.NewLintReport(profile.Root, l.now())
	diags := &diagnostics{logger: l.logger}

	l.checkMetadata(profile, &report.Summary, diags)
	l.checkLayout(profile, diags)
	l.checkControlCount(profile, &report.Summary, diags)
	for _, key := range profile.GroupKeys() {
		group := profile.Groups[key]
		for _, id := range group.IDs() {
			checkRule(id, group[id], diags)
		}
	}

	report.Errors = append(report.Errors, diags.errors...)
	report.Warnings = append(report.Warnings, diags.warnings...)
	report.Summary.Valid = report.Passed()

	if !report.HasWarnings() {
		l.logger.Info("control definitions OK")
	}
	return report
}

func (l *ProfileLinter) checkMetadata(profile *entities.Profile, summary *entities.LintSummary, diags *diagnostics) {
	meta := profile.Metadata
	if meta.LegacyFile != "" {
		diags.warn(meta.LegacyFile, 0, "", fmt.Sprintf("%s: %s, use %s instead",
			MsgDeprecatedMetadata, filepath.Base(meta.LegacyFile), "profile.yaml"))
	}

	if meta.Valid {
		l.logger.Info("metadata OK", "file", meta.File)
	} else {
		l.logger.Debug("metadata did not pass validation", "file", meta.File)
	}

	name, _ := meta.Name()
	summary.Profile = name
}

func (l *ProfileLinter) checkLayout(profile *entities.Profile, diags *diagnostics) {
	layout := profile.Layout
	if layout.HasLegacyControlsDir && !layout.HasControlsDir {
		diags.warn(layout.LegacyControlsDir, 0, "", MsgLegacyControlsDir)
	}
}

func (l *ProfileLinter) checkControlCount(profile *entities.Profile, summary *entities.LintSummary, diags *diagnostics) {
	count := profile.RulesCount()
	summary.Controls = count
	if count == 0 {
		diags.warn(profile.Root, 0, "", MsgNoControls)
		return
	}
	l.logger.Info("found controls", "count", count)
}

func checkRule(id string, rule *entities.Rule, diags *diagnostics) {
	file, line := rule.Location()

	cid := values.NewControlID(id)
	if cid.IsEmpty() {
		diags.error(file, line, "", MsgEmptyControlID)
		return
	}
	if cid.IsGenerated() {
		return
	}

	if rule.Title == "" {
		diags.warn(file, line, id, fmt.Sprintf("control %s has no title", id))
	}
	if rule.Description == "" {
		diags.warn(file, line, id, fmt.Sprintf("control %s has no description", id))
	}
	below, above := values.ImpactOutOfRange(rule.Impact)
	if above {
		diags.warn(file, line, id, fmt.Sprintf("control %s has impact > 1.0", id))
	}
	if below {
		diags.warn(file, line, id, fmt.Sprintf("control %s has impact < 0.0", id))
	}
	if len(rule.Checks) == 0 {
		diags.warn(file, line, id, fmt.Sprintf("control %s has no checks defined", id))
	}
}
