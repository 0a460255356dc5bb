package entities

import (
	"time"

	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// LintReport is the outcome of linting a profile.
// Warnings never affect Summary.Valid.
type LintReport struct {
	ID       values.ReportID `json:"id" yaml:"id"`
	Summary  LintSummary     `json:"summary" yaml:"summary"`
	Errors   []Diagnostic    `json:"errors" yaml:"errors"`
	Warnings []Diagnostic    `json:"warnings" yaml:"warnings"`
}

// LintSummary holds the report counters.
type LintSummary struct {
	Valid     bool      `json:"valid" yaml:"valid"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Location  string    `json:"location" yaml:"location"`
	Profile   string    `json:"profile" yaml:"profile"`
	Controls  int       `json:"controls" yaml:"controls"`
}

// Diagnostic is a single lint finding.
type Diagnostic struct {
	File      string `json:"file" yaml:"file"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	ControlID string `json:"control_id" yaml:"control_id"`
	Message   string `json:"msg" yaml:"msg"`
}

// NewLintReport creates an empty report for a profile location.
// Errors and Warnings start as empty slices so they serialize as [].
func NewLintReport(location string, timestamp time.Time) *LintReport {
	return &LintReport{
		ID: values.NewReportID(),
		Summary: LintSummary{
			Timestamp: timestamp,
			Location:  location,
		},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
}

// Passed reports whether the report holds no errors.
func (r *LintReport) Passed() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether any warnings were recorded.
func (r *LintReport) HasWarnings() bool {
	return len(r.Warnings) > 0
}
