package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
)

// SARIF rule ids for the two diagnostic categories.
const (
	sarifRuleError   = "auditpack/lint-error"
	sarifRuleWarning = "auditpack/lint-warning"
)

type sarifMapper struct {
	report  *entities.LintReport
	baseDir string
}

func newSARIFMapper(report *entities.LintReport, baseDir string) *sarifMapper {
	if baseDir == "" {
		baseDir, _ = os.Getwd() // Best effort, ignore error
	}
	return &sarifMapper{
		report:  report,
		baseDir: baseDir,
	}
}

// mapToRun populates the SARIF run with rules, results, invocation and properties.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addInvocation(run)
	m.addProperties(run)
}

func (m *sarifMapper) addRules(run *sarif.Run) {
	rules := []struct {
		id, name, desc, level string
	}{
		{sarifRuleError, "LintError", "Profile structure problem that fails the check", "error"},
		{sarifRuleWarning, "LintWarning", "Profile style or convention problem", "warning"},
	}

	for _, r := range rules {
		desc := r.desc
		rule := sarif.NewReportingDescriptor().WithID(r.id)
		rule.WithName(r.name)
		rule.WithShortDescription(&sarif.MultiformatMessageString{
			Text: &desc,
		})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: r.level,
		})
		run.Tool.Driver.AddRule(rule)
	}
}

func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, d := range m.report.Errors {
		run.AddResult(m.mapDiagnostic(d, sarifRuleError, "error"))
	}
	for _, d := range m.report.Warnings {
		run.AddResult(m.mapDiagnostic(d, sarifRuleWarning, "warning"))
	}
}

func (m *sarifMapper) mapDiagnostic(d entities.Diagnostic, ruleID, level string) *sarif.Result {
	result := sarif.NewRuleResult(ruleID)
	result.Level = level
	result.Message = sarif.NewTextMessage(d.Message)

	if loc := m.createLocation(d); loc != nil {
		result.Locations = []*sarif.Location{loc}
	}

	if d.ControlID != "" {
		props := sarif.NewPropertyBag()
		props.Add("controlId", d.ControlID)
		result.WithProperties(props)
	}

	return result
}

func (m *sarifMapper) createLocation(d entities.Diagnostic) *sarif.Location {
	if d.File == "" {
		return nil
	}

	pLoc := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(d.File)))

	if d.Line > 0 {
		region := sarif.NewRegion().WithStartLine(d.Line)
		if d.Column > 0 {
			region.WithStartColumn(d.Column)
		}
		pLoc.WithRegion(region)
	}

	return sarif.NewLocation().WithPhysicalLocation(pLoc)
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path) // Fallback to original
	}

	if m.baseDir != "" {
		if rel, err := filepath.Rel(m.baseDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	return "file://" + filepath.ToSlash(abs)
}

func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()

	valid := m.report.Summary.Valid
	invocation.ExecutionSuccessful = &valid

	timestamp := m.report.Summary.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z")
	invocation.StartTimeUtc = &timestamp

	props := sarif.NewPropertyBag()
	props.Add("profile", m.report.Summary.Profile)
	props.Add("location", m.report.Summary.Location)
	props.Add("reportId", m.report.ID.String())
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

func (m *sarifMapper) addProperties(run *sarif.Run) {
	props := sarif.NewPropertyBag()
	props.Add("summary", m.report.Summary)
	run.WithProperties(props)
}
