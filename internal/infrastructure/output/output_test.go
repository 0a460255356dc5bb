package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReport() *entities.LintReport {
	report := entities.NewLintReport("/profiles/demo", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	report.Summary.Profile = "demo"
	report.Summary.Controls = 2
	report.Errors = append(report.Errors, entities.Diagnostic{
		File: "/profiles/demo/controls/a.yaml", Line: 3, Message: "avoid empty control ids",
	})
	report.Warnings = append(report.Warnings, entities.Diagnostic{
		File: "/profiles/demo/controls/a.yaml", Line: 9, ControlID: "ssh-02", Message: "control ssh-02 has no description",
	}, entities.Diagnostic{
		File: "/profiles/demo/metadata.toml", Message: "deprecated metadata format",
	})
	return report
}

func createTestInfo() *entities.ProfileInfo {
	return &entities.ProfileInfo{
		Metadata: map[string]interface{}{"name": "demo", "version": "1.0.0"},
		Groups: map[string]entities.GroupInfo{
			"controls/ssh.yaml": {
				Title: "SSH",
				Rules: map[string]entities.RuleSummary{
					"ssh-02": {ID: "ssh-02", Title: "Protocol", Impact: 0.5, Severity: "medium"},
					"ssh-01": {ID: "ssh-01", Title: "Root login", Impact: 1, Severity: "critical",
						Source: &entities.SourceLocation{File: "/profiles/demo/controls/ssh.yaml", Line: 3}},
				},
			},
		},
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, NewJSONFormatter(&buf, true).Format(createTestReport()))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	summary := raw["summary"].(map[string]interface{})
	assert.Equal(t, false, summary["valid"])
	assert.Equal(t, "demo", summary["profile"])
	assert.Equal(t, "/profiles/demo", summary["location"])
	assert.EqualValues(t, 2, summary["controls"])
	assert.Contains(t, summary, "timestamp")

	errs := raw["errors"].([]interface{})
	require.Len(t, errs, 1)
	diag := errs[0].(map[string]interface{})
	for _, key := range []string{"file", "line", "column", "control_id", "msg"} {
		assert.Contains(t, diag, key)
	}
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestJSONFormatter_EmptyDiagnosticsAreArrays(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	report := entities.NewLintReport("/p", time.Now())
	require.NoError(t, NewJSONFormatter(&buf, false).Format(report))

	assert.Contains(t, buf.String(), `"errors":[]`)
	assert.Contains(t, buf.String(), `"warnings":[]`)
}

func TestJSONFormatter_FormatInfo(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, NewJSONFormatter(&buf, false).FormatInfo(createTestInfo()))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	groups := raw["groups"].(map[string]interface{})
	group := groups["controls/ssh.yaml"].(map[string]interface{})
	assert.Equal(t, "SSH", group["title"])
	rule := group["rules"].(map[string]interface{})["ssh-01"].(map[string]interface{})
	assert.Equal(t, "Root login", rule["title"])
	assert.Contains(t, rule, "desc")
	assert.Contains(t, rule, "source_location")
	assert.NotContains(t, rule, "checks")
}

func TestYAMLFormatter_Format(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, NewYAMLFormatter(&buf).Format(createTestReport()))

	var decoded struct {
		Summary struct {
			Valid   bool   `yaml:"valid"`
			Profile string `yaml:"profile"`
		} `yaml:"summary"`
		Warnings []struct {
			ControlID string `yaml:"control_id"`
			Msg       string `yaml:"msg"`
		} `yaml:"warnings"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.False(t, decoded.Summary.Valid)
	assert.Equal(t, "demo", decoded.Summary.Profile)
	require.Len(t, decoded.Warnings, 2)
	assert.Equal(t, "ssh-02", decoded.Warnings[0].ControlID)
}

func TestYAMLFormatter_FormatInfo(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, NewYAMLFormatter(&buf).FormatInfo(createTestInfo()))

	assert.Contains(t, buf.String(), "controls/ssh.yaml:")
	assert.Contains(t, buf.String(), "title: SSH")
}

func TestTableFormatter_Format(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, NewTableFormatter(&buf, false).Format(createTestReport()))
	out := buf.String()

	assert.Contains(t, out, "Profile:  demo")
	assert.Contains(t, out, "✗ avoid empty control ids")
	assert.Contains(t, out, "at /profiles/demo/controls/a.yaml:3")
	assert.Contains(t, out, "control: ssh-02")
	assert.Contains(t, out, "at /profiles/demo/metadata.toml\n")
	assert.Contains(t, out, "Result:   ✗ invalid")
	assert.NotContains(t, out, "\033[", "color disabled")
}

func TestTableFormatter_Format_Valid(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	report := entities.NewLintReport("/p", time.Now())
	report.Summary.Valid = true
	require.NoError(t, NewTableFormatter(&buf, true).Format(report))

	assert.Contains(t, buf.String(), "(unnamed)")
	assert.Contains(t, buf.String(), "✓ valid")
	assert.NotContains(t, buf.String(), "Errors:\n")
}

func TestTableFormatter_FormatInfo(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, NewTableFormatter(&buf, false).FormatInfo(createTestInfo()))
	out := buf.String()

	assert.Contains(t, out, "Profile: demo (v1.0.0)")
	assert.Contains(t, out, "Controls: 2 in 1 files")
	assert.Contains(t, out, "controls/ssh.yaml (SSH)")
	assert.Less(t, strings.Index(out, "ssh-01"), strings.Index(out, "ssh-02"), "rules are sorted")
	assert.Contains(t, out, "[critical 1.00]")
}

func TestTableFormatter_FormatInfo_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	info := &entities.ProfileInfo{Metadata: map[string]interface{}{}, Groups: map[string]entities.GroupInfo{}}
	require.NoError(t, NewTableFormatter(&buf, false).FormatInfo(info))

	assert.Contains(t, buf.String(), "No controls defined.")
}
