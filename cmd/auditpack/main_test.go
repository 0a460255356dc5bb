package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sshControls = `title: SSH
controls:
  - id: ssh-01
    title: Disable root login
    desc: PermitRootLogin must be no
    impact: 0.9
    checks:
      - file: /etc/ssh/sshd_config
  - id: ssh-02
    title: Protocol 2
    desc: Only protocol 2
    impact: 0.3
    checks:
      - file: /etc/ssh/sshd_config
`

func writeProfile(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	return root
}

func validProfile(t *testing.T) string {
	return writeProfile(t, map[string]string{
		"profile.yaml":      "name: My Profile!\nversion: 1.0.0\n",
		"controls/ssh.yaml": sshControls,
	})
}

// runCLI executes the command tree with an isolated home directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func Test_CheckCmd_Valid(t *testing.T) {
	root := validProfile(t)

	out, err := runCLI(t, "check", root, "--format", "json")
	require.NoError(t, err)

	var report struct {
		Summary struct {
			Valid    bool   `json:"valid"`
			Profile  string `json:"profile"`
			Controls int    `json:"controls"`
		} `json:"summary"`
		Warnings []interface{} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Summary.Valid)
	assert.Equal(t, "My Profile!", report.Summary.Profile)
	assert.Equal(t, 2, report.Summary.Controls)
	assert.Empty(t, report.Warnings)
}

func Test_CheckCmd_Invalid(t *testing.T) {
	root := writeProfile(t, map[string]string{
		"profile.yaml":    "name: broken\n",
		"controls/a.yaml": "controls:\n  - title: nameless\n",
	})

	out, err := runCLI(t, "check", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
	assert.Contains(t, out, "avoid empty control ids")
}

func Test_CheckCmd_Strict(t *testing.T) {
	root := writeProfile(t, map[string]string{"profile.yaml": "name: empty\n"})

	_, err := runCLI(t, "check", root)
	require.NoError(t, err, "warnings alone pass")

	_, err = runCLI(t, "check", root, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict")
}

func Test_CheckCmd_OutputFile(t *testing.T) {
	root := validProfile(t)
	outFile := filepath.Join(t.TempDir(), "report.sarif")

	out, err := runCLI(t, "check", root, "--format", "sarif", "-o", outFile)
	require.NoError(t, err)
	assert.Empty(t, out)

	body, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"version"`)
}

func Test_CheckCmd_FormatFromEnv(t *testing.T) {
	root := validProfile(t)
	t.Setenv("AUDITPACK_OUTPUT_FORMAT", "yaml")

	out, err := runCLI(t, "check", root)
	require.NoError(t, err)
	assert.Contains(t, out, "summary:")
}

func Test_CheckCmd_InvalidFormat(t *testing.T) {
	_, err := runCLI(t, "check", validProfile(t), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func Test_CheckCmd_NotADirectory(t *testing.T) {
	_, err := runCLI(t, "check", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func Test_InfoCmd(t *testing.T) {
	root := validProfile(t)

	out, err := runCLI(t, "info", root, "--format", "json", "--filter", "impact >= 0.7")
	require.NoError(t, err)

	var info struct {
		Groups map[string]struct {
			Title string                            `json:"title"`
			Rules map[string]map[string]interface{} `json:"rules"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	group := info.Groups["controls/ssh.yaml"]
	assert.Equal(t, "SSH", group.Title)
	assert.Contains(t, group.Rules, "ssh-01")
	assert.NotContains(t, group.Rules, "ssh-02")
}

func Test_InfoCmd_Table(t *testing.T) {
	out, err := runCLI(t, "info", validProfile(t), "--id", "renamed")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile: renamed (v1.0.0)")
	assert.Contains(t, out, "ssh-02")
}

func Test_ArchiveCmd(t *testing.T) {
	root := validProfile(t)
	outDir := t.TempDir()

	out, err := runCLI(t, "archive", root, "--zip", "--output-dir", outDir)
	require.NoError(t, err)

	dest := filepath.Join(outDir, "my-profile_.zip")
	assert.Equal(t, dest+"\n", out)
	assert.FileExists(t, dest)

	_, err = runCLI(t, "archive", root, "--zip", "--output-dir", outDir)
	assert.ErrorIs(t, err, errArchiveSkipped)

	_, err = runCLI(t, "archive", root, "--zip", "--output-dir", outDir, "--overwrite")
	assert.NoError(t, err)
}

func Test_ArchiveCmd_FormatFromConfig(t *testing.T) {
	root := validProfile(t)
	outDir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("archive:\n  format: zip\n  output_dir: "+outDir+"\n"), 0o600))

	_, err := runCLI(t, "--config", cfg, "archive", root)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "my-profile_.zip"))
}

func Test_ArchiveCmd_FailingCheck(t *testing.T) {
	root := writeProfile(t, map[string]string{
		"profile.yaml":    "name: broken\n",
		"controls/a.yaml": "controls:\n  - title: nameless\n",
	})
	outDir := t.TempDir()

	_, err := runCLI(t, "archive", root, "--output-dir", outDir)
	assert.ErrorIs(t, err, errArchiveSkipped)
	assert.NoFileExists(t, filepath.Join(outDir, "broken.tar.gz"))

	_, err = runCLI(t, "archive", root, "--output-dir", outDir, "--ignore-errors")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "broken.tar.gz"))
}

func Test_ArchiveCmd_InteractiveConfirm(t *testing.T) {
	root := validProfile(t)
	outDir := t.TempDir()
	dest := filepath.Join(outDir, "my-profile_.tar.gz")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o600))

	origConfirm, origTTY := confirmOverwrite, stdinIsTerminal
	t.Cleanup(func() { confirmOverwrite, stdinIsTerminal = origConfirm, origTTY })
	stdinIsTerminal = func() bool { return true }

	var asked string
	confirmOverwrite = func(path string) (bool, error) {
		asked = path
		return true, nil
	}

	_, err := runCLI(t, "archive", root, "--output-dir", outDir, "-i")
	require.NoError(t, err)
	assert.Equal(t, dest, asked)

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(body))
}

func Test_ArchiveCmd_ZipAndTarExclusive(t *testing.T) {
	_, err := runCLI(t, "archive", validProfile(t), "--zip", "--tar")
	assert.Error(t, err)
}

func Test_VersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "auditpack version dev")
}

func Test_RootCmd_InvalidLogFormat(t *testing.T) {
	_, err := runCLI(t, "--log-format", "xml", "version")
	assert.Error(t, err)
}
