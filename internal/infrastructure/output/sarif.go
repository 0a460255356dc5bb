package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/version"
)

// SARIFFormatter writes lint reports as SARIF 2.1.0 JSON.
// Errors and warnings map to results of two lint rules; diagnostic
// files become result locations.
//
// Usage:
//
//	formatter := output.NewSARIFFormatter(os.Stdout, "")
//	if err := formatter.Format(report); err != nil {
//	    return err
//	}
type SARIFFormatter struct {
	writer  io.Writer
	baseDir string
}

// NewSARIFFormatter creates a new SARIF formatter.
// baseDir is used to relativize file locations; empty means the working directory.
func NewSARIFFormatter(writer io.Writer, baseDir string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:  writer,
		baseDir: baseDir,
	}
}

// Format writes the lint report as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(report *entities.LintReport) error {
	sarifReport := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("auditpack", "https://github.com/reglet-dev/auditpack")
	toolVersion := version.Get().Version
	run.Tool.Driver.Version = &toolVersion

	mapper := newSARIFMapper(report, f.baseDir)
	mapper.mapToRun(run)

	sarifReport.AddRun(run)

	if err := sarifReport.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}
