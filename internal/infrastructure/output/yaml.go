package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
)

// YAMLFormatter writes reports and info views as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the lint report as YAML.
func (f *YAMLFormatter) Format(report *entities.LintReport) error {
	return f.encode(report)
}

// FormatInfo writes the info view as YAML.
func (f *YAMLFormatter) FormatInfo(info *entities.ProfileInfo) error {
	return f.encode(info)
}

func (f *YAMLFormatter) encode(v interface{}) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
