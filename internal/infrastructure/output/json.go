package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
)

// JSONFormatter writes reports and info views as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// Format writes the lint report as JSON.
func (f *JSONFormatter) Format(report *entities.LintReport) error {
	return f.write(report)
}

// FormatInfo writes the info view as JSON.
func (f *JSONFormatter) FormatInfo(info *entities.ProfileInfo) error {
	return f.write(info)
}

func (f *JSONFormatter) write(v interface{}) error {
	var data []byte
	var err error

	if f.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	if _, err := f.writer.Write(data); err != nil {
		return err
	}

	// Add newline for better terminal output
	_, err = f.writer.Write([]byte("\n"))
	return err
}
