package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" logfmt ", FormatLogfmt, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownLogFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, false, "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("profile loaded", "controls", 3)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "profile loaded", record["msg"])
	assert.EqualValues(t, 3, record["controls"])
}

func TestNewLogger_TextVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, true, "text")
	require.NoError(t, err)

	logger.Debug("resolving metadata", "path", "/p")

	assert.Contains(t, buf.String(), "resolving metadata")
	assert.Contains(t, buf.String(), "/p")
}

func TestNewLogger_TextFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, false, "text")
	require.NoError(t, err)

	logger.Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level(true))
	assert.Equal(t, slog.LevelInfo, Level(false))
}
