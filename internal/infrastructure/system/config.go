// Package system provides infrastructure for system-level configuration.
// This covers the user config file (~/.auditpack/config.yaml), which holds
// defaults for archive and output flags.
package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// Config represents the global configuration file (~/.auditpack/config.yaml).
// It is separate from profile metadata.
type Config struct {
	Archive ArchiveConfig `yaml:"archive"`
	Output  OutputConfig  `yaml:"output"`
}

// ArchiveConfig holds defaults for the archive command.
type ArchiveConfig struct {
	// OutputDir receives archives. Empty means the working directory.
	OutputDir string `yaml:"output_dir"`
	// Format is "zip" or "tar.gz".
	Format string `yaml:"format"`
}

// OutputConfig holds defaults for report and info output.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// ArchiveFormat returns the configured archive format, defaulting to tar.gz.
func (c *ArchiveConfig) ArchiveFormat() values.ArchiveFormat {
	if format, ok := values.ParseArchiveFormat(c.Format); ok {
		return format
	}
	return values.ArchiveFormatTarGz
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with defaults for all fields.
// This is used when no system config file exists.
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Format: string(values.ArchiveFormatTarGz),
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// DefaultConfigPath returns ~/.auditpack/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".auditpack", "config.yaml"), nil
}

// Load loads the system configuration from the specified path.
// If the file does not exist, returns DefaultConfig(). Fields missing from
// the file keep their defaults.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	if config.Archive.Format != "" {
		if _, ok := values.ParseArchiveFormat(config.Archive.Format); !ok {
			return nil, fmt.Errorf("invalid archive.format %q in %s (expected zip or tar.gz)", config.Archive.Format, path)
		}
	}

	return config, nil
}
