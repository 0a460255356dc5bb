// Package adapters provides infrastructure adapters that implement application ports.
// These adapters wrap existing infrastructure components to satisfy port interfaces.
package adapters

import (
	"context"

	"github.com/reglet-dev/auditpack/internal/application/ports"
	"github.com/reglet-dev/auditpack/internal/infrastructure/system"
)

var _ ports.SystemConfigProvider = (*SystemConfigAdapter)(nil)

// SystemConfigAdapter adapts system config loader to port interface.
type SystemConfigAdapter struct {
	loader *system.ConfigLoader
}

// NewSystemConfigAdapter creates a new system config adapter.
func NewSystemConfigAdapter() *SystemConfigAdapter {
	return &SystemConfigAdapter{
		loader: system.NewConfigLoader(),
	}
}

// LoadConfig loads system configuration from path, or from
// ~/.auditpack/config.yaml when path is empty.
func (a *SystemConfigAdapter) LoadConfig(_ context.Context, path string) (*system.Config, error) {
	if path == "" {
		defaultPath, err := system.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	return a.loader.Load(path)
}
