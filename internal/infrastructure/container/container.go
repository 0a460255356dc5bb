// Package container provides dependency injection for the application.
package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/auditpack/internal/application/services"
	domainservices "github.com/reglet-dev/auditpack/internal/domain/services"
	"github.com/reglet-dev/auditpack/internal/infrastructure/adapters"
	"github.com/reglet-dev/auditpack/internal/infrastructure/archive"
	"github.com/reglet-dev/auditpack/internal/infrastructure/config"
	"github.com/reglet-dev/auditpack/internal/infrastructure/output"
	"github.com/reglet-dev/auditpack/internal/infrastructure/system"
)

// Container holds all application dependencies.
type Container struct {
	aggregator          *services.ProfileAggregator
	checkProfileUseCase *services.CheckProfileUseCase
	archivePackager     *services.ArchivePackager
	formatters          *output.FormatterFactory
	systemCfg           *system.Config
	logger              *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger           *slog.Logger
	SystemConfigPath string
}

// New creates a new dependency injection container.
func New(ctx context.Context, opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	systemCfg, err := adapters.NewSystemConfigAdapter().LoadConfig(ctx, opts.SystemConfigPath)
	if err != nil {
		if opts.SystemConfigPath != "" {
			// an explicitly requested file must load
			return nil, err
		}
		opts.Logger.Debug("failed to load system config, using defaults", "error", err)
		systemCfg = system.DefaultConfig()
	}

	resolver, err := config.NewMetadataResolver(opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata resolver: %w", err)
	}
	discovery := config.NewRuleDiscovery(opts.Logger)

	linter := domainservices.NewProfileLinter(opts.Logger)
	checkProfileUseCase := services.NewCheckProfileUseCase(linter, opts.Logger)

	return &Container{
		aggregator:          services.NewProfileAggregator(resolver, discovery, opts.Logger),
		checkProfileUseCase: checkProfileUseCase,
		archivePackager:     services.NewArchivePackager(checkProfileUseCase, archive.Codecs(), opts.Logger),
		formatters:          output.NewFormatterFactory(),
		systemCfg:           systemCfg,
		logger:              opts.Logger,
	}, nil
}

// ProfileAggregator returns the profile aggregator.
func (c *Container) ProfileAggregator() *services.ProfileAggregator {
	return c.aggregator
}

// CheckProfileUseCase returns the check profile use case.
func (c *Container) CheckProfileUseCase() *services.CheckProfileUseCase {
	return c.checkProfileUseCase
}

// ArchivePackager returns the archive packager.
func (c *Container) ArchivePackager() *services.ArchivePackager {
	return c.archivePackager
}

// Formatters returns the output formatter factory.
func (c *Container) Formatters() *output.FormatterFactory {
	return c.formatters
}

// SystemConfig returns the system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
