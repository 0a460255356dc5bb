// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/infrastructure/system"
)

// MetadataResolver locates and parses a profile's metadata file.
// A missing canonical file is not an error; malformed content is.
type MetadataResolver interface {
	Resolve(ctx context.Context, profileDir string) (*entities.Metadata, error)
}

// RuleDiscovery scans a profile for rule definitions.
// Every returned rule carries its source file and group title when known.
type RuleDiscovery interface {
	Discover(ctx context.Context, profileDir string, opts dto.DiscoveryOptions) ([]*entities.Rule, error)
}

// ArchiveCodec writes the files of a manifest into a single archive.
type ArchiveCodec interface {
	// Extension returns the archive file extension without a leading dot.
	Extension() string
	// Write creates dest from the manifest entries relative to root.
	Write(ctx context.Context, root string, manifest entities.Manifest, dest string) error
}

// ReportFormatter formats lint reports.
type ReportFormatter interface {
	Format(report *entities.LintReport) error
}

// InfoFormatter formats profile info views.
type InfoFormatter interface {
	FormatInfo(info *entities.ProfileInfo) error
}

// SystemConfigProvider loads system configuration.
type SystemConfigProvider interface {
	LoadConfig(ctx context.Context, path string) (*system.Config, error)
}
