// Package dto contains data transfer objects for application layer use cases.
package dto

import "github.com/reglet-dev/auditpack/internal/domain/values"

// LoadOptions controls how a profile is aggregated.
type LoadOptions struct {
	// ID overrides the profile name from metadata.
	ID        string
	Discovery DiscoveryOptions
}

// DiscoveryOptions are passed through to rule discovery untouched.
type DiscoveryOptions struct {
	// Controls restricts discovery to these control ids. Empty means all.
	Controls []string
}

// ArchiveOptions controls packaging.
type ArchiveOptions struct {
	// OutputDir receives the archive. Empty means the working directory.
	OutputDir    string
	Zip          bool
	Overwrite    bool
	IgnoreErrors bool
}

// Format returns the archive format selected by the options.
func (o ArchiveOptions) Format() values.ArchiveFormat {
	if o.Zip {
		return values.ArchiveFormatZip
	}
	return values.ArchiveFormatTarGz
}

// InfoRequest encapsulates inputs for the info view.
type InfoRequest struct {
	// Filter is an optional expr expression evaluated per rule.
	Filter string
}
