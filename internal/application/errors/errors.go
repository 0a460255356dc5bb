// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
)

// ConfigError indicates the profile path itself is unusable.
type ConfigError struct {
	Cause   error
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	if e.Path == "" {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Path, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(path, message string, cause error) *ConfigError {
	return &ConfigError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// MetadataError indicates the metadata resolver failed.
type MetadataError struct {
	Cause error
	Dir   string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata error (%s): %v", e.Dir, e.Cause)
}

func (e *MetadataError) Unwrap() error {
	return e.Cause
}

// NewMetadataError creates a new metadata error.
func NewMetadataError(dir string, cause error) *MetadataError {
	return &MetadataError{Dir: dir, Cause: cause}
}

// DiscoveryError indicates rule discovery failed.
type DiscoveryError struct {
	Cause error
	Dir   string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("rule discovery error (%s): %v", e.Dir, e.Cause)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// NewDiscoveryError creates a new discovery error.
func NewDiscoveryError(dir string, cause error) *DiscoveryError {
	return &DiscoveryError{Dir: dir, Cause: cause}
}

// ArchiveError indicates the archive codec failed. It is never downgraded
// to a plain false result.
type ArchiveError struct {
	Cause       error
	Destination string
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive error (%s): %v", e.Destination, e.Cause)
}

func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// NewArchiveError creates a new archive error.
func NewArchiveError(destination string, cause error) *ArchiveError {
	return &ArchiveError{Destination: destination, Cause: cause}
}
