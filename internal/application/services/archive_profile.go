package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	apperrors "github.com/reglet-dev/auditpack/internal/application/errors"
	"github.com/reglet-dev/auditpack/internal/application/ports"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// ArchivePackager packages a profile's file tree, gated on a passing check.
//
// Two outcomes return (false, nil): a failed check without IgnoreErrors and
// an existing destination without Overwrite. Codec failures are returned as
// *apperrors.ArchiveError.
//
// The destination is derived from the profile name only, so two profiles
// with the same name archived into the same directory at the same time
// will collide. Callers that parallelize must serialize per destination.
type ArchivePackager struct {
	checker *CheckProfileUseCase
	codecs  map[values.ArchiveFormat]ports.ArchiveCodec
	logger  *slog.Logger
	getwd   func() (string, error)
}

// NewArchivePackager creates a packager with one codec per archive format.
func NewArchivePackager(
	checker *CheckProfileUseCase,
	codecs map[values.ArchiveFormat]ports.ArchiveCodec,
	logger *slog.Logger,
) *ArchivePackager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ArchivePackager{
		checker: checker,
		codecs:  codecs,
		logger:  logger,
		getwd:   os.Getwd,
	}
}

// Archive checks and packages the profile.
func (p *ArchivePackager) Archive(ctx context.Context, profile *entities.Profile, opts dto.ArchiveOptions) (bool, error) {
	passed, report := p.checker.Execute(profile)
	if !passed && !opts.IgnoreErrors {
		p.logger.Info("profile check failed, not archiving (use ignore-errors to override)",
			"errors", len(report.Errors))
		return false, nil
	}

	format := opts.Format()
	codec, ok := p.codecs[format]
	if !ok {
		return false, apperrors.NewArchiveError("", fmt.Errorf("no codec registered for %s", format))
	}

	dest, err := p.Destination(profile, opts)
	if err != nil {
		return false, err
	}

	if _, statErr := os.Stat(dest); statErr == nil {
		if !opts.Overwrite {
			p.logger.Info("archive already exists, not overwriting (use overwrite to replace)", "path", dest)
			return false, nil
		}
		p.logger.Info("removing existing archive", "path", dest)
		if err := os.Remove(dest); err != nil {
			return false, apperrors.NewArchiveError(dest, fmt.Errorf("failed to remove existing archive: %w", err))
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return false, apperrors.NewArchiveError(dest, statErr)
	}

	manifest, err := BuildManifest(profile.Root, dest)
	if err != nil {
		return false, apperrors.NewArchiveError(dest, err)
	}
	p.logger.Debug("archive manifest", "files", len(manifest))

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return false, apperrors.NewArchiveError(dest, fmt.Errorf("failed to create output directory: %w", err))
	}

	p.logger.Info("generating archive", "path", dest, "format", format)
	if err := codec.Write(ctx, profile.Root, manifest, dest); err != nil {
		_ = os.Remove(dest) // Best-effort cleanup of partial output
		return false, apperrors.NewArchiveError(dest, err)
	}

	p.logger.Info("finished archive generation", "path", dest, "files", len(manifest))
	return true, nil
}

// Destination returns the absolute archive path for the profile.
// A profile without a name falls back to its directory name.
func (p *ArchivePackager) Destination(profile *entities.Profile, opts dto.ArchiveOptions) (string, error) {
	dir := opts.OutputDir
	if dir == "" {
		wd, err := p.getwd()
		if err != nil {
			return "", apperrors.NewConfigError("", "cannot determine working directory", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", apperrors.NewConfigError(opts.OutputDir, "cannot resolve output directory", err)
	}

	name, ok := profile.Name()
	if !ok {
		name = filepath.Base(profile.Root)
	}
	return filepath.Join(dir, values.ArchiveFileName(name, opts.Format())), nil
}

// BuildManifest lists every regular file below root as a slash-separated
// path relative to root, in lexical walk order. exclude is skipped so an
// archive written inside the profile never packages itself.
func BuildManifest(root, exclude string) (entities.Manifest, error) {
	manifest := entities.Manifest{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if path == exclude {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		manifest = append(manifest, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk profile: %w", err)
	}
	return manifest, nil
}
