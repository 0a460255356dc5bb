// Package services contains application use cases.
package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	apperrors "github.com/reglet-dev/auditpack/internal/application/errors"
	"github.com/reglet-dev/auditpack/internal/application/ports"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/services"
)

// Directory conventions for control files.
const (
	ControlsDir       = "controls"
	LegacyControlsDir = "test"
)

// ProfileAggregator builds the profile data model from metadata and
// discovered rules. It depends only on ports.
type ProfileAggregator struct {
	resolver  ports.MetadataResolver
	discovery ports.RuleDiscovery
	logger    *slog.Logger
}

// NewProfileAggregator creates a new profile aggregator.
func NewProfileAggregator(
	resolver ports.MetadataResolver,
	discovery ports.RuleDiscovery,
	logger *slog.Logger,
) *ProfileAggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProfileAggregator{
		resolver:  resolver,
		discovery: discovery,
		logger:    logger,
	}
}

// Load aggregates the profile rooted at path.
// Every call returns an independent profile; nothing is cached.
func (a *ProfileAggregator) Load(ctx context.Context, path string, opts dto.LoadOptions) (*entities.Profile, error) {
	root, err := a.validateRoot(path)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("resolving metadata", "path", root)
	meta, err := a.resolver.Resolve(ctx, root)
	if err != nil {
		return nil, apperrors.NewMetadataError(root, err)
	}

	params := services.CopyParams(meta.Params)
	if params == nil {
		params = make(map[string]interface{})
	}
	// the metadata name is already in place; keep its decoded type
	if opts.ID != "" {
		params[entities.MetadataNameKey] = opts.ID
	}
	meta.Params = params

	profile := entities.NewProfile(root, *meta)
	profile.Layout = inspectLayout(root)

	rules, err := a.discovery.Discover(ctx, root, opts.Discovery)
	if err != nil {
		return nil, apperrors.NewDiscoveryError(root, err)
	}
	for _, rule := range rules {
		profile.AddRule(rule)
	}

	name, _ := profile.Name()
	a.logger.Info("profile loaded",
		"name", name,
		"path", root,
		"groups", len(profile.Groups),
		"controls", profile.RulesCount())

	return profile, nil
}

// Info returns the display view of a loaded profile.
func (a *ProfileAggregator) Info(profile *entities.Profile, req dto.InfoRequest) (*entities.ProfileInfo, error) {
	var filter services.RuleSpecification
	if req.Filter != "" {
		compiled, err := services.CompileRuleFilter(req.Filter)
		if err != nil {
			return nil, err
		}
		filter = compiled
	}
	return services.BuildProfileInfo(profile, filter)
}

func (a *ProfileAggregator) validateRoot(path string) (string, error) {
	if path == "" {
		return "", apperrors.NewConfigError("", "empty path", nil)
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.NewConfigError(path, "cannot resolve path", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", apperrors.NewConfigError(path, "not a directory", err)
	}
	if !info.IsDir() {
		return "", apperrors.NewConfigError(path, "not a directory", nil)
	}
	return root, nil
}

func inspectLayout(root string) entities.Layout {
	layout := entities.Layout{
		HasControlsDir: isDir(filepath.Join(root, ControlsDir)),
	}
	legacy := filepath.Join(root, LegacyControlsDir)
	if isDir(legacy) {
		layout.HasLegacyControlsDir = true
		layout.LegacyControlsDir = legacy
	}
	return layout
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
