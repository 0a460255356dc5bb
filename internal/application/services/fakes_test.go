package services

import (
	"context"
	"os"
	"strings"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
)

type fakeResolver struct {
	meta *entities.Metadata
	err  error
	dirs []string
}

func (f *fakeResolver) Resolve(_ context.Context, dir string) (*entities.Metadata, error) {
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return nil, f.err
	}
	meta := *f.meta
	return &meta, nil
}

type fakeDiscovery struct {
	rules []*entities.Rule
	err   error
	opts  dto.DiscoveryOptions
}

func (f *fakeDiscovery) Discover(_ context.Context, _ string, opts dto.DiscoveryOptions) ([]*entities.Rule, error) {
	f.opts = opts
	return f.rules, f.err
}

// fakeCodec writes the manifest, one path per line, instead of an archive.
type fakeCodec struct {
	ext      string
	err      error
	calls    int
	manifest entities.Manifest
}

func (f *fakeCodec) Extension() string { return f.ext }

func (f *fakeCodec) Write(_ context.Context, _ string, manifest entities.Manifest, dest string) error {
	f.calls++
	f.manifest = manifest
	if err := os.WriteFile(dest, []byte(strings.Join(manifest, "\n")), 0o600); err != nil {
		return err
	}
	return f.err
}
