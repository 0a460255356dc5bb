package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	apperrors "github.com/reglet-dev/auditpack/internal/application/errors"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator(meta *entities.Metadata, rules []*entities.Rule) (*ProfileAggregator, *fakeResolver, *fakeDiscovery) {
	resolver := &fakeResolver{meta: meta}
	discovery := &fakeDiscovery{rules: rules}
	return NewProfileAggregator(resolver, discovery, nil), resolver, discovery
}

func namedMeta(name string) *entities.Metadata {
	params := map[string]interface{}{"version": "1.0.0"}
	if name != "" {
		params["name"] = name
	}
	return &entities.Metadata{Params: params, Valid: true}
}

func src(file string, line int) *entities.SourceLocation {
	return &entities.SourceLocation{File: file, Line: line}
}

func Test_ProfileAggregator_Load_InvalidPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: x\n"), 0o600))

	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"empty", "", "empty path"},
		{"missing", filepath.Join(dir, "missing"), "not a directory"},
		{"file", file, "not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, resolver, _ := newAggregator(namedMeta("x"), nil)

			_, err := agg.Load(context.Background(), tt.path, dto.LoadOptions{})

			var cfgErr *apperrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.message, cfgErr.Message)
			assert.Empty(t, resolver.dirs, "resolver must not run")
		})
	}
}

func Test_ProfileAggregator_Load_MetadataError(t *testing.T) {
	agg, resolver, _ := newAggregator(nil, nil)
	resolver.err = errors.New("bad yaml")

	_, err := agg.Load(context.Background(), t.TempDir(), dto.LoadOptions{})

	var metaErr *apperrors.MetadataError
	require.ErrorAs(t, err, &metaErr)
	assert.EqualError(t, metaErr.Cause, "bad yaml")
}

func Test_ProfileAggregator_Load_DiscoveryError(t *testing.T) {
	agg, _, discovery := newAggregator(namedMeta("x"), nil)
	discovery.err = errors.New("unreadable")

	_, err := agg.Load(context.Background(), t.TempDir(), dto.LoadOptions{})

	var discErr *apperrors.DiscoveryError
	require.ErrorAs(t, err, &discErr)
}

func Test_ProfileAggregator_Load_ResolvesID(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		metaName string
		want     interface{}
		present  bool
	}{
		{"explicit wins", "override", "from-meta", "override", true},
		{"metadata name", "", "from-meta", "from-meta", true},
		{"absent", "", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, _, _ := newAggregator(namedMeta(tt.metaName), nil)

			profile, err := agg.Load(context.Background(), t.TempDir(), dto.LoadOptions{ID: tt.explicit})
			require.NoError(t, err)

			got, ok := profile.Metadata.Params["name"]
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_ProfileAggregator_Load_NumericName(t *testing.T) {
	meta := &entities.Metadata{Params: map[string]interface{}{"name": uint64(42)}}
	agg, _, _ := newAggregator(meta, nil)

	profile, err := agg.Load(context.Background(), t.TempDir(), dto.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, uint64(42), profile.Metadata.Params["name"])
	name, ok := profile.Name()
	assert.True(t, ok)
	assert.Equal(t, "42", name)
}

func Test_ProfileAggregator_Load_DoesNotMutateResolverParams(t *testing.T) {
	meta := namedMeta("from-meta")
	agg, _, _ := newAggregator(meta, nil)

	_, err := agg.Load(context.Background(), t.TempDir(), dto.LoadOptions{ID: "override"})
	require.NoError(t, err)

	assert.Equal(t, "from-meta", meta.Params["name"])
}

func Test_ProfileAggregator_Load_BucketsRules(t *testing.T) {
	root := t.TempDir()
	one := filepath.Join(root, "controls", "one.yaml")
	two := filepath.Join(root, "controls", "two.yaml")

	rules := []*entities.Rule{
		{ID: "a", Source: src(one, 1)},
		{ID: "b", Source: src(one, 5)},
		{ID: "a", Title: "replaced", Source: src(one, 9)},
		{ID: "a", Source: src(two, 1)},
		{ID: "loose"},
	}
	agg, _, discovery := newAggregator(namedMeta("x"), rules)

	profile, err := agg.Load(context.Background(), root, dto.LoadOptions{
		Discovery: dto.DiscoveryOptions{Controls: []string{"a"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, discovery.opts.Controls, "options pass through")
	assert.Equal(t, 4, profile.RulesCount())
	assert.Len(t, profile.Groups[one], 2)
	assert.Equal(t, "replaced", profile.Groups[one]["a"].Title)
	assert.Len(t, profile.Groups[entities.RootGroupKey], 1)
}

func Test_ProfileAggregator_Load_RulesCountAcrossBatches(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "controls", "x.yaml")
	agg, _, discovery := newAggregator(namedMeta("x"), []*entities.Rule{
		{ID: "a", Source: src(file, 1)},
		{ID: "b", Source: src(file, 2)},
	})

	profile, err := agg.Load(context.Background(), root, dto.LoadOptions{})
	require.NoError(t, err)

	// a second discovery batch with an overlapping id
	discovery.rules = []*entities.Rule{{ID: "b", Source: src(file, 3)}, {ID: "c", Source: src(file, 4)}}
	second, err := discovery.Discover(context.Background(), root, dto.DiscoveryOptions{})
	require.NoError(t, err)
	for _, r := range second {
		profile.AddRule(r)
	}

	assert.Equal(t, 3, profile.RulesCount())
}

func Test_ProfileAggregator_Load_Layout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "test"), 0o755))
	agg, _, _ := newAggregator(namedMeta("x"), nil)

	profile, err := agg.Load(context.Background(), root, dto.LoadOptions{})
	require.NoError(t, err)

	assert.False(t, profile.Layout.HasControlsDir)
	assert.True(t, profile.Layout.HasLegacyControlsDir)
	assert.Equal(t, filepath.Join(profile.Root, "test"), profile.Layout.LegacyControlsDir)
}

func Test_ProfileAggregator_Load_IndependentInstances(t *testing.T) {
	root := t.TempDir()
	agg, _, _ := newAggregator(namedMeta("x"), []*entities.Rule{{ID: "a", Source: src(filepath.Join(root, "a.yaml"), 1)}})

	first, err := agg.Load(context.Background(), root, dto.LoadOptions{})
	require.NoError(t, err)
	second, err := agg.Load(context.Background(), root, dto.LoadOptions{})
	require.NoError(t, err)

	first.Metadata.Params["name"] = "changed"
	assert.Equal(t, "x", second.Metadata.Params["name"])
}

func Test_ProfileAggregator_Info(t *testing.T) {
	root := t.TempDir()
	impact := 1.7
	agg, _, _ := newAggregator(namedMeta("x"), []*entities.Rule{
		{ID: "a", Impact: &impact, GroupTitle: "Group", Source: src(filepath.Join(root, "controls", "a.yaml"), 1)},
	})
	profile, err := agg.Load(context.Background(), root, dto.LoadOptions{})
	require.NoError(t, err)

	info, err := agg.Info(profile, dto.InfoRequest{})
	require.NoError(t, err)
	require.Contains(t, info.Groups, "controls/a.yaml")
	assert.Equal(t, "Group", info.Groups["controls/a.yaml"].Title)
	assert.InDelta(t, 1.0, info.Groups["controls/a.yaml"].Rules["a"].Impact, 1e-9)

	_, err = agg.Info(profile, dto.InfoRequest{Filter: "impact >"})
	assert.Error(t, err)
}
