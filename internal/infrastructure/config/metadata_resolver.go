// Package config provides infrastructure adapters that read profile
// metadata and rule definitions from disk.
package config

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reglet-dev/auditpack/internal/application/ports"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
)

// Metadata file names, in lookup order.
var canonicalMetadataFiles = []string{"profile.yaml", "profile.yml"}

// LegacyMetadataFile is the deprecated metadata file name.
const LegacyMetadataFile = "metadata.toml"

//go:embed schema/metadata.schema.json
var metadataSchemaJSON []byte

// semverFormat is the schema format name for profile versions.
const semverFormat = "semver"

func init() {
	jsonschema.Formats[semverFormat] = isSemver
}

// isSemver accepts any version Masterminds/semver can parse. Numeric
// versions are left to the schema's type check.
func isSemver(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	_, err := semver.NewVersion(s)
	return err == nil
}

var _ ports.MetadataResolver = (*MetadataResolver)(nil)

// MetadataResolver reads profile.yaml, falling back to metadata.toml.
type MetadataResolver struct {
	schema *jsonschema.Schema
	logger *slog.Logger
}

// NewMetadataResolver compiles the metadata schema and returns a resolver.
func NewMetadataResolver(logger *slog.Logger) (*MetadataResolver, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource("metadata.schema.json", bytes.NewReader(metadataSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add metadata schema: %w", err)
	}
	schema, err := compiler.Compile("metadata.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile metadata schema: %w", err)
	}

	return &MetadataResolver{schema: schema, logger: logger}, nil
}

// Resolve reads the metadata of the profile in dir.
// A profile without any metadata file yields empty, invalid metadata.
func (r *MetadataResolver) Resolve(ctx context.Context, dir string) (*entities.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Security: Use os.OpenRoot to keep reads inside the profile directory
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	meta := &entities.Metadata{Params: map[string]interface{}{}}

	legacy, err := readOptional(root, LegacyMetadataFile)
	if err != nil {
		return nil, err
	}
	if legacy != nil {
		meta.LegacyFile = filepath.Join(dir, LegacyMetadataFile)
	}

	for _, name := range canonicalMetadataFiles {
		data, err := readOptional(root, name)
		if err != nil {
			return nil, err
		}
		if data == nil {
			continue
		}
		if err := yaml.Unmarshal(data, &meta.Params); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		meta.File = filepath.Join(dir, name)
		break
	}

	if meta.File == "" && legacy != nil {
		if err := toml.Unmarshal(legacy, &meta.Params); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", LegacyMetadataFile, err)
		}
		meta.File = meta.LegacyFile
	}

	if meta.Params == nil {
		// an empty document decodes to a nil map
		meta.Params = map[string]interface{}{}
	}

	if meta.File == "" {
		r.logger.Debug("no metadata file found", "path", dir)
		return meta, nil
	}

	meta.Valid = r.validate(meta)
	return meta, nil
}

func (r *MetadataResolver) validate(meta *entities.Metadata) bool {
	// Round-trip through JSON so the validator sees JSON-native types
	// regardless of which decoder produced the params.
	raw, err := json.Marshal(meta.Params)
	if err != nil {
		r.logger.Debug("metadata is not representable as JSON", "file", meta.File, "error", err)
		return false
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		r.logger.Debug("metadata is not representable as JSON", "file", meta.File, "error", err)
		return false
	}

	if err := r.schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			for _, cause := range flattenCauses(validationErr) {
				r.logger.Debug("metadata schema violation", "file", meta.File, "detail", cause)
			}
		}
		return false
	}
	return true
}

// flattenCauses collects leaf messages of a schema validation error.
func flattenCauses(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "(root)"
		}
		return []string{fmt.Sprintf("%s: %s", location, err.Message)}
	}
	var out []string
	for _, cause := range err.Causes {
		out = append(out, flattenCauses(cause)...)
	}
	return out
}

// readOptional returns nil data when name does not exist.
func readOptional(root *os.Root, name string) ([]byte, error) {
	data, err := root.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
