package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	"github.com/reglet-dev/auditpack/internal/application/ports"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// ControlDirs are scanned for rule files, canonical directory first.
var ControlDirs = []string{"controls", "test"}

var _ ports.RuleDiscovery = (*RuleDiscovery)(nil)

// ruleFile is the on-disk shape of a control file.
//
//	title: SSH configuration
//	controls:
//	  - id: ssh-01
//	    title: Disable root login
//	    desc: ...
//	    impact: 0.7
//	    checks:
//	      - {...}
//	checks:
//	  - {...}
//
// Top-level checks belong to no control and receive generated ids.
type ruleFile struct {
	Title    string                   `yaml:"title"`
	Controls []controlDef             `yaml:"controls"`
	Checks   []map[string]interface{} `yaml:"checks"`
}

type controlDef struct {
	ID     string                   `yaml:"id"`
	Title  string                   `yaml:"title"`
	Desc   string                   `yaml:"desc"`
	Impact *float64                 `yaml:"impact"`
	Checks []map[string]interface{} `yaml:"checks"`
}

// RuleDiscovery reads YAML control files below a profile's control directories.
type RuleDiscovery struct {
	logger *slog.Logger
}

// NewRuleDiscovery creates a new rule discovery adapter.
func NewRuleDiscovery(logger *slog.Logger) *RuleDiscovery {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RuleDiscovery{logger: logger}
}

// Discover returns the rules of every control file, in lexical file order.
// Source files are absolute paths.
func (d *RuleDiscovery) Discover(ctx context.Context, dir string, opts dto.DiscoveryOptions) ([]*entities.Rule, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}

	var wanted map[string]bool
	if len(opts.Controls) > 0 {
		wanted = make(map[string]bool, len(opts.Controls))
		for _, id := range opts.Controls {
			wanted[id] = true
		}
	}

	var rules []*entities.Rule
	for _, sub := range ControlDirs {
		base := filepath.Join(root, sub)
		if info, statErr := os.Stat(base); statErr != nil || !info.IsDir() {
			continue
		}

		err := filepath.WalkDir(base, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || !isYAML(path) {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			found, err := d.readFile(root, path, wanted)
			if err != nil {
				return err
			}
			rules = append(rules, found...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	d.logger.Debug("rules discovered", "path", root, "count", len(rules))
	return rules, nil
}

func (d *RuleDiscovery) readFile(root, path string, wanted map[string]bool) ([]*entities.Rule, error) {
	//nolint:gosec // G304: path comes from walking the profile directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read control file: %w", err)
	}

	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	tree, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rules := make([]*entities.Rule, 0, len(doc.Controls)+len(doc.Checks))
	for i, ctrl := range doc.Controls {
		id := values.NewControlID(ctrl.ID).String()
		if wanted != nil && !wanted[id] {
			continue
		}
		rules = append(rules, &entities.Rule{
			ID:          id,
			Title:       ctrl.Title,
			Description: ctrl.Desc,
			Impact:      ctrl.Impact,
			Checks:      toChecks(ctrl.Checks),
			Source:      &entities.SourceLocation{File: path, Line: nodeLine(tree, fmt.Sprintf("$.controls[%d]", i))},
			GroupTitle:  doc.Title,
		})
	}

	// Anonymous checks are never selected by an id filter.
	if wanted != nil {
		return rules, nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get relative path: %w", err)
	}
	for i, check := range doc.Checks {
		nodePath := fmt.Sprintf("$.checks[%d]", i)
		line := nodeLine(tree, nodePath)
		id := values.GeneratedControlID(filepath.ToSlash(rel), line, nodeDigest(tree, nodePath, i))
		rules = append(rules, &entities.Rule{
			ID:         id.String(),
			Checks:     []entities.Check{check},
			Source:     &entities.SourceLocation{File: path, Line: line},
			GroupTitle: doc.Title,
		})
	}

	return rules, nil
}

func toChecks(raw []map[string]interface{}) []entities.Check {
	checks := make([]entities.Check, 0, len(raw))
	for _, c := range raw {
		checks = append(checks, entities.Check(c))
	}
	return checks
}

// lookup returns the node at a YAML path, or nil.
func lookup(tree *ast.File, pathStr string) ast.Node {
	path, err := yaml.PathString(pathStr)
	if err != nil {
		return nil
	}
	node, err := path.FilterFile(tree)
	if err != nil {
		return nil
	}
	return node
}

// nodeLine returns the 1-based line of the node at pathStr, or 0.
// For mappings the first key is used so the line points at the entry itself.
func nodeLine(tree *ast.File, pathStr string) int {
	node := lookup(tree, pathStr)
	if node == nil {
		return 0
	}
	switch n := node.(type) {
	case *ast.MappingNode:
		if len(n.Values) > 0 {
			node = n.Values[0].Key
		}
	case *ast.MappingValueNode:
		node = n.Key
	}
	tk := node.GetToken()
	if tk == nil || tk.Position == nil {
		return 0
	}
	return tk.Position.Line
}

// nodeDigest hashes the source text of the node at pathStr.
func nodeDigest(tree *ast.File, pathStr string, fallback int) string {
	text := fmt.Sprintf("%d", fallback)
	if node := lookup(tree, pathStr); node != nil {
		text = node.String()
	}
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
