// Package entities contains domain entities for the auditpack domain model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"fmt"
	"sort"
)

// MetadataNameKey is the parameter that carries the profile identifier.
const MetadataNameKey = "name"

// RootGroupKey is the group key for rules that carry no source file.
// Rules bucketed here count toward the profile but never appear in
// reporting views.
const RootGroupKey = ""

// Profile is the aggregated, in-memory representation of a profile directory.
// This is an aggregate root: groups and rules live inside it.
//
// Invariants Enforced:
// - Rules are bucketed by source file, then by id (last write wins)
// - RulesCount is derived from the groups on every call
type Profile struct {
	Root     string
	Metadata Metadata
	Groups   map[string]RuleGroup
	Layout   Layout
}

// Metadata is the resolved key/value parameter set of a profile.
type Metadata struct {
	Params map[string]interface{}
	// Valid is set by the metadata resolver after schema validation.
	Valid bool
	// File is the metadata file that was parsed, empty when none was found.
	File string
	// LegacyFile is set when a deprecated metadata file exists on disk,
	// whether or not it was the one parsed.
	LegacyFile string
}

// Layout records directory conventions observed while loading the profile.
type Layout struct {
	HasControlsDir       bool
	HasLegacyControlsDir bool
	LegacyControlsDir    string
}

// Rule is a single control as reported by rule discovery.
type Rule struct {
	ID          string
	Title       string
	Description string
	// Impact is nil when the control declares none. Values are kept unclamped.
	Impact     *float64
	Checks     []Check
	Source     *SourceLocation
	GroupTitle string
}

// Check is an opaque assertion unit belonging to a control.
type Check map[string]interface{}

// SourceLocation points at the declaration of a rule.
type SourceLocation struct {
	File string `json:"ref" yaml:"ref"`
	Line int    `json:"line" yaml:"line"`
}

// RuleGroup maps rule ids to rules declared in one source file.
type RuleGroup map[string]*Rule

// NewProfile creates an empty profile rooted at root.
func NewProfile(root string, metadata Metadata) *Profile {
	return &Profile{
		Root:     root,
		Metadata: metadata,
		Groups:   make(map[string]RuleGroup),
	}
}

// ===== PROFILE AGGREGATE ROOT METHODS =====

// AddRule buckets a rule into the group of its source file.
// A rule with the same id in the same group replaces the previous one.
func (p *Profile) AddRule(rule *Rule) {
	if rule == nil {
		return
	}
	key := rule.GroupKey()
	group, ok := p.Groups[key]
	if !ok {
		group = make(RuleGroup)
		p.Groups[key] = group
	}
	group[rule.ID] = rule
}

// RulesCount returns the number of rules across all groups.
func (p *Profile) RulesCount() int {
	total := 0
	for _, group := range p.Groups {
		total += len(group)
	}
	return total
}

// Name returns the profile identifier and whether one is set.
func (p *Profile) Name() (string, bool) {
	return p.Metadata.Name()
}

// GroupKeys returns group keys in sorted order so walks are deterministic.
func (p *Profile) GroupKeys() []string {
	keys := make([]string, 0, len(p.Groups))
	for k := range p.Groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Name returns the `name` parameter rendered as text. Scalar names that
// fail schema validation, such as numbers, are still reported.
func (m Metadata) Name() (string, bool) {
	raw, ok := m.Params[MetadataNameKey]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, v != ""
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// ===== RULE ENTITY METHODS =====

// GroupKey returns the key of the group the rule belongs to.
func (r *Rule) GroupKey() string {
	if r.Source == nil {
		return RootGroupKey
	}
	return r.Source.File
}

// Location returns the source file and line, zero values when absent.
func (r *Rule) Location() (string, int) {
	if r.Source == nil {
		return "", 0
	}
	return r.Source.File, r.Source.Line
}

// IDs returns the group's rule ids in sorted order.
func (g RuleGroup) IDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
