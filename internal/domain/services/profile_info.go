package services

import (
	"path/filepath"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// BuildProfileInfo derives the display view of a profile.
//
// Groups are keyed by their path relative to the profile root. The root
// sentinel group and rules with empty ids are left out. A group's title is
// the GroupTitle of the last rule processed; rules are processed in id order.
// filter may be nil. The profile is never modified.
func BuildProfileInfo(profile *entities.Profile, filter RuleSpecification) (*entities.ProfileInfo, error) {
	info := &entities.ProfileInfo{
		Metadata: CopyParams(profile.Metadata.Params),
		Groups:   make(map[string]entities.GroupInfo),
	}
	if info.Metadata == nil {
		info.Metadata = make(map[string]interface{})
	}

	for _, key := range profile.GroupKeys() {
		if key == entities.RootGroupKey {
			continue
		}
		rel := relativeGroupPath(profile.Root, key)
		group := entities.GroupInfo{Rules: make(map[string]entities.RuleSummary)}

		source := profile.Groups[key]
		for _, id := range source.IDs() {
			if values.NewControlID(id).IsEmpty() {
				continue
			}
			summary := summarizeRule(source[id])
			if filter != nil {
				ok, err := filter.IsSatisfiedBy(rel, summary)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			group.Title = source[id].GroupTitle
			group.Rules[id] = summary
		}

		if filter != nil && len(group.Rules) == 0 {
			continue
		}
		info.Groups[rel] = group
	}

	return info, nil
}

func summarizeRule(rule *entities.Rule) entities.RuleSummary {
	impact := values.ClampImpact(rule.Impact)
	summary := entities.RuleSummary{
		ID:          rule.ID,
		Title:       rule.Title,
		Description: rule.Description,
		Impact:      impact,
		Severity:    values.SeverityFromImpact(impact).String(),
	}
	if rule.Source != nil {
		loc := *rule.Source
		summary.Source = &loc
	}
	return summary
}

func relativeGroupPath(root, key string) string {
	rel, err := filepath.Rel(root, key)
	if err != nil {
		return filepath.ToSlash(key)
	}
	return filepath.ToSlash(rel)
}
