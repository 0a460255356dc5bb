package entities

// ProfileInfo is the display-oriented view of a profile.
// It never carries checks and all impacts are clamped.
type ProfileInfo struct {
	Metadata map[string]interface{} `json:"metadata" yaml:"metadata"`
	Groups   map[string]GroupInfo   `json:"groups" yaml:"groups"`
}

// GroupInfo summarizes the rules of one source file.
type GroupInfo struct {
	Title string                 `json:"title" yaml:"title"`
	Rules map[string]RuleSummary `json:"rules" yaml:"rules"`
}

// RuleSummary is a rule stripped of its checks.
type RuleSummary struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"desc" yaml:"desc"`
	Impact      float64         `json:"impact" yaml:"impact"`
	Severity    string          `json:"severity" yaml:"severity"`
	Source      *SourceLocation `json:"source_location,omitempty" yaml:"source_location,omitempty"`
}

// RuleCount returns the number of rules in the view.
func (i *ProfileInfo) RuleCount() int {
	n := 0
	for _, g := range i.Groups {
		n += len(g.Rules)
	}
	return n
}
