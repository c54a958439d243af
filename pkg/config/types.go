// Package config loads YAML rule files that extend or prune the built-in
// detection catalog.
package config

import (
	"github.com/logsieve/logsieve/pkg/rules"
)

// RulesFile is the on-disk shape of a custom rules file.
type RulesFile struct {
	// Rules are custom detection rules added on top of the built-in set.
	Rules []RuleConfig `yaml:"rules"`

	// Disable names built-in rules to remove before analysis.
	Disable []string `yaml:"disable"`
}

// RuleConfig is one custom detection rule.
type RuleConfig struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Severity    string   `yaml:"severity"`
	Pattern     string   `yaml:"pattern"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
}

// DetectionRules converts the file's rules to engine rules. Call after
// Validate; the conversion itself does not check anything.
func (f *RulesFile) DetectionRules() []rules.DetectionRule {
	out := make([]rules.DetectionRule, 0, len(f.Rules))
	for _, rc := range f.Rules {
		out = append(out, rules.DetectionRule{
			Name:        rc.Name,
			Description: rc.Description,
			Severity:    rules.Severity(rc.Severity),
			Pattern:     rc.Pattern,
			Category:    rc.Category,
			Tags:        rc.Tags,
		})
	}
	return out
}
