package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/logsieve/logsieve/pkg/rules"
)

// Load reads and validates a rules file.
func Load(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided rules path is expected
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	if err := Validate(&file); err != nil {
		return nil, fmt.Errorf("validating rules file: %w", err)
	}
	return &file, nil
}

// Validate checks every rule for a usable name, severity, and pattern.
// Patterns are compiled eagerly so a broken rule fails at load time, not
// mid-analysis.
func Validate(file *RulesFile) error {
	if len(file.Rules) == 0 && len(file.Disable) == 0 {
		return errors.New("rules file is empty: define rules or disable entries")
	}

	seen := make(map[string]bool, len(file.Rules))
	for i := range file.Rules {
		if err := validateRule(&file.Rules[i]); err != nil {
			return fmt.Errorf("rules[%d] (%s): %w", i, file.Rules[i].Name, err)
		}
		if seen[file.Rules[i].Name] {
			return fmt.Errorf("rules[%d]: duplicate rule name %q", i, file.Rules[i].Name)
		}
		seen[file.Rules[i].Name] = true
	}
	return nil
}

func validateRule(rc *RuleConfig) error {
	if rc.Name == "" {
		return errors.New("name is required")
	}
	if rc.Pattern == "" {
		return errors.New("pattern is required")
	}
	if _, err := regexp.Compile("(?i)(?:" + rc.Pattern + ")"); err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	if !rules.Severity(rc.Severity).Valid() {
		return fmt.Errorf("invalid severity %q (must be low, medium, high, or critical)", rc.Severity)
	}
	if rc.Category == "" {
		return errors.New("category is required")
	}
	return nil
}
