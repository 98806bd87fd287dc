package categorizer

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Chandru1806/MCA/internal/models"
)

//go:embed default_rules.yaml
var defaultRules []byte

// RuleSet is the loadable configuration behind the rule layer and the
// semantic exemplar table.
type RuleSet struct {
	KeywordConfidence float64        `yaml:"keyword_confidence"`
	PersonConfidence  float64        `yaml:"person_confidence"`
	Fallback          Fallback       `yaml:"fallback"`
	Overrides         []Override     `yaml:"overrides"`
	RegexRules        []RegexRule    `yaml:"regex_rules"`
	Keywords          []KeywordGroup `yaml:"keywords"`
	BusinessWords     []string       `yaml:"business_words"`
	PersonNames       []string       `yaml:"person_names"`
	Exemplars         []Exemplars    `yaml:"exemplars"`
}

// Fallback is the result when no rule matches.
type Fallback struct {
	Category   string  `yaml:"category"`
	Confidence float64 `yaml:"confidence"`
}

// Override fires when the description contains any of Any, or all of All.
type Override struct {
	Category   string   `yaml:"category"`
	Confidence float64  `yaml:"confidence"`
	Any        []string `yaml:"any"`
	All        []string `yaml:"all"`
}

// RegexRule is a case-insensitive pattern over the description.
type RegexRule struct {
	Pattern    string  `yaml:"pattern"`
	Category   string  `yaml:"category"`
	Confidence float64 `yaml:"confidence"`
}

// KeywordGroup lists known merchant substrings for one category.
type KeywordGroup struct {
	Category  string   `yaml:"category"`
	Merchants []string `yaml:"merchants"`
}

// Exemplars are reference sentences for the semantic classifier.
type Exemplars struct {
	Category  string   `yaml:"category"`
	Sentences []string `yaml:"sentences"`
}

// DefaultRuleSet returns the built-in rules.
func DefaultRuleSet() (*RuleSet, error) {
	return ParseRuleSet(defaultRules)
}

// LoadRuleSet reads a YAML rule set from path.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set: %w", err)
	}
	return ParseRuleSet(data)
}

// ParseRuleSet decodes and validates a YAML rule set.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Validate checks that every rule names a known category and carries a
// confidence in [0, 1].
func (rs *RuleSet) Validate() error {
	check := func(where, category string, conf float64) error {
		if !models.IsCategory(category) {
			return fmt.Errorf("%s: unknown category %q", where, category)
		}
		if conf < 0 || conf > 1 {
			return fmt.Errorf("%s: confidence %.2f out of range", where, conf)
		}
		return nil
	}

	if err := check("fallback", rs.Fallback.Category, rs.Fallback.Confidence); err != nil {
		return err
	}
	if err := check("keyword_confidence", models.CategoryOther, rs.KeywordConfidence); err != nil {
		return err
	}
	if err := check("person_confidence", models.CategoryPerson, rs.PersonConfidence); err != nil {
		return err
	}
	for i, o := range rs.Overrides {
		if err := check(fmt.Sprintf("overrides[%d]", i), o.Category, o.Confidence); err != nil {
			return err
		}
		if len(o.Any) == 0 && len(o.All) == 0 {
			return fmt.Errorf("overrides[%d]: needs any or all", i)
		}
	}
	for i, r := range rs.RegexRules {
		if err := check(fmt.Sprintf("regex_rules[%d]", i), r.Category, r.Confidence); err != nil {
			return err
		}
		if strings.TrimSpace(r.Pattern) == "" {
			return fmt.Errorf("regex_rules[%d]: empty pattern", i)
		}
	}
	for i, k := range rs.Keywords {
		if err := check(fmt.Sprintf("keywords[%d]", i), k.Category, rs.KeywordConfidence); err != nil {
			return err
		}
	}
	for i, e := range rs.Exemplars {
		if err := check(fmt.Sprintf("exemplars[%d]", i), e.Category, 0); err != nil {
			return err
		}
	}
	return nil
}
