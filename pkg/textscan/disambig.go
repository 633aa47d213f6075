package textscan

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Verdict is the outcome of consulting the disambiguation config for a
// single match.
type Verdict int

const (
	// VerdictUnambiguous - the alias is not in the ambiguous set.
	VerdictUnambiguous Verdict = iota
	// VerdictAccept - an allow rule covered the surrounding context.
	VerdictAccept
	// VerdictReject - a deny rule covered the surrounding context.
	VerdictReject
	// VerdictUnresolved - ambiguous and no rule matched; needs manual
	// resolution.
	VerdictUnresolved
)

// AmbiguousAlias configures one common-word alias (eg "Doctor") whose
// occurrences cannot be attributed automatically. Allow and Deny hold
// context substrings; matching is case-insensitive.
type AmbiguousAlias struct {
	Alias   string   `yaml:"alias"`
	RefType string   `yaml:"ref_type"`
	Type    string   `yaml:"type"`
	Allow   []string `yaml:"allow,omitempty"`
	Deny    []string `yaml:"deny,omitempty"`
}

// DisambiguationConfig is the operator-maintained allow/deny list
// loaded from YAML.
type DisambiguationConfig struct {
	Ambiguous []AmbiguousAlias `yaml:"ambiguous"`

	byAlias map[string][]AmbiguousAlias
}

func LoadDisambiguationConfig(path string) (*DisambiguationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading disambiguation config %s", path)
	}

	var cfg DisambiguationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing disambiguation config %s", path)
	}

	cfg.index()
	return &cfg, nil
}

func (c *DisambiguationConfig) index() {
	c.byAlias = make(map[string][]AmbiguousAlias, len(c.Ambiguous))
	for _, entry := range c.Ambiguous {
		key := strings.ToLower(entry.Alias)
		c.byAlias[key] = append(c.byAlias[key], entry)
	}
}

// IsAmbiguous reports whether any rule exists for the matched text.
func (c *DisambiguationConfig) IsAmbiguous(text string) bool {
	if c == nil || c.byAlias == nil {
		return false
	}
	_, ok := c.byAlias[strings.ToLower(text)]
	return ok
}

// Judge consults the allow/deny rules for a match. When a rule accepts,
// the returned entry names the RefType the mention belongs to. Deny
// wins over allow so a narrow exclusion can punch a hole in a broad
// allow context.
func (c *DisambiguationConfig) Judge(m Match) (Verdict, *AmbiguousAlias) {
	if !c.IsAmbiguous(m.Text) {
		return VerdictUnambiguous, nil
	}

	ctx := strings.ToLower(m.Context)
	entries := c.byAlias[strings.ToLower(m.Text)]

	for i := range entries {
		for _, deny := range entries[i].Deny {
			if strings.Contains(ctx, strings.ToLower(deny)) {
				return VerdictReject, &entries[i]
			}
		}
	}
	for i := range entries {
		for _, allow := range entries[i].Allow {
			if strings.Contains(ctx, strings.ToLower(allow)) {
				return VerdictAccept, &entries[i]
			}
		}
	}

	return VerdictUnresolved, nil
}
