// Package textscan finds entity references in chapter text. It matches
// bracketed "magic word" phrases ([Skill], [Class] and friends) plus
// configured RefType names and aliases, producing column-addressed
// matches with surrounding context.
package textscan

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// MagicWordRe matches bracketed system phrases such as [Innkeeper],
	// [Grandmaster's Flawless Dodge] or [Lesser Strength, Tier 2]. Any
	// non-bracket text counts; nested brackets match innermost-first.
	MagicWordRe = regexp.MustCompile(`\[[^\[\]]+\]`)

	// Obtained announcement lines.
	SkillObtainedRe = regexp.MustCompile(`^\[[Ss]kill.*[Oo]btained.?\]$`)
	ClassObtainedRe = regexp.MustCompile(`\[.*[Cc]lass.*[Oo]btained.?\]$`)
	SpellObtainedRe = regexp.MustCompile(`^\[[Ss]pell.*[Oo]btained.?\]$`)
)

// Boundary classes around an alias occurrence. The prefix admits tag
// ends so matches inside scraped HTML spans still hit; the suffix also
// admits sentence punctuation.
const (
	boundaryPrefix = `(?:^|[>\W])`
	boundarySuffix = `(?:[<\W.?,!]|$)`
)

// BuildRefTypePatterns returns the name plus its aliases as literal
// patterns, shortest first. Alias names containing parentheses are
// configuration annotations, not matchable text, and are skipped.
func BuildRefTypePatterns(name string, aliases []string) []string {
	patterns := make([]string, 0, len(aliases)+1)
	if !strings.Contains(name, "(") {
		patterns = append(patterns, name)
	}
	for _, alias := range aliases {
		if strings.Contains(alias, "(") {
			continue
		}
		patterns = append(patterns, alias)
	}

	sort.Slice(patterns, func(i, j int) bool {
		return len(patterns[i]) < len(patterns[j])
	})

	return patterns
}

// Matcher scans lines for any of a set of literal phrases bounded by
// word-boundary classes.
type Matcher struct {
	re *regexp.Regexp
}

// CompileMatcher builds a single alternation over the given literal
// phrases. Longer phrases are tried first so "Erin Solstice" wins over
// "Erin" at the same offset.
func CompileMatcher(phrases []string) (*Matcher, error) {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	if len(quoted) == 0 {
		return nil, errors.New("no phrases to compile")
	}

	sort.Slice(quoted, func(i, j int) bool {
		return len(quoted[i]) > len(quoted[j])
	})

	re, err := regexp.Compile(boundaryPrefix + `(` + strings.Join(quoted, "|") + `)` + boundarySuffix)
	if err != nil {
		return nil, errors.Wrap(err, "compiling textref matcher")
	}

	return &Matcher{re: re}, nil
}
