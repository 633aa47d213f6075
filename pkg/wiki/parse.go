// Package wiki pulls entity data from the companion wiki. The client
// talks to the MediaWiki action API; the parsers here work on raw
// wikitext from infoboxes, tables and lists.
package wiki

import (
	"regexp"
	"strings"
)

var (
	lineBreakRe    = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>|\s*\n\s*`)
	brRe           = regexp.MustCompile(`(?i)<br\s*/?>`)
	parensRe       = regexp.MustCompile(`.*(\(.*\)).*`)
	refPairRe      = regexp.MustCompile(`(?s)<ref[^>/]*>.*?</ref>`)
	refSelfCloseRe = regexp.MustCompile(`<ref[^>]*/>`)
	templateRe     = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	wikiLinkRe     = regexp.MustCompile(`\[\[(?:[^|\]]*\|)?([^\]]*)\]\]`)
	extLinkRe      = regexp.MustCompile(`\[https?://\S*(?:\s+([^\]]*))?\]`)
	extLinkURLRe   = regexp.MustCompile(`\[(https?://\S+)(?:\s+[^\]]*)?\]`)
	htmlTagRe      = regexp.MustCompile(`(?s)<[^>]+>`)
	quotesRe       = regexp.MustCompile(`'{2,}`)
	bulletRe       = regexp.MustCompile(`^[*#:;]+\s*`)
	statusTmplRe   = regexp.MustCompile(`(?s)\{\{\s*[Ss]tatus\s*\|(.*?)(?:\|.*)?\}\}`)
	slashSplitRe   = regexp.MustCompile(`\s/\s`)
)

// StripRefTags removes <ref>...</ref> and self-closing <ref/> markers.
func StripRefTags(text string) string {
	text = refPairRe.ReplaceAllString(text, "")
	return refSelfCloseRe.ReplaceAllString(text, "")
}

// ReplaceBrWithSpace flattens <br> variants into single spaces.
func ReplaceBrWithSpace(text string) string {
	return strings.TrimSpace(brRe.ReplaceAllString(text, " "))
}

// StripCode reduces a wikitext fragment to plain text: templates,
// link markup, bold/italic quotes, HTML tags and list bullets all go.
// Bracketed plain text like "[Palace of Fates]" is not a link and is
// kept as written.
func StripCode(text string) string {
	text = StripRefTags(text)
	text = templateRe.ReplaceAllString(text, "")
	text = wikiLinkRe.ReplaceAllString(text, "$1")
	text = extLinkRe.ReplaceAllString(text, "$1")
	text = htmlTagRe.ReplaceAllString(text, "")
	text = quotesRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = bulletRe.ReplaceAllString(strings.TrimSpace(line), "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseList splits a field on <br> tags or newlines and strips wiki
// markup from each entry. Slashes inside an entry are kept, so
// "God/Goddess of Death" stays one alias.
func ParseList(text string) []string {
	var out []string
	for _, part := range lineBreakRe.Split(text, -1) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if clean := StripCode(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// NameField is a parsed entity-name cell: the primary name, alternate
// names, and an optional parenthesized category such as "(Alchemy)".
type NameField struct {
	Name     string
	Aliases  []string
	Category string
}

// ParseNameField parses a name cell from a wiki table or list. A
// parenthesized suffix is a category, not part of the name; remaining
// text splits into names on line breaks and " / " separators.
func ParseNameField(text string) NameField {
	var field NameField

	if m := parensRe.FindStringSubmatch(text); m != nil {
		field.Category = m[1][1 : len(m[1])-1]
		text = strings.Replace(text, "("+field.Category+")", "", 1)
	}

	text = StripRefTags(text)

	var names []string
	for _, line := range lineBreakRe.Split(text, -1) {
		if strings.HasPrefix(strings.TrimSpace(line), "/") {
			line = strings.TrimSpace(strings.ReplaceAll(line, "/", ""))
		}
		for _, name := range slashSplitRe.Split(line, -1) {
			if clean := StripCode(strings.TrimSpace(name)); clean != "" {
				names = append(names, clean)
			}
		}
	}

	if len(names) > 0 {
		field.Name = names[0]
		field.Aliases = names[1:]
	}
	return field
}

// ParamsToMap turns raw template parameters ("key=value" strings) into
// a map. Values may themselves contain '=' signs.
func ParamsToMap(params []string) map[string]string {
	out := make(map[string]string, len(params))
	for _, p := range params {
		key, value, _ := strings.Cut(p, "=")
		out[strings.TrimSpace(key)] = value
	}
	return out
}

// CharInfobox is the parsed character infobox template.
type CharInfobox struct {
	Aliases    []string
	FirstHrefs []string
	Species    string
	Status     string
}

// ParseCharInfobox parses the parameters of an Infobox character
// template.
func ParseCharInfobox(params []string) CharInfobox {
	values := ParamsToMap(params)
	box := CharInfobox{Aliases: []string{}}

	if aliases := values["aliases"]; aliases != "" {
		box.Aliases = ParseList(aliases)
	}

	if first := values["first appearance"]; first != "" {
		for _, m := range extLinkURLRe.FindAllStringSubmatch(first, -1) {
			box.FirstHrefs = append(box.FirstHrefs, m[1])
		}
	}

	if status := values["status"]; status != "" {
		if m := statusTmplRe.FindStringSubmatch(status); m != nil {
			// Template form keeps its own markup, only <br> flattens.
			box.Status = strings.TrimSpace(brRe.ReplaceAllString(m[1], " "))
		} else {
			box.Status = strings.TrimSpace(htmlTagRe.ReplaceAllString(status, ""))
		}
	}

	if species := values["species"]; species != "" {
		box.Species = StripCode(species)
	}

	return box
}
