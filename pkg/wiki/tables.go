package wiki

import (
	"strings"
)

// ParseTables extracts every wikitable in the text as rows of raw cell
// strings. The header row is skipped; callers get data rows only.
func ParseTables(text string) [][][]string {
	var tables [][][]string

	for {
		start := strings.Index(text, "{|")
		if start < 0 {
			break
		}
		end := strings.Index(text[start:], "|}")
		if end < 0 {
			break
		}

		body := text[start+2 : start+end]
		text = text[start+end+2:]

		if rows := parseTableRows(body); len(rows) > 0 {
			tables = append(tables, rows)
		}
	}
	return tables
}

func parseTableRows(body string) [][]string {
	var (
		rows    [][]string
		current []string
	)

	flush := func() {
		if len(current) > 0 {
			rows = append(rows, current)
			current = nil
		}
	}

	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case strings.HasPrefix(line, "|-"):
			flush()

		case strings.HasPrefix(line, "!"):
			// Header cells are dropped.

		case strings.HasPrefix(line, "|"):
			cell := line[1:]
			// A cell continues over following lines until the next
			// cell/row marker.
			for i+1 < len(lines) {
				next := strings.TrimSpace(lines[i+1])
				if strings.HasPrefix(next, "|") || strings.HasPrefix(next, "!") {
					break
				}
				cell += "\n" + next
				i++
			}
			for _, c := range strings.Split(cell, "||") {
				current = append(current, strings.TrimSpace(c))
			}
		}
	}
	flush()
	return rows
}

// ParseListItems returns the "*" bullet items of a wikitext list
// section, raw.
func ParseListItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "*") {
			items = append(items, strings.TrimSpace(strings.TrimLeft(trimmed, "* ")))
		}
	}
	return items
}

// SkillRow is one parsed row of the wiki's skill table.
type SkillRow struct {
	Name     string
	Aliases  []string
	Category string
	Effect   string
}

// ParseSkillRow parses one skills-table row: name cell, effect cell,
// first-appearance cell.
func ParseSkillRow(row []string) (SkillRow, bool) {
	if len(row) < 2 {
		return SkillRow{}, false
	}

	field := ParseNameField(row[0])
	if field.Name == "" {
		return SkillRow{}, false
	}

	return SkillRow{
		Name:     field.Name,
		Aliases:  field.Aliases,
		Category: ReplaceBrWithSpace(field.Category),
		Effect:   ReplaceBrWithSpace(StripRefTags(strings.TrimSpace(row[1]))),
	}, true
}

// SpellRow is one parsed row of the wiki's spell table.
type SpellRow struct {
	Name    string
	Aliases []string
	Tier    string
	Effect  string
}

// ParseSpellRow parses one spells-table row: name, tier, effect.
func ParseSpellRow(row []string) (SpellRow, bool) {
	if len(row) < 3 {
		return SpellRow{}, false
	}

	field := ParseNameField(row[0])
	if field.Name == "" {
		return SpellRow{}, false
	}

	return SpellRow{
		Name:    field.Name,
		Aliases: field.Aliases,
		Tier:    StripRefTags(ReplaceBrWithSpace(strings.TrimSpace(row[1]))),
		Effect:  ReplaceBrWithSpace(StripRefTags(strings.TrimSpace(row[2]))),
	}, true
}

// ClassRow is one parsed row of the wiki's class table.
type ClassRow struct {
	Name    string
	Aliases []string
	Type    string
	Details string
}

// ParseClassRow parses one classes-table row: name, appearance, type,
// details.
func ParseClassRow(row []string) (ClassRow, bool) {
	if len(row) < 4 {
		return ClassRow{}, false
	}

	field := ParseNameField(row[0])
	if field.Name == "" {
		return ClassRow{}, false
	}

	return ClassRow{
		Name:    field.Name,
		Aliases: field.Aliases,
		Type:    StripCode(row[2]),
		Details: StripCode(row[3]),
	}, true
}

// ArtifactEntry is one parsed item of the wiki's artifact list.
type ArtifactEntry struct {
	Name    string
	Aliases []string
}

// ParseArtifactItem parses one artifact list item.
func ParseArtifactItem(item string) (ArtifactEntry, bool) {
	field := ParseNameField(item)
	if field.Name == "" {
		return ArtifactEntry{}, false
	}
	return ArtifactEntry{Name: field.Name, Aliases: field.Aliases}, true
}
