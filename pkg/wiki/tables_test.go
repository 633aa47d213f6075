package wiki

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const skillsWikitext = `
Some lead-in text.
{| class="wikitable sortable"
! Skill Name !! Effect !! First Appearance
|-
| [[Bar Fighting]] || Better brawling in close quarters. || [https://www.wanderinginn.com/2016/07/27/1-00/ 1.00]
|-
| [[Acid Spray]] (Alchemy)
| Sprays acid at a target.<ref>Chapter 2.14</ref>
| 2.14
|-
| Lesser Strength
| Raises physical strength
a small amount.
| 1.02
|}
Trailing text.
`

func TestParseTables(t *testing.T) {
	tables := ParseTables(skillsWikitext)
	require.Len(t, tables, 1)

	rows := tables[0]
	require.Len(t, rows, 3)

	// Inline || cells and one-cell-per-line rows parse the same way.
	require.Equal(t, "[[Bar Fighting]]", rows[0][0])
	require.Len(t, rows[0], 3)
	require.Equal(t, "[[Acid Spray]] (Alchemy)", rows[1][0])

	// A cell continues across lines until the next marker.
	require.Equal(t, "Raises physical strength\na small amount.", rows[2][1])
}

func TestParseTablesMultiple(t *testing.T) {
	text := "{|\n|-\n| one\n|}\nbetween\n{|\n|-\n| two || three\n|}"
	tables := ParseTables(text)
	require.Len(t, tables, 2)
	require.Equal(t, [][]string{{"one"}}, tables[0])
	require.Equal(t, [][]string{{"two", "three"}}, tables[1])
}

func TestParseTablesNone(t *testing.T) {
	require.Empty(t, ParseTables("no tables here"))
}

func TestParseListItems(t *testing.T) {
	text := "Intro line\n* [[Amulet of Health]]\n** nested entry\n* Ring of Barkskin\nnot a bullet"
	items := ParseListItems(text)
	require.Equal(t, []string{"[[Amulet of Health]]", "nested entry", "Ring of Barkskin"}, items)
}

func TestParseSkillRow(t *testing.T) {
	rows := ParseTables(skillsWikitext)[0]

	skill, ok := ParseSkillRow(rows[0])
	require.True(t, ok)
	require.Equal(t, "Bar Fighting", skill.Name)
	require.Equal(t, "Better brawling in close quarters.", skill.Effect)
	require.Empty(t, skill.Category)

	acid, ok := ParseSkillRow(rows[1])
	require.True(t, ok)
	require.Equal(t, "Acid Spray", acid.Name)
	require.Equal(t, "Alchemy", acid.Category)
	require.Equal(t, "Sprays acid at a target.", acid.Effect)

	_, ok = ParseSkillRow([]string{"only one cell"})
	require.False(t, ok)
}

func TestParseSpellRow(t *testing.T) {
	spell, ok := ParseSpellRow([]string{"[[Frozen Wind]]", "Tier 2<ref>c</ref>", "Summons freezing winds."})
	require.True(t, ok)
	require.Equal(t, "Frozen Wind", spell.Name)
	require.Equal(t, "Tier 2", spell.Tier)
	require.Equal(t, "Summons freezing winds.", spell.Effect)

	_, ok = ParseSpellRow([]string{"[[Frozen Wind]]", "Tier 2"})
	require.False(t, ok)
}

func TestParseClassRow(t *testing.T) {
	class, ok := ParseClassRow([]string{
		"[[Innkeeper]]",
		"[https://www.wanderinginn.com/2016/07/27/1-00/ 1.00]",
		"Profession",
		"Runs an inn and levels from hospitality.",
	})
	require.True(t, ok)
	require.Equal(t, "Innkeeper", class.Name)
	require.Equal(t, "Profession", class.Type)
	require.Equal(t, "Runs an inn and levels from hospitality.", class.Details)

	_, ok = ParseClassRow([]string{"[[Innkeeper]]", "1.00", "Profession"})
	require.False(t, ok)
}

func TestParseArtifactItem(t *testing.T) {
	entry, ok := ParseArtifactItem("[[Amulet of Health]]")
	require.True(t, ok)
	require.Equal(t, "Amulet of Health", entry.Name)

	entry, ok = ParseArtifactItem("'''Ring of Barkskin''' / Barkskin Ring")
	require.True(t, ok)
	require.Equal(t, "Ring of Barkskin", entry.Name)
	require.Equal(t, []string{"Barkskin Ring"}, entry.Aliases)

	_, ok = ParseArtifactItem("<ref>only markup</ref>")
	require.False(t, ok)
}
