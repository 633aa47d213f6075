package stor

import (
	"testing"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/stretchr/testify/require"
)

type textRefFixture struct {
	stors    *Stors
	chapters []twimodel.Chapter
	erin     *twimodel.RefType
	skill    *twimodel.RefType
}

// newTextRefFixture seeds two chapters with one line each, plus refs:
// Erin mentioned in both chapters, [Immortal Moment] only in the first.
func newTextRefFixture(t *testing.T) *textRefFixture {
	stors := newTestStors(t)
	chapters := seedChapters(t, stors, []int{1000, 2000})

	erin, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Erin Solstice", Type: twimodel.RefTypeCharacter,
	})
	require.NoError(t, err)
	skill, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "[Immortal Moment]", Type: twimodel.RefTypeSkill,
	})
	require.NoError(t, err)

	lineText := []string{
		"Erin Solstice used [Immortal Moment] at the inn.",
		"Erin Solstice poured another drink.",
	}
	for i, ch := range chapters {
		require.NoError(t, stors.ChapterStor.ReplaceChapterLines(ch.ID, []string{lineText[i]}))
		lines, err := stors.ChapterStor.ListChapterLines(ch.ID)
		require.NoError(t, err)

		_, created, err := stors.TextRefStor.CreateTextRef(&twimodel.TextRef{
			ChapterLineID: lines[0].ID,
			RefTypeID:     erin.ID,
			StartColumn:   0,
			EndColumn:     13,
		})
		require.NoError(t, err)
		require.True(t, created)
		_, _, err = stors.TextRefStor.GetOrCreateRefTypeChapter(erin.ID, ch.ID)
		require.NoError(t, err)
	}

	lines, err := stors.ChapterStor.ListChapterLines(chapters[0].ID)
	require.NoError(t, err)
	_, _, err = stors.TextRefStor.CreateTextRef(&twimodel.TextRef{
		ChapterLineID: lines[0].ID,
		RefTypeID:     skill.ID,
		StartColumn:   19,
		EndColumn:     36,
	})
	require.NoError(t, err)
	_, _, err = stors.TextRefStor.GetOrCreateRefTypeChapter(skill.ID, chapters[0].ID)
	require.NoError(t, err)

	return &textRefFixture{stors: stors, chapters: chapters, erin: erin, skill: skill}
}

func TestCreateTextRefIsIdempotent(t *testing.T) {
	fix := newTextRefFixture(t)

	lines, err := fix.stors.ChapterStor.ListChapterLines(fix.chapters[0].ID)
	require.NoError(t, err)

	_, created, err := fix.stors.TextRefStor.CreateTextRef(&twimodel.TextRef{
		ChapterLineID: lines[0].ID,
		RefTypeID:     fix.erin.ID,
		StartColumn:   0,
		EndColumn:     13,
	})
	require.NoError(t, err)
	require.False(t, created)
}

func TestCountMentions(t *testing.T) {
	fix := newTextRefFixture(t)

	mentions, err := fix.stors.TextRefStor.CountMentions(fix.erin.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), mentions)

	mentions, err = fix.stors.TextRefStor.CountMentions(fix.skill.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), mentions)
}

func TestListMentionsByType(t *testing.T) {
	fix := newTextRefFixture(t)

	mentions, err := fix.stors.TextRefStor.ListMentionsByType(twimodel.RefTypeCharacter)
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	require.Equal(t, "Erin Solstice", mentions[0].Name)
	require.Equal(t, 2, mentions[0].Mentions)
}

func TestListChaptersForRefType(t *testing.T) {
	fix := newTextRefFixture(t)

	chapters, err := fix.stors.TextRefStor.ListChaptersForRefType(fix.erin.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	require.Equal(t, 1, chapters[0].Number)

	chapters, err = fix.stors.TextRefStor.ListChaptersForRefType(fix.skill.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
}

func TestSearchTextRefs(t *testing.T) {
	fix := newTextRefFixture(t)

	var tests = []struct {
		name          string
		search        TextRefSearch
		totalExpected int64
	}{
		{
			name:          "all character refs",
			search:        TextRefSearch{Type: twimodel.RefTypeCharacter},
			totalExpected: 2,
		},
		{
			name:          "name query",
			search:        TextRefSearch{NameQuery: "Immortal"},
			totalExpected: 1,
		},
		{
			name:          "text query",
			search:        TextRefSearch{TextQuery: "poured"},
			totalExpected: 1,
		},
		{
			name:          "chapter range",
			search:        TextRefSearch{FirstChapter: 2, LastChapter: 2},
			totalExpected: 1,
		},
		{
			name:          "colored only",
			search:        TextRefSearch{OnlyColored: true},
			totalExpected: 0,
		},
		{
			name:          "no match",
			search:        TextRefSearch{NameQuery: "Toren"},
			totalExpected: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rows, total, err := fix.stors.TextRefStor.SearchTextRefs(test.search)
			require.NoError(t, err)
			require.Equal(t, test.totalExpected, total)
			require.Len(t, rows, int(test.totalExpected))
		})
	}
}

func TestSearchTextRefsPagination(t *testing.T) {
	fix := newTextRefFixture(t)

	rows, total, err := fix.stors.TextRefStor.SearchTextRefs(TextRefSearch{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, rows, 2)

	rows, _, err = fix.stors.TextRefStor.SearchTextRefs(TextRefSearch{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestListChapterIDsWithTextRefs(t *testing.T) {
	fix := newTextRefFixture(t)

	ids, err := fix.stors.TextRefStor.ListChapterIDsWithTextRefs(fix.erin.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)
}
