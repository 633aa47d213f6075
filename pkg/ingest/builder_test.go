package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/innverse/twistats/pkg/scrape"
	"github.com/innverse/twistats/pkg/textscan"
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
)

// writeArchiveChapter saves one chapter into a temp archive tree.
func writeArchiveChapter(t *testing.T, root, title string, index int, lines []string, spans []scrape.ColorSpan) {
	data := &scrape.ChapterData{
		Title:        title,
		URL:          "https://www.wanderinginn.com/2016/07/27/" + title + "/",
		PubTime:      time.Date(2016, 7, 27, 12, 0, 0, 0, time.UTC),
		DownloadTime: time.Now(),
		Lines:        lines,
		ColorSpans:   spans,
		WordCount:    len(lines) * 5,
		Digest:       "digest-" + title,
	}

	dir := scrape.ChapterDir(root, "Volume 1", "Book 1", index, title)
	require.NoError(t, scrape.SaveChapter(dir, data, false))
}

func seedErin(t *testing.T, stors *stor.Stors) *twimodel.RefType {
	erin, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Erin Solstice",
		Type: twimodel.RefTypeCharacter,
	})
	require.NoError(t, err)

	_, err = stors.RefTypeStor.CreateAlias(&twimodel.Alias{Name: "Erin", RefTypeID: erin.ID})
	require.NoError(t, err)
	return erin
}

func TestBuildFromArchive(t *testing.T) {
	stors := newTestStors(t)
	erin := seedErin(t, stors)

	root := t.TempDir()
	writeArchiveChapter(t, root, "1.00", 1, []string{
		"Erin Solstice walked into the inn.",
		"The [Immortal Moment] passed.",
		"[Innkeeper Class obtained]",
	}, []scrape.ColorSpan{
		{Line: 2, RGB: "99CCFF", StartColumn: 0, EndColumn: 26},
	})

	builder := NewBuilder(stors)
	stats, err := builder.BuildFromArchive(root)
	require.NoError(t, err)

	require.Equal(t, 1, stats.ChaptersSeen)
	require.Equal(t, 1, stats.ChaptersBuilt)
	require.Equal(t, 0, stats.ChaptersSkipped)

	// The class announcement creates its own RefType; the unknown
	// bracket phrase is skipped by the unattended resolver.
	require.Equal(t, 1, stats.RefTypesCreated)
	require.Equal(t, 2, stats.TextRefsCreated)
	require.Equal(t, 1, stats.MentionsSkipped)

	volume, err := stors.VolumeStor.GetVolumeByTitle("Volume 1")
	require.NoError(t, err)
	require.Equal(t, 1, volume.Number)

	chapter, err := stors.ChapterStor.GetChapterByTitle("1.00")
	require.NoError(t, err)
	require.Equal(t, 1, chapter.Number)
	require.True(t, chapter.IsCanon)

	announcement, err := stors.RefTypeStor.GetRefType("[Innkeeper Class obtained]", twimodel.RefTypeClassUpdate)
	require.NoError(t, err)

	count, err := stors.TextRefStor.CountMentions(erin.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	chapters, err := stors.TextRefStor.ListChaptersForRefType(announcement.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)

	// The announcement sits inside a colored span.
	rows, total, err := stors.TextRefStor.SearchTextRefs(stor.TextRefSearch{OnlyColored: true})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "[Innkeeper Class obtained]", rows[0].RefTypeName)
	require.Equal(t, "99CCFF", rows[0].ColorRGB)
}

func TestBuildSkipsUnchangedChapters(t *testing.T) {
	stors := newTestStors(t)
	seedErin(t, stors)

	root := t.TempDir()
	writeArchiveChapter(t, root, "1.00", 1, []string{"Erin Solstice smiled."}, nil)

	builder := NewBuilder(stors)
	_, err := builder.BuildFromArchive(root)
	require.NoError(t, err)

	stats, err := builder.BuildFromArchive(root)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ChaptersSeen)
	require.Equal(t, 0, stats.ChaptersBuilt)
	require.Equal(t, 1, stats.ChaptersSkipped)

	// Clobber forces the rebuild; lines are rewritten so the refs are
	// located again on fresh rows.
	clobbered := NewBuilder(stors, WithClobber(true))
	stats, err = clobbered.BuildFromArchive(root)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ChaptersBuilt)
	require.Equal(t, 1, stats.TextRefsCreated)
}

func TestBuildAppliesDisambiguation(t *testing.T) {
	stors := newTestStors(t)

	_, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Doctor",
		Type: twimodel.RefTypeUndecided,
	})
	require.NoError(t, err)

	cfgYAML := `ambiguous:
  - alias: Doctor
    ref_type: Geneva Scala
    type: CH
    allow:
      - surgery
    deny:
      - doctor who
`
	cfgPath := filepath.Join(t.TempDir(), "disambig.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))
	cfg, err := textscan.LoadDisambiguationConfig(cfgPath)
	require.NoError(t, err)

	root := t.TempDir()
	writeArchiveChapter(t, root, "1.00", 1, []string{
		"The Doctor finished the surgery.",
		"They watched Doctor Who during surgery.",
	}, nil)

	builder := NewBuilder(stors, WithDisambiguation(cfg))
	stats, err := builder.BuildFromArchive(root)
	require.NoError(t, err)

	require.Equal(t, 1, stats.TextRefsCreated)
	require.Equal(t, 1, stats.MentionsSkipped)

	geneva, err := stors.RefTypeStor.GetRefType("Geneva Scala", twimodel.RefTypeCharacter)
	require.NoError(t, err)

	count, err := stors.TextRefStor.CountMentions(geneva.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

// recordingResolver captures every classification request and answers
// with a fixed resolution.
type recordingResolver struct {
	resolution Resolution

	texts      []string
	candidates [][]twimodel.RefType
}

func (r *recordingResolver) ResolveNewRefType(m textscan.Match, chapterTitle string, candidates []twimodel.RefType) (Resolution, error) {
	r.texts = append(r.texts, m.Text)
	r.candidates = append(r.candidates, candidates)
	return r.resolution, nil
}

func unresolvedDoctorConfig(t *testing.T) *textscan.DisambiguationConfig {
	cfgYAML := `ambiguous:
  - alias: Doctor
    ref_type: Geneva Scala
    type: CH
    allow:
      - surgery
    deny:
      - doctor who
`
	cfgPath := filepath.Join(t.TempDir(), "disambig.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))
	cfg, err := textscan.LoadDisambiguationConfig(cfgPath)
	require.NoError(t, err)
	return cfg
}

func TestBuildPromptsForUnresolvedAliases(t *testing.T) {
	stors := newTestStors(t)

	_, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Doctor",
		Type: twimodel.RefTypeUndecided,
	})
	require.NoError(t, err)
	geneva, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Geneva Scala",
		Type: twimodel.RefTypeCharacter,
	})
	require.NoError(t, err)

	root := t.TempDir()
	writeArchiveChapter(t, root, "1.00", 1, []string{
		"The Doctor arrived at the inn.",
	}, nil)

	// Neither the allow nor the deny context matches, so the mention
	// goes to the resolver.
	resolver := &recordingResolver{resolution: Resolution{Existing: geneva}}
	builder := NewBuilder(stors,
		WithDisambiguation(unresolvedDoctorConfig(t)),
		WithResolver(resolver))
	stats, err := builder.BuildFromArchive(root)
	require.NoError(t, err)

	require.Equal(t, []string{"Doctor"}, resolver.texts)
	require.NotEmpty(t, resolver.candidates[0])
	require.Equal(t, "Doctor", resolver.candidates[0][0].Name)

	require.Equal(t, 1, stats.TextRefsCreated)
	require.Equal(t, 0, stats.MentionsSkipped)

	count, err := stors.TextRefStor.CountMentions(geneva.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestBuildSkipsUnresolvedAliasesUnattended(t *testing.T) {
	stors := newTestStors(t)

	_, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Doctor",
		Type: twimodel.RefTypeUndecided,
	})
	require.NoError(t, err)

	root := t.TempDir()
	writeArchiveChapter(t, root, "1.00", 1, []string{
		"The Doctor arrived at the inn.",
	}, nil)

	builder := NewBuilder(stors, WithDisambiguation(unresolvedDoctorConfig(t)))
	stats, err := builder.BuildFromArchive(root)
	require.NoError(t, err)

	require.Equal(t, 0, stats.TextRefsCreated)
	require.Equal(t, 1, stats.MentionsSkipped)
}

func TestRebuildRefTypeChapters(t *testing.T) {
	stors := newTestStors(t)
	erin := seedErin(t, stors)

	root := t.TempDir()
	writeArchiveChapter(t, root, "1.00", 1, []string{"Erin Solstice smiled."}, nil)

	builder := NewBuilder(stors)
	_, err := builder.BuildFromArchive(root)
	require.NoError(t, err)

	require.NoError(t, builder.RebuildRefTypeChapters())

	chapters, err := stors.TextRefStor.ListChaptersForRefType(erin.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	require.Equal(t, "1.00", chapters[0].Title)
}

func TestFuzzyCandidates(t *testing.T) {
	refTypes := []twimodel.RefType{
		{Name: "[Innkeeper]"},
		{Name: "[Farmer]"},
		{Name: "Erin Solstice"},
	}

	candidates := fuzzyCandidates("[Innkeepers]", refTypes)
	require.Len(t, candidates, 1)
	require.Equal(t, "[Innkeeper]", candidates[0].Name)

	require.Empty(t, fuzzyCandidates("completely different", refTypes))
}
