package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/innverse/twistats/pkg/wiki"
)

func TestIngestCharacters(t *testing.T) {
	stors := newTestStors(t)

	volume, err := stors.VolumeStor.CreateVolume(&twimodel.Volume{Number: 1, Title: "Volume 1"})
	require.NoError(t, err)
	book, err := stors.VolumeStor.CreateBook(&twimodel.Book{Number: 1, Title: "Book 1", VolumeID: volume.ID})
	require.NoError(t, err)
	chapter, err := stors.ChapterStor.CreateChapter(&twimodel.Chapter{
		Number:    1,
		Title:     "1.00",
		IsCanon:   true,
		SourceURL: "https://www.wanderinginn.com/2016/07/27/1-00/",
		PostDate:  time.Now(),
		BookID:    book.ID,
	})
	require.NoError(t, err)

	records := []wiki.CharacterRecord{
		{
			Name:       "Bird",
			Aliases:    []string{"Bird the Hunter", "Bird"},
			Status:     "Alive",
			Species:    "Antinium",
			FirstHrefs: []string{"https://www.wanderinginn.com/2016/07/27/1-00/"},
			WikiURL:    "https://thewanderinginn.fandom.com/wiki/Bird",
		},
		{
			Name:    "Erin Solstice",
			Status:  "Deceased",
			Species: "Human",
			WikiURL: "https://thewanderinginn.fandom.com/wiki/Erin_Solstice",
		},
	}

	builder := NewBuilder(stors)
	stats, err := builder.IngestCharacters(records)
	require.NoError(t, err)
	require.Equal(t, 2, stats.RefTypes)

	// The alias matching the name itself is dropped.
	require.Equal(t, 1, stats.Aliases)

	bird, err := stors.RefTypeStor.GetRefType("Bird", twimodel.RefTypeCharacter)
	require.NoError(t, err)
	character, err := stors.RefTypeStor.GetCharacter(bird.ID)
	require.NoError(t, err)
	require.Equal(t, twimodel.StatusAlive, character.Status)
	require.Equal(t, "AN", character.Species)
	require.NotNil(t, character.FirstChapterID)
	require.Equal(t, chapter.ID, *character.FirstChapterID)

	erin, err := stors.RefTypeStor.GetRefType("Erin Solstice", twimodel.RefTypeCharacter)
	require.NoError(t, err)
	erinChar, err := stors.RefTypeStor.GetCharacter(erin.ID)
	require.NoError(t, err)
	require.Equal(t, twimodel.StatusDead, erinChar.Status)
	require.Equal(t, "HU", erinChar.Species)
	require.Nil(t, erinChar.FirstChapterID)
}

func TestIngestSkillsBracketsNames(t *testing.T) {
	stors := newTestStors(t)
	builder := NewBuilder(stors)

	rows := []wiki.SkillRow{
		{Name: "Bar Fighting", Aliases: []string{"Barfighting"}},
		{Name: "[Like Fire, Memory]"},
	}

	stats, err := builder.IngestSkills(rows, "https://thewanderinginn.fandom.com/wiki/Skills")
	require.NoError(t, err)
	require.Equal(t, 2, stats.RefTypes)
	require.Equal(t, 1, stats.Aliases)

	// Names get bracketed; already bracketed names stay as written.
	_, err = stors.RefTypeStor.GetRefType("[Bar Fighting]", twimodel.RefTypeSkill)
	require.NoError(t, err)
	_, err = stors.RefTypeStor.GetRefType("[Like Fire, Memory]", twimodel.RefTypeSkill)
	require.NoError(t, err)

	barFighting, err := stors.RefTypeStor.GetRefType("[Bar Fighting]", twimodel.RefTypeSkill)
	require.NoError(t, err)
	aliases, err := stors.RefTypeStor.ListAliasesForRefType(barFighting.ID)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	require.Equal(t, "[Barfighting]", aliases[0].Name)
}

func TestIngestClassesAndArtifacts(t *testing.T) {
	stors := newTestStors(t)
	builder := NewBuilder(stors)

	classStats, err := builder.IngestClasses([]wiki.ClassRow{{Name: "Innkeeper"}})
	require.NoError(t, err)
	require.Equal(t, 1, classStats.RefTypes)
	_, err = stors.RefTypeStor.GetRefType("[Innkeeper]", twimodel.RefTypeClass)
	require.NoError(t, err)

	artifactStats, err := builder.IngestArtifacts([]wiki.ArtifactEntry{
		{Name: "Amulet of Health", Aliases: []string{"Amulet of Good Health"}},
	}, "https://thewanderinginn.fandom.com/wiki/Artifacts")
	require.NoError(t, err)
	require.Equal(t, 1, artifactStats.RefTypes)
	require.Equal(t, 1, artifactStats.Aliases)

	// Artifacts keep their plain names.
	amulet, err := stors.RefTypeStor.GetRefType("Amulet of Health", twimodel.RefTypeItem)
	require.NoError(t, err)
	require.NotZero(t, amulet.ID)
}
