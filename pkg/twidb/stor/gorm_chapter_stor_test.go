package stor

import (
	"testing"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/stretchr/testify/require"
)

func seedChapters(t *testing.T, stors *Stors, wordCounts []int) []twimodel.Chapter {
	volume, err := stors.VolumeStor.CreateVolume(&twimodel.Volume{Number: 1, Title: "Volume 1"})
	require.NoError(t, err)
	book, err := stors.VolumeStor.CreateBook(&twimodel.Book{Number: 1, Title: "Book 1: The Inn", VolumeID: volume.ID})
	require.NoError(t, err)

	chapters := make([]twimodel.Chapter, 0, len(wordCounts))
	for i, wc := range wordCounts {
		ch, err := stors.ChapterStor.CreateChapter(&twimodel.Chapter{
			Number:    i + 1,
			Title:     "1." + string(rune('0'+i)),
			IsCanon:   true,
			SourceURL: "https://www.wanderinginn.com/2016/07/27/1-0" + string(rune('0'+i)) + "/",
			WordCount: wc,
			BookID:    book.ID,
		})
		require.NoError(t, err)
		chapters = append(chapters, *ch)
	}
	return chapters
}

func TestChapterWordCountStats(t *testing.T) {
	stors := newTestStors(t)
	seedChapters(t, stors, []int{1000, 3000, 2000, 9000, 500})

	total, err := stors.ChapterStor.TotalWordCount()
	require.NoError(t, err)
	require.Equal(t, int64(15500), total)

	longest, err := stors.ChapterStor.LongestChapter()
	require.NoError(t, err)
	require.Equal(t, 9000, longest.WordCount)

	shortest, err := stors.ChapterStor.ShortestChapter()
	require.NoError(t, err)
	require.Equal(t, 500, shortest.WordCount)

	median, err := stors.ChapterStor.MedianWordCount()
	require.NoError(t, err)
	require.Equal(t, 2000.0, median)
}

func TestMedianWordCountEvenCount(t *testing.T) {
	stors := newTestStors(t)
	seedChapters(t, stors, []int{1000, 2000, 3000, 4000})

	median, err := stors.ChapterStor.MedianWordCount()
	require.NoError(t, err)
	require.Equal(t, 2500.0, median)
}

func TestNonCanonExcludedFromStats(t *testing.T) {
	stors := newTestStors(t)
	chapters := seedChapters(t, stors, []int{1000, 2000})

	nonCanon, err := stors.ChapterStor.CreateChapter(&twimodel.Chapter{
		Number:    100,
		Title:     "A Non-Canon Mothers Day Special",
		IsCanon:   false,
		WordCount: 99999,
		BookID:    chapters[0].BookID,
	})
	require.NoError(t, err)

	longest, err := stors.ChapterStor.LongestChapter()
	require.NoError(t, err)
	require.NotEqual(t, nonCanon.ID, longest.ID)

	canonOnly, err := stors.ChapterStor.ListChapters(true)
	require.NoError(t, err)
	require.Len(t, canonOnly, 2)

	all, err := stors.ChapterStor.ListChapters(false)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestMaxChapterNumber(t *testing.T) {
	stors := newTestStors(t)

	max, err := stors.ChapterStor.MaxChapterNumber()
	require.NoError(t, err)
	require.Equal(t, 0, max)

	seedChapters(t, stors, []int{100, 200, 300})

	max, err = stors.ChapterStor.MaxChapterNumber()
	require.NoError(t, err)
	require.Equal(t, 3, max)
}

func TestGetChapterByURLEndpoint(t *testing.T) {
	stors := newTestStors(t)
	seedChapters(t, stors, []int{1000})

	for _, endpoint := range []string{"/2016/07/27/1-00/", "/2016/07/27/1-00"} {
		ch, err := stors.ChapterStor.GetChapterByURLEndpoint(endpoint)
		require.NoErrorf(t, err, "endpoint %q", endpoint)
		require.Equal(t, "1.0", ch.Title)
	}

	_, err := stors.ChapterStor.GetChapterByURLEndpoint("/2099/01/01/missing/")
	require.Error(t, err)
}

func TestReplaceChapterLines(t *testing.T) {
	stors := newTestStors(t)
	chapters := seedChapters(t, stors, []int{1000})

	err := stors.ChapterStor.ReplaceChapterLines(chapters[0].ID, []string{"first", "second"})
	require.NoError(t, err)

	err = stors.ChapterStor.ReplaceChapterLines(chapters[0].ID, []string{"only"})
	require.NoError(t, err)

	lines, err := stors.ChapterStor.ListChapterLines(chapters[0].ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 0, lines[0].LineNumber)
	require.Equal(t, "only", lines[0].Text)
}
