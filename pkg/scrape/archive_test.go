package scrape

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testChapterData(title string) *ChapterData {
	data := &ChapterData{
		Title:        title,
		URL:          "https://www.wanderinginn.com/2016/07/27/1-00/",
		PubTime:      time.Date(2016, 7, 27, 12, 0, 0, 0, time.UTC),
		DownloadTime: time.Now(),
		RunID:        "test-run",
		Lines:        []string{"The inn was dark.", "Erin walked up the hill."},
		PreNote:      "(A short note.)\n",
		AuthorsNote:  "Author's Note: hello.\n",
		ColorSpans: []ColorSpan{
			{Line: 1, RGB: "99CCFF", StartColumn: 0, EndColumn: 4},
		},
	}
	data.WordCount = 9
	data.Digest = "abc123"
	return data
}

func TestSaveAndLoadChapter(t *testing.T) {
	root := t.TempDir()
	dir := ChapterDir(root, "Volume 1", "Book 1", 1, "1.00")

	data := testChapterData("1.00")
	require.NoError(t, SaveChapter(dir, data, false))

	loaded, err := LoadChapter(dir)
	require.NoError(t, err)

	require.Equal(t, data.Title, loaded.Title)
	require.Equal(t, data.URL, loaded.URL)
	require.Equal(t, data.Lines, loaded.Lines)
	require.Equal(t, data.Digest, loaded.Digest)
	require.Equal(t, data.RunID, loaded.RunID)
	require.Equal(t, data.ColorSpans, loaded.ColorSpans)
	require.Equal(t, data.PreNote, loaded.PreNote)
	require.Equal(t, data.AuthorsNote, loaded.AuthorsNote)
	require.True(t, data.PubTime.Equal(loaded.PubTime))
}

func TestSaveChapterRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	dir := ChapterDir(root, "Volume 1", "Book 1", 1, "1.00")

	require.NoError(t, SaveChapter(dir, testChapterData("1.00"), false))

	err := SaveChapter(dir, testChapterData("1.00 edited"), false)
	require.ErrorIs(t, err, os.ErrExist)

	// Clobber replaces the archived copy.
	require.NoError(t, SaveChapter(dir, testChapterData("1.00 edited"), true))
	loaded, err := LoadChapter(dir)
	require.NoError(t, err)
	require.Equal(t, "1.00 edited", loaded.Title)
}

func TestWalkArchiveOrder(t *testing.T) {
	root := t.TempDir()

	// Saved out of order; indexes and natural sorting restore it.
	require.NoError(t, SaveChapter(ChapterDir(root, "Volume 2", "Book 3", 1, "2.00"), testChapterData("2.00"), false))
	require.NoError(t, SaveChapter(ChapterDir(root, "Volume 1", "Book 1", 10, "1.10"), testChapterData("1.10"), false))
	require.NoError(t, SaveChapter(ChapterDir(root, "Volume 1", "Book 1", 2, "1.01"), testChapterData("1.01"), false))

	archived, err := WalkArchive(root)
	require.NoError(t, err)
	require.Len(t, archived, 3)

	require.Equal(t, "Volume 1", archived[0].Volume)
	require.Equal(t, "Volume 1", archived[1].Volume)
	require.Equal(t, "Volume 2", archived[2].Volume)

	first, err := LoadChapter(archived[0].Dir)
	require.NoError(t, err)
	require.Equal(t, "1.01", first.Title)
}

func TestWalkArchiveMissingRoot(t *testing.T) {
	_, err := WalkArchive(t.TempDir())
	require.Error(t, err)
}
