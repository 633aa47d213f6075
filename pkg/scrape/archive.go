package scrape

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"github.com/pkg/errors"
)

// Archive file names within a chapter directory.
const (
	textFile        = "text.txt"
	preNoteFile     = "prenote.txt"
	authorsNoteFile = "authors_note.txt"
	htmlFile        = "html.html"
	metadataFile    = "metadata.json"
)

// ChapterMetadata is the sidecar JSON saved next to chapter text.
type ChapterMetadata struct {
	Title                string      `json:"title"`
	URL                  string      `json:"url"`
	PubTime              time.Time   `json:"pub_time"`
	ModTime              time.Time   `json:"mod_time"`
	DownloadTime         time.Time   `json:"dl_time"`
	RunID                string      `json:"run_id"`
	WordCount            int         `json:"word_count"`
	AuthorsNoteWordCount int         `json:"authors_note_word_count"`
	Digest               string      `json:"digest"`
	ColorSpans           []ColorSpan `json:"color_spans,omitempty"`
}

// ChapterDir returns the directory for one archived chapter. Index
// keeps directory listings in reading order.
func ChapterDir(root, volume, book string, index int, title string) string {
	return filepath.Join(root, "volumes", volume, book,
		fmt.Sprintf("%04d-%s", index, slug.Make(title)))
}

// SaveChapter writes a parsed chapter into the archive. Existing
// directories are left alone unless clobber is set.
func SaveChapter(dir string, data *ChapterData, clobber bool) error {
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err == nil && !clobber {
		return os.ErrExist
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating chapter dir %s", dir)
	}

	files := map[string]string{
		textFile:        data.Text(),
		preNoteFile:     data.PreNote,
		authorsNoteFile: data.AuthorsNote,
		htmlFile:        data.HTML,
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
	}

	meta := ChapterMetadata{
		Title:                data.Title,
		URL:                  data.URL,
		PubTime:              data.PubTime,
		ModTime:              data.ModTime,
		DownloadTime:         data.DownloadTime,
		RunID:                data.RunID,
		WordCount:            data.WordCount,
		AuthorsNoteWordCount: data.AuthorsNoteWordCount,
		Digest:               data.Digest,
		ColorSpans:           data.ColorSpans,
	}

	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding chapter metadata")
	}

	return errors.Wrapf(os.WriteFile(filepath.Join(dir, metadataFile), encoded, 0o644),
		"writing %s", metadataFile)
}

// LoadChapter reads an archived chapter back into a ChapterData.
func LoadChapter(dir string) (*ChapterData, error) {
	rawMeta, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, errors.Wrapf(err, "reading metadata in %s", dir)
	}

	var meta ChapterMetadata
	if err := json.Unmarshal(rawMeta, &meta); err != nil {
		return nil, errors.Wrapf(err, "decoding metadata in %s", dir)
	}

	text, err := os.ReadFile(filepath.Join(dir, textFile))
	if err != nil {
		return nil, errors.Wrapf(err, "reading chapter text in %s", dir)
	}

	data := &ChapterData{
		Title:                meta.Title,
		URL:                  meta.URL,
		PubTime:              meta.PubTime,
		ModTime:              meta.ModTime,
		DownloadTime:         meta.DownloadTime,
		RunID:                meta.RunID,
		WordCount:            meta.WordCount,
		AuthorsNoteWordCount: meta.AuthorsNoteWordCount,
		Digest:               meta.Digest,
		ColorSpans:           meta.ColorSpans,
	}

	for _, line := range strings.Split(strings.TrimRight(string(text), "\n"), "\n") {
		data.Lines = append(data.Lines, line)
	}

	if preNote, err := os.ReadFile(filepath.Join(dir, preNoteFile)); err == nil {
		data.PreNote = string(preNote)
	}
	if authorsNote, err := os.ReadFile(filepath.Join(dir, authorsNoteFile)); err == nil {
		data.AuthorsNote = string(authorsNote)
	}

	return data, nil
}

// ArchivedChapter locates one chapter directory within the archive tree.
type ArchivedChapter struct {
	Volume string
	Book   string
	Dir    string
}

// WalkArchive lists archived chapters in natural reading order.
func WalkArchive(root string) ([]ArchivedChapter, error) {
	volumesDir := filepath.Join(root, "volumes")
	volumes, err := sortedSubdirs(volumesDir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing volumes in %s", volumesDir)
	}

	var chapters []ArchivedChapter
	for _, volume := range volumes {
		books, err := sortedSubdirs(filepath.Join(volumesDir, volume))
		if err != nil {
			return nil, err
		}
		for _, book := range books {
			dirs, err := sortedSubdirs(filepath.Join(volumesDir, volume, book))
			if err != nil {
				return nil, err
			}
			for _, dir := range dirs {
				chapters = append(chapters, ArchivedChapter{
					Volume: volume,
					Book:   book,
					Dir:    filepath.Join(volumesDir, volume, book, dir),
				})
			}
		}
	}
	return chapters, nil
}

func sortedSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names, nil
}
