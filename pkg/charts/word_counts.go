package charts

import (
	"sort"
	"strconv"
	"strings"

	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
)

// WordCountGallery builds the word-count category charts.
func WordCountGallery(stors *stor.Stors) (*Gallery, error) {
	chapters, err := stors.ChapterStor.ListChapters(true)
	if err != nil {
		return nil, err
	}

	volumes, err := stors.VolumeStor.ListVolumes()
	if err != nil {
		return nil, err
	}

	books := make(map[int]twimodel.Book)
	bookVolume := make(map[int]string)
	for _, volume := range volumes {
		for _, book := range volume.Books {
			books[book.ID] = book
			bookVolume[book.ID] = volume.Title
		}
	}

	items := []GalleryItem{
		wordCountPerChapter(chapters),
		cumulativeWordCount(chapters),
		wordCountByBook(chapters, books),
		wordCountByVolume(chapters, books, bookVolume, volumes),
		authorsNoteWordCount(chapters),
	}

	return NewGallery("Word Counts", items...), nil
}

func wordCountPerChapter(chapters []twimodel.Chapter) GalleryItem {
	labels := make([]string, 0, len(chapters))
	values := make([]float64, 0, len(chapters))
	xs := make([]float64, 0, len(chapters))
	for _, ch := range chapters {
		labels = append(labels, strconv.Itoa(ch.Number))
		values = append(values, float64(ch.WordCount))
		xs = append(xs, float64(ch.Number))
	}

	return NewGalleryItem(
		"Word Counts by Chapter",
		"Word count of every canon chapter in posting order.",
		scatterHTML("Word Counts by Chapter", "Word Count", labels, values),
		linePNG(xs, values),
	)
}

func cumulativeWordCount(chapters []twimodel.Chapter) GalleryItem {
	byDate := make([]twimodel.Chapter, len(chapters))
	copy(byDate, chapters)
	sort.Slice(byDate, func(i, j int) bool { return byDate[i].PostDate.Before(byDate[j].PostDate) })

	labels := make([]string, 0, len(byDate))
	values := make([]float64, 0, len(byDate))
	xs := make([]float64, 0, len(byDate))
	total := 0.0
	for i, ch := range byDate {
		total += float64(ch.WordCount)
		labels = append(labels, ch.PostDate.Format("2006-01-02"))
		values = append(values, total)
		xs = append(xs, float64(i))
	}

	return NewGalleryItem(
		"Total Word Counts",
		"Cumulative word count over the serial's posting history.",
		lineHTML("Total Word Counts", "Total Words", labels, values),
		linePNG(xs, values),
	)
}

func wordCountByBook(chapters []twimodel.Chapter, books map[int]twimodel.Book) GalleryItem {
	totals := make(map[int]float64)
	for _, ch := range chapters {
		totals[ch.BookID] += float64(ch.WordCount)
	}

	ordered := make([]twimodel.Book, 0, len(books))
	for id, book := range books {
		if strings.Contains(book.Title, "Unreleased") {
			continue
		}
		if totals[id] > 0 {
			ordered = append(ordered, book)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].VolumeID != ordered[j].VolumeID {
			return ordered[i].VolumeID < ordered[j].VolumeID
		}
		return ordered[i].Number < ordered[j].Number
	})

	labels := make([]string, 0, len(ordered))
	values := make([]float64, 0, len(ordered))
	for _, book := range ordered {
		labels = append(labels, book.TitleShort)
		values = append(values, totals[book.ID])
	}

	return NewGalleryItem(
		"Word Counts by Book",
		"Total word count of each released audiobook.",
		barHTML("Word Counts by Book", "Word Count", labels, values, false),
		barPNG(labels, values),
	)
}

func wordCountByVolume(chapters []twimodel.Chapter, books map[int]twimodel.Book, bookVolume map[int]string, volumes []twimodel.Volume) GalleryItem {
	totals := make(map[string]float64)
	for _, ch := range chapters {
		totals[bookVolume[ch.BookID]] += float64(ch.WordCount)
	}

	labels := make([]string, 0, len(volumes))
	values := make([]float64, 0, len(volumes))
	for _, volume := range volumes {
		if totals[volume.Title] == 0 {
			continue
		}
		labels = append(labels, volume.Title)
		values = append(values, totals[volume.Title])
	}

	return NewGalleryItem(
		"Word Counts by Volume",
		"Total word count of each web volume.",
		barHTML("Word Counts by Volume", "Word Count", labels, values, false),
		barPNG(labels, values),
	)
}

func authorsNoteWordCount(chapters []twimodel.Chapter) GalleryItem {
	labels := make([]string, 0, len(chapters))
	values := make([]float64, 0, len(chapters))
	xs := make([]float64, 0, len(chapters))
	for _, ch := range chapters {
		if ch.AuthorsNoteWordCount == 0 {
			continue
		}
		labels = append(labels, strconv.Itoa(ch.Number))
		values = append(values, float64(ch.AuthorsNoteWordCount))
		xs = append(xs, float64(ch.Number))
	}

	return NewGalleryItem(
		"Author's Note Word Counts",
		"Word count of each author's note, where one exists.",
		lineHTML("Author's Note Word Counts", "Word Count", labels, values),
		linePNG(xs, values),
	)
}
