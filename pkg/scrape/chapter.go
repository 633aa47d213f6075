package scrape

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// Parse rejections. Chapters that trip these are skipped, not fatal.
var (
	ErrPatreonLocked         = errors.New("chapter is patreon locked")
	ErrOverlappingPartitions = errors.New("chapter note partitions overlap")
	ErrTooManyAuthorsNotes   = errors.New("chapter has more than two author's notes")
	ErrNoContent             = errors.New("chapter page has no entry content")
)

// ColorSpan records a run of colored text within a chapter line.
// Columns are rune offsets into the plain-text line.
type ColorSpan struct {
	Line        int
	RGB         string
	StartColumn int
	EndColumn   int
}

// ChapterData is everything parsed from one chapter page.
type ChapterData struct {
	Title                string
	URL                  string
	PubTime              time.Time
	ModTime              time.Time
	DownloadTime         time.Time
	RunID                string
	Lines                []string
	ColorSpans           []ColorSpan
	PreNote              string
	AuthorsNote          string
	WordCount            int
	AuthorsNoteWordCount int
	Digest               string
	HTML                 string
}

// Text joins the chapter lines back into the canonical text form used
// for word counts and the content digest.
func (c *ChapterData) Text() string {
	return strings.Join(c.Lines, "\n") + "\n"
}

var (
	linkRe           = regexp.MustCompile(`.*http[s]?://.*`)
	preNoteStartRe   = regexp.MustCompile(`^[(\[<].*`)
	preNoteEndRe     = regexp.MustCompile(`.*[)\]>]\n?$`)
	signedPreNoteRe  = regexp.MustCompile(`.*[-—][ ]?[Pp]irateaba.*`)
	authorsNoteRe    = regexp.MustCompile(`(Actual )?Author['’]?s['’]? [Nn]ote.*`)
	fanartCreditRe   = regexp.MustCompile(`.*([Bb]luesky|[Dd]eviant[Aa]rt|[Ii]nstagram|[Kk]o-?[Ff]i|[Tt]witter).*`)
	colorStyleRe     = regexp.MustCompile(`color:\s*#([0-9a-fA-F]{6})`)
	maxFanartLookback = 200
)

// identifyPreNoteRange finds how many leading lines belong to a
// pre-chapter note: a bracketed/parenthesized opener near the top,
// lines with links, or a signed note.
func identifyPreNoteRange(lines []string) int {
	stop := 0

	limit := func(n int) int {
		if len(lines) < n {
			return len(lines)
		}
		return n
	}

	for i := 0; i < limit(3); i++ {
		if !preNoteStartRe.MatchString(lines[i]) {
			continue
		}
		emptyCount := 0
		for j := i; j < limit(20); j++ {
			if emptyCount > 3 {
				stop = j
				break
			}
			if strings.TrimSpace(lines[j]) == "" {
				emptyCount++
			}
			if preNoteEndRe.MatchString(lines[j]) {
				stop = j + 1
				break
			}
		}
	}

	for i := 0; i < limit(20); i++ {
		if linkRe.MatchString(lines[i]) && i >= stop {
			stop = i + 1
		}
	}

	for i := 0; i < limit(20); i++ {
		for _, split := range strings.Split(lines[i], "\n") {
			if signedPreNoteRe.MatchString(split) && i >= stop {
				stop = i + 1
			}
		}
	}

	return stop
}

type lineRange struct {
	start, stop int
}

func (r lineRange) overlaps(o lineRange) bool {
	return r.start > o.start && o.stop > r.start || r.start < o.start && r.stop > o.start
}

// identifyAuthorsNoteRanges finds explicitly marked Author's Note
// sections. A note runs until four consecutive blank lines or EOF.
func identifyAuthorsNoteRanges(lines []string) []lineRange {
	var ranges []lineRange
	for i, line := range lines {
		if !authorsNoteRe.MatchString(strings.TrimSpace(line)) {
			continue
		}

		r := lineRange{start: i, stop: len(lines)}
		emptyCount := 0
		for j := i; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				emptyCount++
				if emptyCount >= 4 {
					r.stop = j
					break
				}
			} else {
				emptyCount = 0
			}
		}
		ranges = append(ranges, r)
	}
	return ranges
}

func stripEmpty(lines []string) []string {
	var out []string
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseChapterPage parses a downloaded chapter page into its text,
// notes, colored spans and metadata.
func ParseChapterPage(pageHTML, url string) (*ChapterData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, errors.Wrap(err, "parsing chapter page")
	}

	content := doc.Find(".entry-content").First()
	if content.Length() == 0 {
		return nil, ErrNoContent
	}

	children := content.Children()
	var contentLines []string
	children.Each(func(_ int, sel *goquery.Selection) {
		contentLines = append(contentLines, sel.Text())
	})

	// The last two elements are the previous/next chapter links.
	if len(contentLines) >= 2 {
		contentLines = contentLines[:len(contentLines)-2]
	}

	if len(contentLines) < 10 {
		for _, line := range contentLines {
			if strings.Contains(line, "Patreon") {
				return nil, ErrPatreonLocked
			}
		}
	}

	// Trim fanart images and artist credits from the end of the chapter.
	firstImgIndex := len(contentLines)
	for i := 0; i < children.Length() && i < maxFanartLookback; i++ {
		idx := children.Length() - 1 - i
		sel := children.Eq(idx)
		if sel.Find("img").Length() > 0 || fanartCreditRe.MatchString(sel.Text()) {
			firstImgIndex = idx
			cut := firstImgIndex - 3
			if cut < 0 {
				cut = 0
			}
			if cut < len(contentLines) {
				contentLines = contentLines[:cut]
			}
		}
	}

	preNoteStop := identifyPreNoteRange(contentLines)
	preNoteLines := contentLines[:min(preNoteStop, len(contentLines))]

	noteRanges := identifyAuthorsNoteRanges(contentLines)

	for _, r := range noteRanges {
		if preNoteStop > r.start {
			return nil, errors.Wrap(ErrOverlappingPartitions, "pre-note overlaps an author's note")
		}
	}
	for i, r1 := range noteRanges {
		for j, r2 := range noteRanges {
			if i != j && r1.overlaps(r2) {
				return nil, errors.Wrap(ErrOverlappingPartitions, "author's notes overlap")
			}
		}
	}

	var chapterLines []string
	switch len(noteRanges) {
	case 0:
		chapterLines = stripEmpty(contentLines[min(preNoteStop, len(contentLines)):])
	case 1:
		head := contentLines[min(preNoteStop, len(contentLines)):max(noteRanges[0].start-1, preNoteStop)]
		tail := contentLines[min(noteRanges[0].stop, len(contentLines)):]
		chapterLines = stripEmpty(append(append([]string{}, head...), tail...))
	case 2:
		head := contentLines[min(preNoteStop, len(contentLines)):max(noteRanges[0].start, preNoteStop)]
		mid := contentLines[min(noteRanges[0].stop+1, len(contentLines)):max(noteRanges[1].start, noteRanges[0].stop)]
		chapterLines = stripEmpty(append(append([]string{}, head...), mid...))
	default:
		return nil, ErrTooManyAuthorsNotes
	}

	var noteLines []string
	for _, r := range noteRanges {
		noteLines = append(noteLines, stripEmpty(contentLines[r.start:min(r.stop, len(contentLines))])...)
	}

	data := &ChapterData{
		URL:          url,
		DownloadTime: time.Now(),
		Lines:        chapterLines,
		PreNote:      strings.Join(stripEmpty(preNoteLines), "\n") + "\n",
		AuthorsNote:  strings.Join(noteLines, "\n") + "\n",
	}

	data.WordCount = len(strings.Fields(data.Text()))
	data.AuthorsNoteWordCount = len(strings.Fields(data.AuthorsNote))

	digest := sha256.Sum256([]byte(data.Text()))
	data.Digest = hex.EncodeToString(digest[:])

	data.ColorSpans = extractColorSpans(data.Lines, content)

	if h, err := goquery.OuterHtml(content); err == nil {
		data.HTML = h
	}

	data.Title = strings.TrimSpace(doc.Find(".entry-title").First().Text())
	if pub, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		if t, err := time.Parse(time.RFC3339, pub); err == nil {
			data.PubTime = t
		}
	}
	if mod, ok := doc.Find(`meta[property="article:modified_time"]`).Attr("content"); ok {
		if t, err := time.Parse(time.RFC3339, mod); err == nil {
			data.ModTime = t
		}
	}

	return data, nil
}

// extractColorSpans finds colored span runs and locates them within the
// retained chapter lines by text search. Spans whose text no longer
// appears (trimmed notes, fanart credits) are dropped.
func extractColorSpans(lines []string, content *goquery.Selection) []ColorSpan {
	var spans []ColorSpan
	content.Find("span[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		m := colorStyleRe.FindStringSubmatch(style)
		if m == nil {
			return
		}
		spanText := strings.TrimSpace(sel.Text())
		if spanText == "" {
			return
		}

		for lineNo, line := range lines {
			byteIdx := strings.Index(line, spanText)
			if byteIdx < 0 {
				continue
			}
			start := len([]rune(line[:byteIdx]))
			spans = append(spans, ColorSpan{
				Line:        lineNo,
				RGB:         strings.ToUpper(m[1]),
				StartColumn: start,
				EndColumn:   start + len([]rune(spanText)),
			})
			break
		}
	})
	return spans
}

// Covers reports whether the span covers the given column range on its
// line.
func (s ColorSpan) Covers(line, startColumn, endColumn int) bool {
	return s.Line == line && s.StartColumn <= startColumn && endColumn <= s.EndColumn
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
