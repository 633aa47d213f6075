package scrape

import (
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maruel/natural"
	"github.com/pkg/errors"
)

// UnreleasedBookTitle groups chapters that have no published audiobook
// yet.
const UnreleasedBookTitle = "Unreleased"

type TocChapter struct {
	Title string
	Href  string
}

type TocBook struct {
	Title    string
	Chapters []TocChapter
}

type TocVolume struct {
	Title string
	Books []TocBook
}

// TableOfContents is the parsed volume/book/chapter tree from the
// serial's table-of-contents page.
type TableOfContents struct {
	Volumes []TocVolume
}

// FetchTableOfContents downloads and parses the table of contents.
func FetchTableOfContents(session *Session) (*TableOfContents, error) {
	resp, err := session.Get(BaseURL + "/table-of-contents/")
	if err != nil {
		return nil, errors.Wrap(err, "fetching table of contents")
	}

	return ParseTableOfContents(strings.NewReader(string(resp.Body())))
}

// ParseTableOfContents parses the ToC page markup. Chapter hrefs are
// normalized to absolute URLs.
func ParseTableOfContents(r io.Reader) (*TableOfContents, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing table of contents")
	}

	toc := &TableOfContents{}
	doc.Find(".volume-wrapper").Each(func(_ int, volEle *goquery.Selection) {
		volume := TocVolume{
			Title: strings.TrimSpace(volEle.Find(".volume-header").First().Text()),
		}

		volEle.Find(".book-wrapper").Each(func(_ int, bookEle *goquery.Selection) {
			title := strings.TrimSpace(bookEle.Find(".book-header .head-book-title").First().Text())
			if title == "" {
				title = UnreleasedBookTitle
			}
			book := TocBook{Title: title}

			bookEle.Find(".book-body a").Each(func(_ int, a *goquery.Selection) {
				href, ok := a.Attr("href")
				if !ok {
					return
				}
				if !strings.HasPrefix(href, "http") {
					href = BaseURL + href
				}
				book.Chapters = append(book.Chapters, TocChapter{
					Title: strings.TrimSpace(a.Text()),
					Href:  href,
				})
			})

			volume.Books = append(volume.Books, book)
		})

		toc.Volumes = append(toc.Volumes, volume)
	})

	if len(toc.Volumes) == 0 {
		return nil, errors.New("table of contents has no volumes")
	}

	// ToC markup order has drifted before; volume titles sort naturally
	// ("Volume 2" before "Volume 10").
	sort.SliceStable(toc.Volumes, func(i, j int) bool {
		return natural.Less(toc.Volumes[i].Title, toc.Volumes[j].Title)
	})

	return toc, nil
}

// ChapterLinks flattens the tree into the ordered chapter URL list.
func (t *TableOfContents) ChapterLinks() []string {
	var links []string
	for _, vol := range t.Volumes {
		for _, book := range vol.Books {
			for _, ch := range book.Chapters {
				links = append(links, ch.Href)
			}
		}
	}
	return links
}

// FindVolume returns the named volume, if present.
func (t *TableOfContents) FindVolume(title string) (*TocVolume, bool) {
	for i := range t.Volumes {
		if strings.EqualFold(t.Volumes[i].Title, title) {
			return &t.Volumes[i], true
		}
	}
	return nil, false
}

// LatestChapter returns the last chapter link in the ToC.
func (t *TableOfContents) LatestChapter() (TocChapter, bool) {
	for i := len(t.Volumes) - 1; i >= 0; i-- {
		books := t.Volumes[i].Books
		for j := len(books) - 1; j >= 0; j-- {
			if n := len(books[j].Chapters); n > 0 {
				return books[j].Chapters[n-1], true
			}
		}
	}
	return TocChapter{}, false
}
