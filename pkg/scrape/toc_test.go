package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const tocHTML = `
<html><body>
<div class="volume-wrapper">
  <div class="volume-header">Volume 10</div>
  <div class="book-wrapper">
    <div class="book-header"><span class="head-book-title"></span></div>
    <div class="book-body">
      <a href="/2023/01/01/10-01/">10.01</a>
    </div>
  </div>
</div>
<div class="volume-wrapper">
  <div class="volume-header">Volume 1</div>
  <div class="book-wrapper">
    <div class="book-header"><span class="head-book-title">Book 1: The Wandering Inn</span></div>
    <div class="book-body">
      <a href="/2016/07/27/1-00/">1.00</a>
      <a href="https://www.wanderinginn.com/2016/07/31/1-01/">1.01</a>
    </div>
  </div>
  <div class="book-wrapper">
    <div class="book-header"><span class="head-book-title">Book 2: The Last Light</span></div>
    <div class="book-body">
      <a href="/2016/09/01/1-30/">1.30</a>
    </div>
  </div>
</div>
</body></html>`

func TestParseTableOfContents(t *testing.T) {
	toc, err := ParseTableOfContents(strings.NewReader(tocHTML))
	require.NoError(t, err)
	require.Len(t, toc.Volumes, 2)

	// Natural ordering puts Volume 1 before Volume 10.
	require.Equal(t, "Volume 1", toc.Volumes[0].Title)
	require.Equal(t, "Volume 10", toc.Volumes[1].Title)

	vol1 := toc.Volumes[0]
	require.Len(t, vol1.Books, 2)
	require.Equal(t, "Book 1: The Wandering Inn", vol1.Books[0].Title)
	require.Len(t, vol1.Books[0].Chapters, 2)

	// Relative hrefs are made absolute; absolute ones are untouched.
	require.Equal(t, BaseURL+"/2016/07/27/1-00/", vol1.Books[0].Chapters[0].Href)
	require.Equal(t, "https://www.wanderinginn.com/2016/07/31/1-01/", vol1.Books[0].Chapters[1].Href)

	// A book with no title groups unreleased chapters.
	require.Equal(t, UnreleasedBookTitle, toc.Volumes[1].Books[0].Title)
}

func TestParseTableOfContentsEmpty(t *testing.T) {
	_, err := ParseTableOfContents(strings.NewReader("<html><body></body></html>"))
	require.Error(t, err)
}

func TestChapterLinks(t *testing.T) {
	toc, err := ParseTableOfContents(strings.NewReader(tocHTML))
	require.NoError(t, err)

	links := toc.ChapterLinks()
	require.Len(t, links, 4)
	require.Equal(t, BaseURL+"/2016/07/27/1-00/", links[0])
}

func TestFindVolume(t *testing.T) {
	toc, err := ParseTableOfContents(strings.NewReader(tocHTML))
	require.NoError(t, err)

	vol, ok := toc.FindVolume("volume 10")
	require.True(t, ok)
	require.Equal(t, "Volume 10", vol.Title)

	_, ok = toc.FindVolume("Volume 99")
	require.False(t, ok)
}

func TestLatestChapter(t *testing.T) {
	toc, err := ParseTableOfContents(strings.NewReader(tocHTML))
	require.NoError(t, err)

	latest, ok := toc.LatestChapter()
	require.True(t, ok)
	require.Equal(t, "10.01", latest.Title)
}
