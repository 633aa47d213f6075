package twimodel

import (
	"regexp"
	"time"
)

type Chapter struct {
	ID                   int       `json:"id"`
	Number               int       `json:"number" gorm:"uniqueIndex;index"`
	Title                string    `json:"title" gorm:"uniqueIndex"`
	IsInterlude          bool      `json:"is_interlude"`
	IsCanon              bool      `json:"is_canon" gorm:"default:true"`
	IsStatusUpdate       bool      `json:"is_status_update"`
	SourceURL            string    `json:"source_url"`
	PostDate             time.Time `json:"post_date"`
	LastUpdate           time.Time `json:"last_update"`
	DownloadDate         time.Time `json:"download_date"`
	WordCount            int       `json:"word_count"`
	AuthorsNoteWordCount int       `json:"authors_note_word_count"`
	Digest               string    `json:"digest"`
	BookID               int       `json:"book_id"`
	Book                 Book      `json:"book,omitempty"`
}

var interludeTitleRe = regexp.MustCompile(`^Interlude`)

// TitleShort abbreviates the "Interlude" prefix so chapter titles fit
// chart axis labels.
func (c *Chapter) TitleShort() string {
	return interludeTitleRe.ReplaceAllString(c.Title, "I.")
}

type ChapterLine struct {
	ID         int     `json:"id"`
	ChapterID  int     `json:"chapter_id" gorm:"uniqueIndex:idx_chapter_line"`
	Chapter    Chapter `json:"chapter,omitempty"`
	LineNumber int     `json:"line_number" gorm:"uniqueIndex:idx_chapter_line"`
	Text       string  `json:"text"`
}
