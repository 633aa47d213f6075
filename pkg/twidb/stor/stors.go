package stor

import (
	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"gorm.io/gorm"
)

type VolumeStor interface {
	CreateVolume(volume *twimodel.Volume) (*twimodel.Volume, error)
	GetVolumeByTitle(title string) (*twimodel.Volume, error)
	GetVolumeByNumber(number int) (*twimodel.Volume, error)
	ListVolumes() ([]twimodel.Volume, error)
	CreateBook(book *twimodel.Book) (*twimodel.Book, error)
	GetBookByTitle(volumeID int, title string) (*twimodel.Book, error)
	ListBooksForVolume(volumeID int) ([]twimodel.Book, error)
}

type ChapterStor interface {
	CreateChapter(chapter *twimodel.Chapter) (*twimodel.Chapter, error)
	UpdateChapter(chapter *twimodel.Chapter) (*twimodel.Chapter, error)
	GetChapterByID(id int) (*twimodel.Chapter, error)
	GetChapterByNumber(number int) (*twimodel.Chapter, error)
	GetChapterByTitle(title string) (*twimodel.Chapter, error)
	GetChapterByURLEndpoint(endpoint string) (*twimodel.Chapter, error)
	ListChapters(canonOnly bool) ([]twimodel.Chapter, error)
	MaxChapterNumber() (int, error)
	TotalWordCount() (int64, error)
	LongestChapter() (*twimodel.Chapter, error)
	ShortestChapter() (*twimodel.Chapter, error)
	MedianWordCount() (float64, error)
	ReplaceChapterLines(chapterID int, lines []string) error
	ListChapterLines(chapterID int) ([]twimodel.ChapterLine, error)
}

type RefTypeStor interface {
	CreateRefType(refType *twimodel.RefType) (*twimodel.RefType, error)
	GetRefType(name, rtType string) (*twimodel.RefType, error)
	GetRefTypeBySlug(slug string) (*twimodel.RefType, error)
	ListRefTypesByName(name string) ([]twimodel.RefType, error)
	ListRefTypesByType(rtType string) ([]twimodel.RefType, error)
	ListAllRefTypes() ([]twimodel.RefType, error)
	CountRefTypesByType(rtType string) (int64, error)
	CreateAlias(alias *twimodel.Alias) (*twimodel.Alias, error)
	ListAliasesForRefType(refTypeID int) ([]twimodel.Alias, error)
	SaveCharacter(character *twimodel.Character) (*twimodel.Character, error)
	GetCharacter(refTypeID int) (*twimodel.Character, error)
	CountDistinctSpecies() (int64, error)
	CountCharactersBySpecies() (map[string]int64, error)
	CountCharactersByStatus() (map[string]int64, error)
	SaveSkill(skill *twimodel.Skill) (*twimodel.Skill, error)
	SaveSpell(spell *twimodel.Spell) (*twimodel.Spell, error)
	SaveLocation(location *twimodel.Location) (*twimodel.Location, error)
	SaveItem(item *twimodel.Item) (*twimodel.Item, error)
}

type ColorStor interface {
	GetOrCreateCategory(name string) (*twimodel.ColorCategory, error)
	GetOrCreateColor(rgb string, categoryID int) (*twimodel.Color, error)
	GetColorsByRGB(rgb string) ([]twimodel.Color, error)
}

// TextRefSearch filters TextRef rows for the search page. A zero
// LastChapter means "no upper bound".
type TextRefSearch struct {
	Type         string
	NameQuery    string
	TextQuery    string
	FirstChapter int
	LastChapter  int
	OnlyColored  bool
	Page         int
	PageSize     int
}

// TextRefSearchRow is a flattened search result used by the table view
// and the CSV export.
type TextRefSearchRow struct {
	RefTypeName   string `json:"name"`
	RefTypeSlug   string `json:"slug"`
	Text          string `json:"text"`
	ChapterTitle  string `json:"title"`
	ChapterNumber int    `json:"chapter_number"`
	SourceURL     string `json:"url"`
	LineNumber    int    `json:"line_number"`
	StartColumn   int    `json:"start_column"`
	EndColumn     int    `json:"end_column"`
	ColorRGB      string `json:"color_rgb"`
}

type TextRefStor interface {
	CreateTextRef(textRef *twimodel.TextRef) (*twimodel.TextRef, bool, error)
	ListTextRefsForChapter(chapterID int) ([]twimodel.TextRef, error)
	ListTextRefsForRefType(refTypeID int) ([]twimodel.TextRef, error)
	SearchTextRefs(search TextRefSearch) ([]TextRefSearchRow, int64, error)
	CountMentions(refTypeID int) (int64, error)
	ListMentionsByType(rtType string) ([]twimodel.RefTypeMention, error)
	GetOrCreateRefTypeChapter(refTypeID, chapterID int) (*twimodel.RefTypeChapter, bool, error)
	ListChaptersForRefType(refTypeID int) ([]twimodel.Chapter, error)
	ListChapterIDsWithTextRefs(refTypeID int) ([]int, error)
}

type Stors struct {
	VolumeStor  VolumeStor
	ChapterStor ChapterStor
	RefTypeStor RefTypeStor
	ColorStor   ColorStor
	TextRefStor TextRefStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		VolumeStor:  NewGormVolumeStor(db),
		ChapterStor: NewGormChapterStor(db),
		RefTypeStor: NewGormRefTypeStor(db),
		ColorStor:   NewGormColorStor(db),
		TextRefStor: NewGormTextRefStor(db),
	}
}
