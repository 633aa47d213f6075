package webapi

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/innverse/twistats/pkg/charts"
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/innverse/twistats/pkg/webstats/view"
	"github.com/labstack/echo/v4"
)

// HeadlineStat is one of the large stat cards at the top of a category
// page. The caption may carry markup, eg a link to a chapter.
type HeadlineStat struct {
	Title   string
	Value   string
	Units   string
	Caption template.HTML
}

// GalleryItemView is the template-facing shape of a chart card.
type GalleryItemView struct {
	Title        string
	Caption      string
	ThumbnailURL string
	ChartURL     string
}

type GalleryView struct {
	Name  string
	Slug  string
	Items []GalleryItemView
}

// categoryPages maps gallery slugs to their page path. The word-count
// gallery lives on the overview page.
var categoryPages = map[string]string{
	"word-counts": "overview",
	"characters":  "characters",
	"classes":     "classes",
	"skills":      "skills",
	"magic":       "magic",
	"locations":   "locations",
	"items":       "items",
}

// CategoryPathForType maps a RefType short-code to the site section
// that shows its stats.
func CategoryPathForType(typeCode string) string {
	switch typeCode {
	case twimodel.RefTypeCharacter:
		return "characters"
	case twimodel.RefTypeClass, twimodel.RefTypeClassUpdate:
		return "classes"
	case twimodel.RefTypeSkill, twimodel.RefTypeSkillUpdate:
		return "skills"
	case twimodel.RefTypeSpell, twimodel.RefTypeSpellUpdate, twimodel.RefTypeMiracle:
		return "magic"
	case twimodel.RefTypeLocation:
		return "locations"
	case twimodel.RefTypeItem:
		return "items"
	default:
		return "search"
	}
}

type PagesController struct {
	stors     *stor.Stors
	galleries []*charts.Gallery
	byPage    map[string]*charts.Gallery
}

func NewPagesController(stors *stor.Stors, galleries []*charts.Gallery) *PagesController {
	byPage := make(map[string]*charts.Gallery)
	for _, g := range galleries {
		if page, ok := categoryPages[g.Slug]; ok {
			byPage[page] = g
		}
	}
	return &PagesController{stors: stors, galleries: galleries, byPage: byPage}
}

func (c *PagesController) galleryView(page string) *GalleryView {
	g, ok := c.byPage[page]
	if !ok {
		return nil
	}

	gv := &GalleryView{Name: g.Name, Slug: g.Slug}
	for idx := range g.Items {
		item := &g.Items[idx]
		gv.Items = append(gv.Items, GalleryItemView{
			Title:        item.Title,
			Caption:      item.Caption,
			ThumbnailURL: "/static/" + g.ThumbnailPath(item),
			ChartURL:     "/" + page + "/charts/" + item.Slug,
		})
	}
	return gv
}

type categoryPage struct {
	Title   string
	Stats   []HeadlineStat
	Gallery *GalleryView
}

func chapterLink(ch *twimodel.Chapter) template.HTML {
	return template.HTML(fmt.Sprintf(`<a href="%s" rel="external">%s</a>`,
		template.HTMLEscapeString(ch.SourceURL), template.HTMLEscapeString(ch.Title)))
}

// Overview renders the landing page: site-wide word count stats plus
// the word-count chart gallery.
func (c *PagesController) Overview(ctx echo.Context) error {
	totalWC, err := c.stors.ChapterStor.TotalWordCount()
	if err != nil {
		return err
	}

	medianWC, err := c.stors.ChapterStor.MedianWordCount()
	if err != nil {
		return err
	}

	longest, err := c.stors.ChapterStor.LongestChapter()
	if err != nil {
		return err
	}

	shortest, err := c.stors.ChapterStor.ShortestChapter()
	if err != nil {
		return err
	}

	page := categoryPage{
		Title: "Overview",
		Stats: []HeadlineStat{
			{Title: "Total Word Count", Value: view.Commas(totalWC), Units: " words"},
			{Title: "Median Word Count", Value: view.Commas(medianWC), Units: " words"},
			{Title: "Longest Chapter", Value: view.Commas(longest.WordCount), Units: " words", Caption: chapterLink(longest)},
			{Title: "Shortest Chapter", Value: view.Commas(shortest.WordCount), Units: " words", Caption: chapterLink(shortest)},
		},
		Gallery: c.galleryView("overview"),
	}
	return ctx.Render(http.StatusOK, "category", page)
}

// Characters renders the character category page.
func (c *PagesController) Characters(ctx echo.Context) error {
	charCount, err := c.stors.RefTypeStor.CountRefTypesByType(twimodel.RefTypeCharacter)
	if err != nil {
		return err
	}

	speciesCount, err := c.stors.RefTypeStor.CountDistinctSpecies()
	if err != nil {
		return err
	}

	page := categoryPage{
		Title: "Characters",
		Stats: []HeadlineStat{
			{Title: "Total Number of Characters", Value: view.Commas(charCount), Units: " characters"},
			{
				Title:   "Number of Character Species",
				Value:   view.Commas(speciesCount),
				Units:   " species",
				Caption: template.HTML(fmt.Sprintf("out of %d known species", len(twimodel.SpeciesData))),
			},
		},
		Gallery: c.galleryView("characters"),
	}
	return ctx.Render(http.StatusOK, "category", page)
}

func (c *PagesController) mentionCategory(ctx echo.Context, pagePath, title string, typeCodes ...string) error {
	var total int64
	for _, code := range typeCodes {
		count, err := c.stors.RefTypeStor.CountRefTypesByType(code)
		if err != nil {
			return err
		}
		total += count
	}

	page := categoryPage{
		Title: title,
		Stats: []HeadlineStat{
			{Title: "Total " + title, Value: view.Commas(total)},
		},
		Gallery: c.galleryView(pagePath),
	}
	return ctx.Render(http.StatusOK, "category", page)
}

func (c *PagesController) Classes(ctx echo.Context) error {
	return c.mentionCategory(ctx, "classes", "Classes", twimodel.RefTypeClass)
}

func (c *PagesController) Skills(ctx echo.Context) error {
	return c.mentionCategory(ctx, "skills", "Skills", twimodel.RefTypeSkill)
}

func (c *PagesController) Magic(ctx echo.Context) error {
	return c.mentionCategory(ctx, "magic", "Spells", twimodel.RefTypeSpell, twimodel.RefTypeMiracle)
}

func (c *PagesController) Locations(ctx echo.Context) error {
	return c.mentionCategory(ctx, "locations", "Locations", twimodel.RefTypeLocation)
}

func (c *PagesController) Items(ctx echo.Context) error {
	return c.mentionCategory(ctx, "items", "Items", twimodel.RefTypeItem)
}

type chartPage struct {
	Title    string
	ChartSrc string
}

// InteractiveChart serves the full-page version of a gallery chart.
// The chart slug is looked up across every gallery, matching how the
// gallery grid links are built.
func (c *PagesController) InteractiveChart(ctx echo.Context) error {
	slug := ctx.Param("chart")
	for _, g := range c.galleries {
		for idx := range g.Items {
			item := &g.Items[idx]
			if item.Slug != slug {
				continue
			}
			page := chartPage{
				Title:    item.Title,
				ChartSrc: "/static/" + g.HTMLPath(item),
			}
			return ctx.Render(http.StatusOK, "chart", page)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "no such chart")
}

type refTypePage struct {
	Title    string
	TypeName string
	WikiURL  string
	Stats    []HeadlineStat
	Aliases  []twimodel.Alias
	Chapters []twimodel.Chapter
}

// RefTypeStats renders the detail page for one RefType: mention
// counts, first appearance, aliases, and the chapters it shows up in.
func (c *PagesController) RefTypeStats(ctx echo.Context) error {
	refType, err := c.stors.RefTypeStor.GetRefTypeBySlug(ctx.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such entry")
	}

	mentions, err := c.stors.TextRefStor.CountMentions(refType.ID)
	if err != nil {
		return err
	}

	chapters, err := c.stors.TextRefStor.ListChaptersForRefType(refType.ID)
	if err != nil {
		return err
	}

	aliases, err := c.stors.RefTypeStor.ListAliasesForRefType(refType.ID)
	if err != nil {
		return err
	}

	stats := []HeadlineStat{
		{Title: "Mentions", Value: view.Commas(mentions)},
		{Title: "Chapters", Value: view.Commas(len(chapters))},
	}
	if len(chapters) > 0 {
		first := chapters[0]
		stats = append(stats, HeadlineStat{
			Title:   "First Mention",
			Value:   first.Title,
			Caption: chapterLink(&first),
		})
	}

	page := refTypePage{
		Title:    refType.Name,
		TypeName: twimodel.RefTypeNames[refType.Type],
		Stats:    stats,
		Aliases:  aliases,
		Chapters: chapters,
	}

	if refType.Type == twimodel.RefTypeCharacter {
		if character, err := c.stors.RefTypeStor.GetCharacter(refType.ID); err == nil {
			page.WikiURL = character.WikiURI
			page.Stats = append(page.Stats,
				HeadlineStat{Title: "Species", Value: twimodel.SpeciesName(character.Species)},
				HeadlineStat{Title: "Status", Value: twimodel.StatusNames[character.Status]},
			)
		}
	}

	return ctx.Render(http.StatusOK, "reftype", page)
}

type chapterRefRow struct {
	RefTypeName  string
	RefTypeSlug  string
	CategoryPath string
	LineNumber   int
	Text         string
}

type chapterPage struct {
	Title   string
	Stats   []HeadlineStat
	Chapter *twimodel.Chapter
	Refs    []chapterRefRow
}

// ChapterStats renders the per-chapter page: word counts and every
// reference found in the chapter text.
func (c *PagesController) ChapterStats(ctx echo.Context) error {
	number, err := parseIntParam(ctx, "number")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such chapter")
	}

	chapter, err := c.stors.ChapterStor.GetChapterByNumber(number)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such chapter")
	}

	refs, err := c.stors.TextRefStor.ListTextRefsForChapter(chapter.ID)
	if err != nil {
		return err
	}

	rows := make([]chapterRefRow, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, chapterRefRow{
			RefTypeName:  ref.RefType.Name,
			RefTypeSlug:  ref.RefType.Slug,
			CategoryPath: CategoryPathForType(ref.RefType.Type),
			LineNumber:   ref.ChapterLine.LineNumber,
			Text:         ref.ChapterLine.Text,
		})
	}

	page := chapterPage{
		Title:   chapter.Title,
		Chapter: chapter,
		Refs:    rows,
		Stats: []HeadlineStat{
			{Title: "Word Count", Value: view.Commas(chapter.WordCount), Units: " words"},
			{Title: "Author's Note", Value: view.Commas(chapter.AuthorsNoteWordCount), Units: " words"},
			{Title: "References", Value: view.Commas(len(refs))},
		},
	}
	return ctx.Render(http.StatusOK, "chapter", page)
}

func (c *PagesController) About(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "about", struct{ Title string }{Title: "About"})
}
