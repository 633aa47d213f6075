package webapi

import (
	"encoding/csv"
	"net/http"
	"net/url"
	"strconv"

	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	defaultPageSize = 15
	maxPageSize     = 9999
	maxQueryLen     = 100
)

// SearchForm holds the parsed and clamped search parameters. Chapter
// bounds outside the archive are pulled back into range rather than
// rejected.
type SearchForm struct {
	Type          string
	NameQuery     string
	TextQuery     string
	FirstChapter  int
	LastChapter   int
	PageSize      int
	Page          int
	OnlyColored   bool
	RefsByChapter bool
	Export        string
}

type typeChoice struct {
	Code string
	Name string
}

type chapterRefGroup struct {
	Name     string
	Chapters []twimodel.Chapter
	Count    int
}

type searchPage struct {
	Title       string
	Form        *SearchForm
	TypeChoices []typeChoice
	MaxChapter  int
	Rows        []stor.TextRefSearchRow
	ChapterRefs []chapterRefGroup
	Total       int64
	Page        int
	Pages       int
	PrevPage    string
	NextPage    string
	ExportURL   string
}

type SearchController struct {
	stors *stor.Stors
}

func NewSearchController(stors *stor.Stors) *SearchController {
	return &SearchController{stors: stors}
}

func typeChoices() []typeChoice {
	choices := make([]typeChoice, 0, len(twimodel.RefTypeCodes))
	for _, code := range twimodel.RefTypeCodes {
		choices = append(choices, typeChoice{Code: code, Name: twimodel.RefTypeNames[code]})
	}
	return choices
}

func parseIntParam(ctx echo.Context, name string) (int, error) {
	return strconv.Atoi(ctx.Param(name))
}

func (c *SearchController) parseForm(ctx echo.Context, maxChapter int) (*SearchForm, error) {
	form := &SearchForm{
		Type:          twimodel.MatchRefTypeCode(ctx.QueryParam("type")),
		NameQuery:     ctx.QueryParam("type_query"),
		TextQuery:     ctx.QueryParam("text_query"),
		FirstChapter:  0,
		LastChapter:   maxChapter,
		PageSize:      defaultPageSize,
		Page:          1,
		OnlyColored:   ctx.QueryParam("only_colored_refs") != "",
		RefsByChapter: ctx.QueryParam("refs_by_chapter") != "",
		Export:        ctx.QueryParam("_export"),
	}

	if len(form.NameQuery) > maxQueryLen || len(form.TextQuery) > maxQueryLen {
		return nil, errors.New("query too long")
	}

	if v := ctx.QueryParam("first_chapter"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("first chapter is not a number")
		}
		form.FirstChapter = n
	}
	if v := ctx.QueryParam("last_chapter"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("last chapter is not a number")
		}
		form.LastChapter = n
	}
	if v := ctx.QueryParam("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("page size is not a number")
		}
		form.PageSize = n
	}
	if v := ctx.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("page is not a number")
		}
		form.Page = n
	}

	// Clamp instead of erroring on out-of-range values.
	if form.FirstChapter < 0 {
		form.FirstChapter = 0
	}
	if form.LastChapter > maxChapter || form.LastChapter <= 0 {
		form.LastChapter = maxChapter
	}
	if form.PageSize < 10 {
		form.PageSize = defaultPageSize
	}
	if form.PageSize > maxPageSize {
		form.PageSize = maxPageSize
	}
	if form.Page < 1 {
		form.Page = 1
	}

	return form, nil
}

func (c *SearchController) renderError(ctx echo.Context, msg string) error {
	return ctx.Render(http.StatusOK, "search_error", struct {
		Title string
		Error string
	}{Title: "Search", Error: msg})
}

// Search handles the search page: the empty form, text-ref results,
// the refs-by-chapter grouping, and CSV export.
func (c *SearchController) Search(ctx echo.Context) error {
	maxChapter, err := c.stors.ChapterStor.MaxChapterNumber()
	if err != nil {
		return err
	}

	page := searchPage{
		Title:       "Search",
		TypeChoices: typeChoices(),
		MaxChapter:  maxChapter,
	}

	if len(ctx.QueryParams()) == 0 {
		page.Form = &SearchForm{LastChapter: maxChapter, PageSize: defaultPageSize}
		return ctx.Render(http.StatusOK, "search", page)
	}

	form, err := c.parseForm(ctx, maxChapter)
	if err != nil {
		return c.renderError(ctx, "Invalid search parameter provided. Please try again.")
	}
	page.Form = form

	if form.RefsByChapter {
		groups, err := c.refsByChapter(form)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			return c.renderError(ctx, "No results for the current search")
		}
		page.ChapterRefs = groups
		return ctx.Render(http.StatusOK, "search", page)
	}

	search := stor.TextRefSearch{
		Type:         form.Type,
		NameQuery:    form.NameQuery,
		TextQuery:    form.TextQuery,
		FirstChapter: form.FirstChapter,
		LastChapter:  form.LastChapter,
		OnlyColored:  form.OnlyColored,
		Page:         form.Page,
		PageSize:     form.PageSize,
	}

	if form.Export == "csv" {
		search.Page = 0
		search.PageSize = 0
		rows, _, err := c.stors.TextRefStor.SearchTextRefs(search)
		if err != nil {
			return err
		}
		return writeCSV(ctx, rows)
	}

	rows, total, err := c.stors.TextRefStor.SearchTextRefs(search)
	if err != nil {
		return err
	}
	if total == 0 {
		return c.renderError(ctx, "No results for the current search")
	}

	page.Rows = rows
	page.Total = total
	page.Page = form.Page
	page.Pages = int((total + int64(form.PageSize) - 1) / int64(form.PageSize))
	if page.Page > 1 {
		page.PrevPage = pageURL(ctx, form.Page-1, "")
	}
	if page.Page < page.Pages {
		page.NextPage = pageURL(ctx, form.Page+1, "")
	}
	page.ExportURL = pageURL(ctx, 0, "csv")

	return ctx.Render(http.StatusOK, "search", page)
}

func (c *SearchController) refsByChapter(form *SearchForm) ([]chapterRefGroup, error) {
	refTypes, err := c.stors.RefTypeStor.ListRefTypesByName(form.NameQuery)
	if err != nil {
		return nil, err
	}

	var groups []chapterRefGroup
	for _, rt := range refTypes {
		if form.Type != "" && rt.Type != form.Type {
			continue
		}

		chapters, err := c.stors.TextRefStor.ListChaptersForRefType(rt.ID)
		if err != nil {
			return nil, err
		}

		inRange := chapters[:0]
		for _, ch := range chapters {
			if ch.Number >= form.FirstChapter && ch.Number <= form.LastChapter {
				inRange = append(inRange, ch)
			}
		}
		if len(inRange) == 0 {
			continue
		}

		groups = append(groups, chapterRefGroup{
			Name:     rt.Name,
			Chapters: inRange,
			Count:    len(inRange),
		})
	}
	return groups, nil
}

// pageURL rebuilds the current query string with a different page, or
// with the CSV export flag set.
func pageURL(ctx echo.Context, page int, export string) string {
	q := url.Values{}
	for k, vs := range ctx.QueryParams() {
		if k == "page" || k == "_export" {
			continue
		}
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if export != "" {
		q.Set("_export", export)
	}
	return ctx.Path() + "?" + q.Encode()
}

func writeCSV(ctx echo.Context, rows []stor.TextRefSearchRow) error {
	ctx.Response().Header().Set(echo.HeaderContentType, "text/csv")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="twi_text_refs.csv"`)
	ctx.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(ctx.Response())
	if err := w.Write([]string{"name", "text", "chapter", "chapter_number", "url", "line", "start", "end", "color"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.RefTypeName,
			row.Text,
			row.ChapterTitle,
			strconv.Itoa(row.ChapterNumber),
			row.SourceURL,
			strconv.Itoa(row.LineNumber),
			strconv.Itoa(row.StartColumn),
			strconv.Itoa(row.EndColumn),
			row.ColorRGB,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
