package webapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/innverse/twistats/pkg/charts"
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/innverse/twistats/pkg/webstats/view"
)

func testGalleries() []*charts.Gallery {
	render := func(w io.Writer) error { return nil }
	return []*charts.Gallery{
		charts.NewGallery("Word Counts",
			charts.NewGalleryItem("Words per Chapter", "caption", render, render)),
		charts.NewGallery("Characters",
			charts.NewGalleryItem("Character Mentions", "caption", render, render)),
	}
}

func pageRequest(t *testing.T, stors *stor.Stors, handler func(*PagesController) echo.HandlerFunc, target string, paramNames, paramValues []string) *httptest.ResponseRecorder {
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	if len(paramNames) > 0 {
		ctx.SetParamNames(paramNames...)
		ctx.SetParamValues(paramValues...)
	}

	controller := NewPagesController(stors, testGalleries())
	if err := handler(controller)(ctx); err != nil {
		e.HTTPErrorHandler(err, ctx)
	}
	return rec
}

func TestOverviewPage(t *testing.T) {
	stors := newTestStors(t)
	seedChapters(t, stors, 1000, 2000, 9000)

	rec := pageRequest(t, stors,
		func(c *PagesController) echo.HandlerFunc { return c.Overview },
		"/overview/", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Total Word Count")
	require.Contains(t, body, "12,000")
	require.Contains(t, body, "Longest Chapter")
	require.Contains(t, body, "9,000")

	// The chapter captions link to the source chapters.
	require.Contains(t, body, `rel="external"`)

	// The word-count gallery renders its chart card.
	require.Contains(t, body, "Words per Chapter")
	require.Contains(t, body, "/overview/charts/words-per-chapter")
}

func TestCharactersPage(t *testing.T) {
	stors := newTestStors(t)

	erin, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Erin Solstice",
		Type: twimodel.RefTypeCharacter,
	})
	require.NoError(t, err)
	_, err = stors.RefTypeStor.SaveCharacter(&twimodel.Character{
		RefTypeID: erin.ID,
		Status:    twimodel.StatusAlive,
		Species:   "HU",
	})
	require.NoError(t, err)

	rec := pageRequest(t, stors,
		func(c *PagesController) echo.HandlerFunc { return c.Characters },
		"/characters/", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Total Number of Characters")
	require.Contains(t, body, "out of")
	require.Contains(t, body, "known species")
}

func TestInteractiveChart(t *testing.T) {
	stors := newTestStors(t)

	rec := pageRequest(t, stors,
		func(c *PagesController) echo.HandlerFunc { return c.InteractiveChart },
		"/characters/charts/character-mentions", []string{"chart"}, []string{"character-mentions"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/static/charts/html/characters/character-mentions.html")

	rec = pageRequest(t, stors,
		func(c *PagesController) echo.HandlerFunc { return c.InteractiveChart },
		"/characters/charts/nope", []string{"chart"}, []string{"nope"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefTypeStatsPage(t *testing.T) {
	stors := newTestStors(t)
	chapters := seedChapters(t, stors, 1000)

	erin, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Erin Solstice",
		Type: twimodel.RefTypeCharacter,
	})
	require.NoError(t, err)
	_, err = stors.RefTypeStor.CreateAlias(&twimodel.Alias{Name: "Erin", RefTypeID: erin.ID})
	require.NoError(t, err)
	_, err = stors.RefTypeStor.SaveCharacter(&twimodel.Character{
		RefTypeID: erin.ID,
		Status:    twimodel.StatusAlive,
		Species:   "HU",
		WikiURI:   "https://thewanderinginn.fandom.com/wiki/Erin_Solstice",
	})
	require.NoError(t, err)

	require.NoError(t, stors.ChapterStor.ReplaceChapterLines(chapters[0].ID, []string{"Erin Solstice smiled."}))
	lines, err := stors.ChapterStor.ListChapterLines(chapters[0].ID)
	require.NoError(t, err)
	_, _, err = stors.TextRefStor.CreateTextRef(&twimodel.TextRef{
		ChapterLineID: lines[0].ID,
		RefTypeID:     erin.ID,
		StartColumn:   0,
		EndColumn:     13,
	})
	require.NoError(t, err)
	_, _, err = stors.TextRefStor.GetOrCreateRefTypeChapter(erin.ID, chapters[0].ID)
	require.NoError(t, err)

	rec := pageRequest(t, stors,
		func(c *PagesController) echo.HandlerFunc { return c.RefTypeStats },
		"/characters/erin-solstice/", []string{"name"}, []string{"erin-solstice"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Erin Solstice")
	require.Contains(t, body, "Mentions")
	require.Contains(t, body, "First Mention")
	require.Contains(t, body, "Erin")
	require.Contains(t, body, "Human")
	require.Contains(t, body, "Alive")
	require.Contains(t, body, "fandom.com")

	rec = pageRequest(t, stors,
		func(c *PagesController) echo.HandlerFunc { return c.RefTypeStats },
		"/characters/nobody/", []string{"name"}, []string{"nobody"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChapterStatsPage(t *testing.T) {
	stors := newTestStors(t)
	chapters := seedChapters(t, stors, 1500)

	erin, err := stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: "Erin Solstice",
		Type: twimodel.RefTypeCharacter,
	})
	require.NoError(t, err)

	require.NoError(t, stors.ChapterStor.ReplaceChapterLines(chapters[0].ID, []string{"Erin Solstice smiled."}))
	lines, err := stors.ChapterStor.ListChapterLines(chapters[0].ID)
	require.NoError(t, err)
	_, _, err = stors.TextRefStor.CreateTextRef(&twimodel.TextRef{
		ChapterLineID: lines[0].ID,
		RefTypeID:     erin.ID,
		StartColumn:   0,
		EndColumn:     13,
	})
	require.NoError(t, err)

	rec := pageRequest(t, stors,
		func(c *PagesController) echo.HandlerFunc { return c.ChapterStats },
		"/chapter/1", []string{"number"}, []string{"1"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "1.00")
	require.Contains(t, body, "1,500")
	require.Contains(t, body, "Erin Solstice smiled.")
	require.Contains(t, body, "/characters/erin-solstice")

	rec = pageRequest(t, stors,
		func(c *PagesController) echo.HandlerFunc { return c.ChapterStats },
		"/chapter/99", []string{"number"}, []string{"99"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryPathForType(t *testing.T) {
	require.Equal(t, "characters", CategoryPathForType(twimodel.RefTypeCharacter))
	require.Equal(t, "classes", CategoryPathForType(twimodel.RefTypeClassUpdate))
	require.Equal(t, "skills", CategoryPathForType(twimodel.RefTypeSkillUpdate))
	require.Equal(t, "magic", CategoryPathForType(twimodel.RefTypeMiracle))
	require.Equal(t, "search", CategoryPathForType("ZZ"))
}
