package webapi

import (
	"net/http"

	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/labstack/echo/v4"
)

// How many chapters the longest-chapters endpoint returns.
const longestChapterCount = 5

// APIController serves the read-only JSON API.
type APIController struct {
	stors *stor.Stors
}

func NewAPIController(stors *stor.Stors) *APIController {
	return &APIController{stors: stors}
}

// ListChapters returns every chapter, canon and otherwise, in number
// order.
func (c *APIController) ListChapters(ctx echo.Context) error {
	chapters, err := c.stors.ChapterStor.ListChapters(false)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, chapters)
}

// GetChapter returns one chapter by number.
func (c *APIController) GetChapter(ctx echo.Context) error {
	number, err := parseIntParam(ctx, "number")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such chapter")
	}

	chapter, err := c.stors.ChapterStor.GetChapterByNumber(number)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such chapter")
	}
	return ctx.JSON(http.StatusOK, chapter)
}

// LongestChapters returns the top canon chapters by word count.
func (c *APIController) LongestChapters(ctx echo.Context) error {
	chapters, err := c.stors.ChapterStor.ListChapters(true)
	if err != nil {
		return err
	}

	sortChaptersByWordCount(chapters)
	if len(chapters) > longestChapterCount {
		chapters = chapters[:longestChapterCount]
	}
	return ctx.JSON(http.StatusOK, chapters)
}

// ListRefTypes returns every RefType, optionally filtered by the
// "type" query parameter.
func (c *APIController) ListRefTypes(ctx echo.Context) error {
	if rtType := ctx.QueryParam("type"); rtType != "" {
		refTypes, err := c.stors.RefTypeStor.ListRefTypesByType(rtType)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, refTypes)
	}

	refTypes, err := c.stors.RefTypeStor.ListAllRefTypes()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, refTypes)
}
