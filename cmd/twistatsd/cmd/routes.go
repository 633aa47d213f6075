package cmd

import (
	"net/http"

	"github.com/innverse/twistats/pkg/charts"
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/webstats/webapi"
	"github.com/labstack/echo/v4"
)

type RouteOpts struct {
	stors     *stor.Stors
	galleries []*charts.Gallery
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	pagesController := webapi.NewPagesController(opts.stors, opts.galleries)
	searchController := webapi.NewSearchController(opts.stors)

	e.GET("/", func(ctx echo.Context) error {
		return ctx.Redirect(http.StatusFound, "/overview/")
	})

	e.GET("/overview/", pagesController.Overview)
	e.GET("/overview/charts/:chart", pagesController.InteractiveChart)

	e.GET("/characters/", pagesController.Characters)
	e.GET("/characters/charts/:chart", pagesController.InteractiveChart)
	e.GET("/characters/:name/", pagesController.RefTypeStats)

	e.GET("/classes/", pagesController.Classes)
	e.GET("/classes/charts/:chart", pagesController.InteractiveChart)
	e.GET("/classes/:name/", pagesController.RefTypeStats)

	e.GET("/skills/", pagesController.Skills)
	e.GET("/skills/charts/:chart", pagesController.InteractiveChart)
	e.GET("/skills/:name/", pagesController.RefTypeStats)

	e.GET("/magic/", pagesController.Magic)
	e.GET("/magic/charts/:chart", pagesController.InteractiveChart)
	e.GET("/magic/:name/", pagesController.RefTypeStats)

	e.GET("/locations/", pagesController.Locations)
	e.GET("/locations/charts/:chart", pagesController.InteractiveChart)
	e.GET("/locations/:name/", pagesController.RefTypeStats)

	e.GET("/items/", pagesController.Items)
	e.GET("/items/charts/:chart", pagesController.InteractiveChart)
	e.GET("/items/:name/", pagesController.RefTypeStats)

	e.GET("/chapter/:number", pagesController.ChapterStats)
	e.GET("/search/", searchController.Search)
	e.GET("/about/", pagesController.About)

	setupAPIRoutes(e, opts)
}

func setupAPIRoutes(e *echo.Echo, opts RouteOpts) {
	g := e.Group("/api")

	apiController := webapi.NewAPIController(opts.stors)
	g.GET("/chapters", apiController.ListChapters)
	g.GET("/chapters/longest", apiController.LongestChapters)
	g.GET("/chapters/:number", apiController.GetChapter)
	g.GET("/ref-types", apiController.ListRefTypes)
}
