package cmd

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/innverse/twistats/pkg/charts"
	"github.com/innverse/twistats/pkg/config"
	"github.com/innverse/twistats/pkg/twidb"
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/webstats/view"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "twistatsd",
	Short: "Run the Wandering Inn stats web server",
	Long: `twistatsd serves the stats site: chart galleries, per-entity
detail pages, the reference search, and a read-only JSON API. It expects
the database to have been populated by twictl.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Load(); err != nil {
			log.Fatalf("Failed loading configuration: %s", err)
		}

		db := twidb.MustConnectToDB()
		if err := twidb.RunMigrations(db); err != nil {
			log.Fatalf("Unable to run migrations: %s", err)
		}
		stors := stor.NewGormStors(db)

		galleries, err := charts.AllGalleries(stors)
		if err != nil {
			log.Fatalf("Unable to build chart galleries: %s", err)
		}

		staticDir := filepath.Join(config.DataDir(), "static")
		if err := view.WriteStaticAssets(staticDir); err != nil {
			log.Fatalf("Unable to write static assets: %s", err)
		}
		if config.GetBoolKeyWithDefault("TWI_RENDER_CHARTS", true) {
			log.Infof("Rendering chart galleries into %s", staticDir)
			for _, gallery := range galleries {
				if err := gallery.WriteStatic(staticDir); err != nil {
					log.Fatalf("Unable to render charts: %s", err)
				}
			}
		}

		renderer, err := view.NewRenderer()
		if err != nil {
			log.Fatalf("Unable to load templates: %s", err)
		}

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())
		e.Renderer = renderer
		e.Static("/static", staticDir)

		setupRoutes(e, RouteOpts{
			stors:     stors,
			galleries: galleries,
		})

		port := config.GetKeyWithDefault("TWI_HTTP_PORT", "8180")
		log.Infof("Listening on :%s", port)
		if err := e.Start(":" + port); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
