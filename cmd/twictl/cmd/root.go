package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/innverse/twistats/pkg/clog"
	"github.com/innverse/twistats/pkg/config"
	"github.com/innverse/twistats/pkg/twidb"
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "twictl",
	Short: "Manage the Wandering Inn stats pipeline",
	Long: `twictl runs the data pipeline behind the stats site: downloading
chapters into the on-disk archive (get), scanning them into the database
(build), pulling entity data from the companion wiki (wikibot), and
rendering the chart galleries (charts).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Load(); err != nil {
			log.Fatalf("Failed loading configuration: %s", err)
		}

		level := config.GetKeyWithDefault("TWI_LOG_LEVEL", "info")
		log.SetLevelFromString(level)
		if err := clog.SetGlobalLoggerLevelFromString(level); err != nil {
			log.Fatalf("Bad TWI_LOG_LEVEL %q: %s", level, err)
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

// mustConnectStors opens the database, runs migrations, and returns the
// store registry. Used by every subcommand that touches the database.
func mustConnectStors() *stor.Stors {
	db := twidb.MustConnectToDB()
	if err := twidb.RunMigrations(db); err != nil {
		log.Fatalf("Unable to run migrations: %s", err)
	}
	return stor.NewGormStors(db)
}
