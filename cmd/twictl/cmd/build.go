package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/innverse/twistats/pkg/config"
	"github.com/innverse/twistats/pkg/ingest"
	"github.com/innverse/twistats/pkg/textscan"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	buildClobber  bool
	buildAuto     bool
	buildDisambig string
)

// buildCmd scans the archived chapters into the database.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the database from the chapter archive",
	Long: `build walks the local chapter archive and upserts volumes, books,
chapters and chapter lines, then scans every line for bracketed system
words and known entity names and stores the located references.

New bracketed phrases that can't be classified automatically are put to
the operator on the terminal; pass --auto to skip them instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		stors := mustConnectStors()

		opts := []ingest.BuilderOption{ingest.WithClobber(buildClobber)}
		if !buildAuto {
			opts = append(opts, ingest.WithResolver(ingest.NewTerminalResolver(os.Stdin, os.Stdout)))
		}

		disambigPath := buildDisambig
		if disambigPath == "" {
			disambigPath = config.GetKey("TWI_DISAMBIG_PATH")
		}
		if disambigPath != "" {
			cfg, err := textscan.LoadDisambiguationConfig(disambigPath)
			if err != nil {
				log.Fatalf("Unable to load disambiguation config: %s", err)
			}
			opts = append(opts, ingest.WithDisambiguation(cfg))
		}

		builder := ingest.NewBuilder(stors, opts...)
		stats, err := builder.BuildFromArchive(config.DataDir())
		if err != nil {
			log.Fatalf("Build failed: %s", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"", "Count"})
		t.AppendRows([]table.Row{
			{"Chapters seen", stats.ChaptersSeen},
			{"Chapters built", stats.ChaptersBuilt},
			{"Chapters skipped", stats.ChaptersSkipped},
			{"RefTypes created", stats.RefTypesCreated},
			{"TextRefs created", stats.TextRefsCreated},
			{"Mentions skipped", stats.MentionsSkipped},
		})
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&buildClobber, "clobber", false, "Rebuild chapters whose content is unchanged")
	buildCmd.Flags().BoolVar(&buildAuto, "auto", false, "Skip unresolvable mentions instead of prompting")
	buildCmd.Flags().StringVar(&buildDisambig, "disambig", "", "Path to the disambiguation YAML (default $TWI_DISAMBIG_PATH)")
}
