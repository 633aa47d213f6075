package cmd

import (
	"time"

	"github.com/apex/log"
	"github.com/innverse/twistats/pkg/config"
	"github.com/innverse/twistats/pkg/ingest"
	"github.com/innverse/twistats/pkg/scrape"
	"github.com/innverse/twistats/pkg/wiki"
	"github.com/spf13/cobra"
)

var (
	wikiCharacters bool
	wikiLocations  bool
	wikiSkills     bool
	wikiSpells     bool
	wikiClasses    bool
	wikiArtifacts  bool
)

// wikibotCmd pulls entity data from the companion wiki.
var wikibotCmd = &cobra.Command{
	Use:   "wikibot",
	Short: "Import characters, locations, skills, spells, classes and artifacts from the wiki",
	Long: `wikibot reads the companion wiki through its MediaWiki API and
stores the entities it finds: character pages with their infobox aliases,
status and species, location pages, and the skill, spell, class and
artifact tables. With no flags it imports everything.`,
	Run: func(cmd *cobra.Command, args []string) {
		all := !wikiCharacters && !wikiLocations && !wikiSkills &&
			!wikiSpells && !wikiClasses && !wikiArtifacts

		session := scrape.NewSession(scrape.WithThrottle(1 * time.Second))
		client := wiki.NewClient(session, config.GetKey("TWI_WIKI_URL"))
		builder := ingest.NewBuilder(mustConnectStors())

		if all || wikiCharacters {
			records, err := client.FetchCharacters()
			if err != nil {
				log.Fatalf("Unable to fetch characters: %s", err)
			}
			stats, err := builder.IngestCharacters(records)
			if err != nil {
				log.Fatalf("Unable to store characters: %s", err)
			}
			log.Infof("Characters: %d entries, %d aliases", stats.RefTypes, stats.Aliases)
		}

		if all || wikiLocations {
			records, err := client.FetchLocations()
			if err != nil {
				log.Fatalf("Unable to fetch locations: %s", err)
			}
			stats, err := builder.IngestLocations(records)
			if err != nil {
				log.Fatalf("Unable to store locations: %s", err)
			}
			log.Infof("Locations: %d entries", stats.RefTypes)
		}

		if all || wikiSkills {
			rows, pageURL, err := client.FetchSkills()
			if err != nil {
				log.Fatalf("Unable to fetch skills: %s", err)
			}
			stats, err := builder.IngestSkills(rows, pageURL)
			if err != nil {
				log.Fatalf("Unable to store skills: %s", err)
			}
			log.Infof("Skills: %d entries, %d aliases", stats.RefTypes, stats.Aliases)
		}

		if all || wikiSpells {
			rows, pageURL, err := client.FetchSpells()
			if err != nil {
				log.Fatalf("Unable to fetch spells: %s", err)
			}
			stats, err := builder.IngestSpells(rows, pageURL)
			if err != nil {
				log.Fatalf("Unable to store spells: %s", err)
			}
			log.Infof("Spells: %d entries, %d aliases", stats.RefTypes, stats.Aliases)
		}

		if all || wikiClasses {
			rows, _, err := client.FetchClasses()
			if err != nil {
				log.Fatalf("Unable to fetch classes: %s", err)
			}
			stats, err := builder.IngestClasses(rows)
			if err != nil {
				log.Fatalf("Unable to store classes: %s", err)
			}
			log.Infof("Classes: %d entries, %d aliases", stats.RefTypes, stats.Aliases)
		}

		if all || wikiArtifacts {
			entries, pageURL, err := client.FetchArtifacts()
			if err != nil {
				log.Fatalf("Unable to fetch artifacts: %s", err)
			}
			stats, err := builder.IngestArtifacts(entries, pageURL)
			if err != nil {
				log.Fatalf("Unable to store artifacts: %s", err)
			}
			log.Infof("Artifacts: %d entries, %d aliases", stats.RefTypes, stats.Aliases)
		}
	},
}

func init() {
	rootCmd.AddCommand(wikibotCmd)
	wikibotCmd.Flags().BoolVar(&wikiCharacters, "characters", false, "Import character pages")
	wikibotCmd.Flags().BoolVar(&wikiLocations, "locations", false, "Import location pages")
	wikibotCmd.Flags().BoolVar(&wikiSkills, "skills", false, "Import the skill tables")
	wikibotCmd.Flags().BoolVar(&wikiSpells, "spells", false, "Import the spell tables")
	wikibotCmd.Flags().BoolVar(&wikiClasses, "classes", false, "Import the class tables")
	wikibotCmd.Flags().BoolVar(&wikiArtifacts, "artifacts", false, "Import the artifact list")
}
