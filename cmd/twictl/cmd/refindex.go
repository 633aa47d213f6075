package cmd

import (
	"github.com/apex/log"
	"github.com/innverse/twistats/pkg/ingest"
	"github.com/spf13/cobra"
)

// refindexCmd recomputes the RefType/chapter index.
var refindexCmd = &cobra.Command{
	Use:   "refindex",
	Short: "Rebuild the per-chapter reference index from stored text refs",
	Run: func(cmd *cobra.Command, args []string) {
		builder := ingest.NewBuilder(mustConnectStors())
		if err := builder.RebuildRefTypeChapters(); err != nil {
			log.Fatalf("Unable to rebuild reference index: %s", err)
		}
		log.Info("Reference index rebuilt")
	},
}

func init() {
	rootCmd.AddCommand(refindexCmd)
}
