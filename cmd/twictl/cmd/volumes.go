package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// volumesCmd prints the stored volume/book tree.
var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "List stored volumes and books",
	Run: func(cmd *cobra.Command, args []string) {
		stors := mustConnectStors()

		volumes, err := stors.VolumeStor.ListVolumes()
		if err != nil {
			log.Fatalf("Unable to list volumes: %s", err)
		}

		chapters, err := stors.ChapterStor.ListChapters(false)
		if err != nil {
			log.Fatalf("Unable to list chapters: %s", err)
		}
		countByBook := make(map[int]int)
		for _, chapter := range chapters {
			countByBook[chapter.BookID]++
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Volume", "Book", "Chapters"})
		for _, volume := range volumes {
			for _, book := range volume.Books {
				t.AppendRow(table.Row{volume.Title, book.Title, countByBook[book.ID]})
			}
		}
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(volumesCmd)
}
