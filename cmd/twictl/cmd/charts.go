package cmd

import (
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/innverse/twistats/pkg/charts"
	"github.com/innverse/twistats/pkg/config"
	"github.com/spf13/cobra"
)

var chartsFilter string

// chartsCmd renders every chart gallery into the static dir.
var chartsCmd = &cobra.Command{
	Use:     "charts",
	Aliases: []string{"thumbnails"},
	Short:   "Render the chart galleries into the static dir",
	Long: `charts builds every gallery from the database and writes the
interactive HTML charts and their PNG thumbnails under the data dir's
static directory, where twistatsd serves them from.`,
	Run: func(cmd *cobra.Command, args []string) {
		stors := mustConnectStors()

		galleries, err := charts.AllGalleries(stors)
		if err != nil {
			log.Fatalf("Unable to build chart galleries: %s", err)
		}

		staticDir := filepath.Join(config.DataDir(), "static")
		for _, gallery := range galleries {
			if chartsFilter != "" {
				var kept []charts.GalleryItem
				for _, item := range gallery.Items {
					if strings.Contains(item.Slug, chartsFilter) {
						kept = append(kept, item)
					}
				}
				if len(kept) == 0 {
					continue
				}
				gallery.Items = kept
			}
			if err := gallery.WriteStatic(staticDir); err != nil {
				log.Fatalf("Unable to render gallery %q: %s", gallery.Name, err)
			}
			log.Infof("Rendered %d charts for %q", len(gallery.Items), gallery.Name)
		}
	},
}

func init() {
	chartsCmd.Flags().StringVarP(&chartsFilter, "filter", "f", "", "Only render charts whose slug contains the given substring")
	rootCmd.AddCommand(chartsCmd)
}
