package cmd

import (
	"os"
	"time"

	"github.com/apex/log"
	"github.com/innverse/twistats/pkg/clog"
	"github.com/innverse/twistats/pkg/config"
	"github.com/innverse/twistats/pkg/scrape"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	getClobber  bool
	getVolume   string
	getThrottle int
	getLimit    int
	getLatest   bool
)

// getCmd downloads chapters into the on-disk archive.
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Download chapters into the local archive",
	Long: `get walks the serial's table of contents and downloads every
chapter it doesn't already have into the archive under the data dir.
Already-archived chapters are skipped unless --clobber is set. A chapter
title argument limits the run to that one chapter, and --latest downloads
only the newest chapter in the table of contents.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := scrape.NewSession(
			scrape.WithThrottle(time.Duration(getThrottle) * time.Second))

		dataDir := config.DataDir()
		if err := clog.AddRunLoggingContext(dataDir, session.RunID()); err != nil {
			log.Warnf("Unable to open run log: %s", err)
		}
		runLog := clog.UsingCtx(session.RunID())

		toc, err := scrape.FetchTableOfContents(session)
		if err != nil {
			log.Fatalf("Unable to fetch table of contents: %s", err)
		}

		volumes := toc.Volumes
		if getVolume != "" {
			volume, ok := toc.FindVolume(getVolume)
			if !ok {
				log.Fatalf("No volume named %q in the table of contents", getVolume)
			}
			volumes = []scrape.TocVolume{*volume}
		}

		targetTitle := ""
		if len(args) == 1 {
			targetTitle = args[0]
		}
		if getLatest {
			latest, ok := toc.LatestChapter()
			if !ok {
				log.Fatalf("Table of contents has no chapters")
			}
			targetTitle = latest.Title
		}

		downloaded := 0
		skipped := 0
		for _, volume := range volumes {
			index := 0
			for _, book := range volume.Books {
				for _, chapter := range book.Chapters {
					index++
					if targetTitle != "" && chapter.Title != targetTitle {
						continue
					}
					if getLimit > 0 && downloaded >= getLimit {
						log.Infof("Downloaded %d chapters, skipped %d", downloaded, skipped)
						return
					}

					dir := scrape.ChapterDir(dataDir, volume.Title, book.Title, index, chapter.Title)
					err := downloadChapter(session, chapter, dir, getClobber)
					switch {
					case errors.Is(err, os.ErrExist):
						skipped++
					case errors.Is(err, scrape.ErrTooManyRetries):
						log.Fatalf("Too many failed requests, stopping: %s", err)
					case err != nil:
						runLog.WithError(err).WithField("chapter", chapter.Title).
							Warn("skipping chapter")
					default:
						downloaded++
						runLog.WithField("chapter", chapter.Title).Info("chapter archived")
					}
				}
			}
		}

		log.Infof("Downloaded %d chapters, skipped %d", downloaded, skipped)
	},
}

func downloadChapter(session *scrape.Session, chapter scrape.TocChapter, dir string, clobber bool) error {
	// Check before downloading so skips don't burn throttle time.
	if !clobber {
		if _, err := os.Stat(dir); err == nil {
			return os.ErrExist
		}
	}

	resp, err := session.Get(chapter.Href)
	if err != nil {
		return err
	}

	data, err := scrape.ParseChapterPage(string(resp.Body()), chapter.Href)
	if err != nil {
		return err
	}
	data.RunID = session.RunID()

	return scrape.SaveChapter(dir, data, clobber)
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getClobber, "clobber", false, "Re-download chapters that are already archived")
	getCmd.Flags().StringVar(&getVolume, "volume", "", "Only download the named volume")
	getCmd.Flags().IntVar(&getThrottle, "throttle", 2, "Seconds to wait between requests")
	getCmd.Flags().IntVar(&getLimit, "limit", 0, "Stop after this many downloads (0 = no limit)")
	getCmd.Flags().BoolVar(&getLatest, "latest", false, "Only download the newest chapter in the table of contents")
}
