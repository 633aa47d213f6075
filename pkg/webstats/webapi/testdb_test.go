package webapi

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/innverse/twistats/pkg/twidb"
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStors opens a fresh in-memory database with the schema
// migrated, closed on cleanup so state can't leak between tests.
func newTestStors(t *testing.T) *stor.Stors {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})

	db, err := gorm.Open(sqlite.Open(twidb.SqliteInMemoryDSN), &gorm.Config{Logger: gormLogger})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)
	sqlitedb.SetMaxOpenConns(1)

	err = twidb.RunMigrations(db)
	require.NoErrorf(t, err, "Migration failed with: %s", err)

	t.Cleanup(func() {
		_ = sqlitedb.Close()
	})

	return stor.NewGormStors(db)
}

// seedChapters creates Volume 1/Book 1 with one canon chapter per word
// count given, numbered from 1.
func seedChapters(t *testing.T, stors *stor.Stors, wordCounts ...int) []*twimodel.Chapter {
	volume, err := stors.VolumeStor.CreateVolume(&twimodel.Volume{Number: 1, Title: "Volume 1"})
	require.NoError(t, err)
	book, err := stors.VolumeStor.CreateBook(&twimodel.Book{Number: 1, Title: "Book 1", VolumeID: volume.ID})
	require.NoError(t, err)

	chapters := make([]*twimodel.Chapter, 0, len(wordCounts))
	for i, wc := range wordCounts {
		chapter, err := stors.ChapterStor.CreateChapter(&twimodel.Chapter{
			Number:    i + 1,
			Title:     fmt.Sprintf("1.%02d", i),
			IsCanon:   true,
			SourceURL: fmt.Sprintf("https://www.wanderinginn.com/1-%02d/", i),
			PostDate:  time.Now(),
			WordCount: wc,
			BookID:    book.ID,
		})
		require.NoError(t, err)
		chapters = append(chapters, chapter)
	}
	return chapters
}
