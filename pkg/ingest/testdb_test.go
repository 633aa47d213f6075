package ingest

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/innverse/twistats/pkg/twidb"
	"github.com/innverse/twistats/pkg/twidb/stor"
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
