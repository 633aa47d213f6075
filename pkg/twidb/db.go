package twidb

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteInMemoryDSN is used by tests and by local single-user setups.
const SqliteInMemoryDSN = "file::memory:?cache=shared"

func MakeDSNFromEnv() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("TWI_DB_USERNAME"),
		os.Getenv("TWI_DB_PASSWORD"),
		os.Getenv("TWI_DB_HOST"),
		os.Getenv("TWI_DB_PORT"),
		os.Getenv("TWI_DB_DATABASE"))
}

const maxDBRetries = 5

// MustConnectToDB will attempt to connect to the database maxDBRetries times. If it
// isn't successful after that number of retries then it will call log.Fatalf(), which
// will cause the process to exit. Between retry attempts it sleeps for 3 seconds.
// When TWI_DB_DRIVER is "sqlite" it opens TWI_DB_PATH (or the in-memory DSN) instead
// of MySQL.
func MustConnectToDB() *gorm.DB {
	var (
		err error
		db  *gorm.DB
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	if os.Getenv("TWI_DB_DRIVER") == "sqlite" {
		dsn := os.Getenv("TWI_DB_PATH")
		if dsn == "" {
			dsn = SqliteInMemoryDSN
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormConfig)
		if err != nil {
			log.Fatalf("Failed to open sqlite db (%s): %s", dsn, err)
		}
		return db
	}

	retryCount := 1
	for {
		db, err = gorm.Open(mysql.Open(MakeDSNFromEnv()), gormConfig)
		switch {
		case err == nil:
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open db (%s): %s", MakeDSNFromEnv(), err)
		default:
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}

// RunMigrations creates or updates the schema for all models.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&twimodel.Volume{},
		&twimodel.Book{},
		&twimodel.Chapter{},
		&twimodel.ChapterLine{},
		&twimodel.RefType{},
		&twimodel.Alias{},
		&twimodel.Character{},
		&twimodel.Item{},
		&twimodel.Location{},
		&twimodel.Skill{},
		&twimodel.Spell{},
		&twimodel.ColorCategory{},
		&twimodel.Color{},
		&twimodel.TextRef{},
		&twimodel.RefTypeChapter{},
	)
}
