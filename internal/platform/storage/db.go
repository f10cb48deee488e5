package storage

import (
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gameshelf-server-go/internal/platform/errors"
	"gameshelf-server-go/internal/platform/storage/migrations"
)

// Open initialises the SQLite database at the given DSN and applies all
// pending migrations. The returned handle is shared by every repository.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "data/gameshelf.db"
	}

	// file-backed DSNs need their directory in place first
	if !strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, "memory") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.KindStorage, "db.open", "failed to create data directory", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "db.open", "failed to open database", err)
	}

	// AutoMigrate keeps the schema aligned with the models; the migrator
	// records versioned changes on top of it.
	if err := db.AutoMigrate(
		&User{}, &Role{}, &Publisher{}, &Boardgame{},
		&Reservation{}, &Review{}, &Notification{},
	); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "db.migrate", "failed to migrate database", err)
	}

	migrator := NewMigrator(db, &migrations.Migration001Initial{})
	if err := migrator.Run(); err != nil {
		return nil, err
	}

	return db, nil
}
