package storage

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"gameshelf-server-go/internal/platform/errors"
)

// Migration is a versioned, reversible schema change.
type Migration interface {
	Version() string
	Description() string
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// MigrationRecord marks an applied migration in the database.
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// Migrator applies registered migrations in registration order. Each pending
// migration runs inside its own transaction together with its record, so a
// failure leaves the schema at the last completed version.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB, migrations ...Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

func (m *Migrator) Register(migration Migration) {
	m.migrations = append(m.migrations, migration)
}

// Run applies every migration whose version has no record yet.
func (m *Migrator) Run() error {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return errors.Wrap(errors.KindStorage, "migrator.init", "migration bookkeeping table unavailable", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		version := migration.Version()
		if applied[version] {
			continue
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{
				Version:   version,
				Name:      migration.Description(),
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return errors.Wrap(errors.KindStorage, "migrator.apply",
				fmt.Sprintf("migration %s failed", version), err)
		}
	}
	return nil
}

// Rollback reverts a single applied migration by version.
func (m *Migrator) Rollback(version string) error {
	var record MigrationRecord
	if err := m.db.Where("version = ?", version).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.New(errors.KindStorage, "migrator.rollback",
				fmt.Sprintf("migration %s was never applied", version))
		}
		return errors.Wrap(errors.KindStorage, "migrator.rollback", "failed to read migration record", err)
	}

	migration := m.lookup(version)
	if migration == nil {
		return errors.New(errors.KindStorage, "migrator.rollback",
			fmt.Sprintf("migration %s is not registered", version))
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		return errors.Wrap(errors.KindStorage, "migrator.rollback",
			fmt.Sprintf("rollback of %s failed", version), err)
	}
	return nil
}

// History lists applied migrations, newest first.
func (m *Migrator) History() ([]MigrationRecord, error) {
	var records []MigrationRecord
	if err := m.db.Order("applied_at DESC").Find(&records).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "migrator.history", "failed to read migration history", err)
	}
	return records, nil
}

func (m *Migrator) appliedVersions() (map[string]bool, error) {
	var versions []string
	if err := m.db.Model(&MigrationRecord{}).Pluck("version", &versions).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "migrator.init", "failed to read applied versions", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func (m *Migrator) lookup(version string) Migration {
	for _, migration := range m.migrations {
		if migration.Version() == version {
			return migration
		}
	}
	return nil
}
