package migrations

import (
	"gorm.io/gorm"
)

// Migration001Initial creates the core schema.
type Migration001Initial struct{}

func (m *Migration001Initial) Version() string {
	return "001_initial"
}

func (m *Migration001Initial) Description() string {
	return "Create initial schema for users, roles, catalog, reservations, reviews and notifications"
}

func (m *Migration001Initial) Up(db *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS roles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(64) NOT NULL UNIQUE,
			active BOOLEAN NOT NULL DEFAULT true
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			nickname VARCHAR(255),
			email VARCHAR(255),
			enabled BOOLEAN NOT NULL DEFAULT true,
			locked BOOLEAN NOT NULL DEFAULT false,
			expired BOOLEAN NOT NULL DEFAULT false,
			credentials_expired BOOLEAN NOT NULL DEFAULT false,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id INTEGER NOT NULL,
			role_id INTEGER NOT NULL,
			PRIMARY KEY (user_id, role_id)
		)`,
		`CREATE TABLE IF NOT EXISTS publishers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(255) NOT NULL UNIQUE,
			country VARCHAR(128),
			founded_year INTEGER,
			website VARCHAR(255),
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS boardgames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			min_players INTEGER DEFAULT 1,
			max_players INTEGER DEFAULT 4,
			playtime_minutes INTEGER,
			price_cents INTEGER,
			stock INTEGER DEFAULT 0,
			publisher_id INTEGER NOT NULL,
			cover_image VARCHAR(255),
			thumbnail VARCHAR(255),
			attributes JSON,
			deleted_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code VARCHAR(64) NOT NULL UNIQUE,
			user_id INTEGER NOT NULL,
			boardgame_id INTEGER NOT NULL,
			start_date DATETIME,
			end_date DATETIME,
			status VARCHAR(32) DEFAULT 'pending',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			boardgame_id INTEGER NOT NULL,
			rating INTEGER NOT NULL,
			comment TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (user_id, boardgame_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(36) PRIMARY KEY,
			subject VARCHAR(255),
			kind VARCHAR(64),
			payload JSON,
			read_at DATETIME,
			expires_at DATETIME,
			created_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_boardgames_publisher ON boardgames(publisher_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_subject ON notifications(subject)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration001Initial) Down(db *gorm.DB) error {
	tables := []string{
		"notifications", "reviews", "reservations", "boardgames",
		"publishers", "user_roles", "users", "roles",
	}
	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
