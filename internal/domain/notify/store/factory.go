package store

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Driver identifiers supported by the notification domain.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Dependencies carries handles some drivers borrow from the caller instead
// of opening their own.
type Dependencies struct {
	SQLiteDB *gorm.DB
}

// New selects and constructs the store for cfg.Driver. An empty driver falls
// back to the in-memory store.
func New(cfg Config, deps Dependencies) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverMemory, "":
		return NewMemory(cfg), nil
	case DriverSQLite:
		if deps.SQLiteDB == nil {
			return nil, fmt.Errorf("notification store: sqlite driver needs a database handle")
		}
		return NewSQLite(deps.SQLiteDB, cfg)
	case DriverRedis:
		if cfg.Redis == nil || cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("notification store: redis driver needs an address")
		}
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("notification store: unknown driver %q", cfg.Driver)
	}
}
