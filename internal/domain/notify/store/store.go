package store

import (
	"context"
	"time"

	"gameshelf-server-go/internal/domain/notify/model"
)

// Store defines the behaviour required by the notification service.
type Store interface {
	Add(ctx context.Context, notification model.Notification) error
	ListBySubject(ctx context.Context, subject string) ([]model.Notification, error)
	MarkRead(ctx context.Context, subject, id string) error
	Remove(ctx context.Context, subject, id string) error
	CleanupExpired(ctx context.Context) error
	Stats(ctx context.Context) (map[string]any, error)
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	TTL    time.Duration
	Redis  *RedisConfig
	Memory *MemoryConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
