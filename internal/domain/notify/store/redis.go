package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"gameshelf-server-go/internal/domain/notify/model"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis constructs a redis-backed notification store.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "notify:"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &redisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (s *redisStore) key(subject, id string) string {
	return s.prefix + subject + ":" + id
}

func (s *redisStore) Add(ctx context.Context, notification model.Notification) error {
	if notification.ID == "" {
		return fmt.Errorf("notification id required")
	}
	now := time.Now()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now
	}
	if notification.ExpiresAt == nil && s.ttl > 0 {
		exp := now.Add(s.ttl)
		notification.ExpiresAt = &exp
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	expiry := s.ttl
	if notification.ExpiresAt != nil {
		expiry = time.Until(*notification.ExpiresAt)
	}
	return s.client.Set(ctx, s.key(notification.Subject, notification.ID), data, expiry).Err()
}

func (s *redisStore) ListBySubject(ctx context.Context, subject string) ([]model.Notification, error) {
	keys, err := s.scan(ctx, s.prefix+subject+":*")
	if err != nil {
		return nil, err
	}

	result := make([]model.Notification, 0, len(keys))
	for _, key := range keys {
		raw, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, err
		}
		var notification model.Notification
		if err := json.Unmarshal(raw, &notification); err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *redisStore) MarkRead(ctx context.Context, subject, id string) error {
	key := s.key(subject, id)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("notification not found: %s", id)
		}
		return err
	}
	var notification model.Notification
	if err := json.Unmarshal(raw, &notification); err != nil {
		return err
	}
	if notification.ReadAt == nil {
		now := time.Now()
		notification.ReadAt = &now
	}
	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, redis.KeepTTL).Err()
}

func (s *redisStore) Remove(ctx context.Context, subject, id string) error {
	removed, err := s.client.Del(ctx, s.key(subject, id)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

func (s *redisStore) CleanupExpired(context.Context) error {
	// Redis handles expiration via TTL.
	return nil
}

func (s *redisStore) Stats(ctx context.Context) (map[string]any, error) {
	keys, err := s.scan(ctx, s.prefix+"*")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"type":        "redis",
		"total":       len(keys),
		"ttl_seconds": int(s.ttl.Seconds()),
	}, nil
}

func (s *redisStore) Close(context.Context) error {
	return s.client.Close()
}

func (s *redisStore) scan(ctx context.Context, pattern string) ([]string, error) {
	var cursor uint64
	keys := make([]string, 0)
	for {
		res, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, res...)
		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}
	return keys, nil
}
