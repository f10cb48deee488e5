package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gameshelf-server-go/internal/domain/notify/model"
)

type memoryStore struct {
	items       map[string]model.Notification
	mutex       sync.RWMutex
	ttl         time.Duration
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory notification store.
func NewMemory(cfg Config) Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	s := &memoryStore{
		items:       make(map[string]model.Notification),
		ttl:         ttl,
		cleanupFreq: cleanup,
		stop:        make(chan struct{}),
	}
	go s.gcLoop()
	return s
}

func (s *memoryStore) gcLoop() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = s.CleanupExpired(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *memoryStore) Add(_ context.Context, notification model.Notification) error {
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

	s.mutex.Lock()
	s.items[notification.ID] = notification
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) ListBySubject(_ context.Context, subject string) ([]model.Notification, error) {
	now := time.Now()
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]model.Notification, 0)
	for _, item := range s.items {
		if item.Subject != subject || item.Expired(now) {
			continue
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memoryStore) MarkRead(_ context.Context, subject, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item, ok := s.items[id]
	if !ok || item.Subject != subject {
		return fmt.Errorf("notification not found: %s", id)
	}
	if item.ReadAt == nil {
		now := time.Now()
		item.ReadAt = &now
		s.items[id] = item
	}
	return nil
}

func (s *memoryStore) Remove(_ context.Context, subject, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item, ok := s.items[id]
	if !ok || item.Subject != subject {
		return fmt.Errorf("notification not found: %s", id)
	}
	delete(s.items, id)
	return nil
}

func (s *memoryStore) CleanupExpired(_ context.Context) error {
	now := time.Now()
	s.mutex.Lock()
	for id, item := range s.items {
		if item.Expired(now) {
			delete(s.items, id)
		}
	}
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Stats(_ context.Context) (map[string]any, error) {
	now := time.Now()
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := len(s.items)
	unread := 0
	for _, item := range s.items {
		if item.Expired(now) {
			continue
		}
		if !item.Read() {
			unread++
		}
	}
	return map[string]any{
		"type":        "memory",
		"total":       total,
		"unread":      unread,
		"ttl_seconds": int(s.ttl.Seconds()),
	}, nil
}

func (s *memoryStore) Close(_ context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return nil
}
