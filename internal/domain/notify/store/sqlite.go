package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gameshelf-server-go/internal/domain/notify/model"
	"gameshelf-server-go/internal/platform/storage"
)

type sqliteStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSQLite constructs a notification store persisted in the main database.
func NewSQLite(db *gorm.DB, cfg Config) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &sqliteStore{db: db, ttl: ttl}, nil
}

func (s *sqliteStore) Add(ctx context.Context, notification model.Notification) error {
	if notification.ID == "" {
		return fmt.Errorf("notification id required")
	}
	record, err := toRecord(notification, s.ttl)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *sqliteStore) ListBySubject(ctx context.Context, subject string) ([]model.Notification, error) {
	var records []storage.Notification
	err := s.db.WithContext(ctx).
		Where("subject = ? AND (expires_at IS NULL OR expires_at > ?)", subject, time.Now()).
		Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	result := make([]model.Notification, 0, len(records))
	for _, record := range records {
		notification, err := fromRecord(record)
		if err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	return result, nil
}

func (s *sqliteStore) MarkRead(ctx context.Context, subject, id string) error {
	result := s.db.WithContext(ctx).Model(&storage.Notification{}).
		Where("id = ? AND subject = ? AND read_at IS NULL", id, subject).
		Update("read_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		err := s.db.WithContext(ctx).Model(&storage.Notification{}).
			Where("id = ? AND subject = ?", id, subject).Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("notification not found: %s", id)
		}
	}
	return nil
}

func (s *sqliteStore) Remove(ctx context.Context, subject, id string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND subject = ?", id, subject).Delete(&storage.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

func (s *sqliteStore) CleanupExpired(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&storage.Notification{}).Error
}

func (s *sqliteStore) Stats(ctx context.Context) (map[string]any, error) {
	var total, unread int64
	if err := s.db.WithContext(ctx).Model(&storage.Notification{}).Count(&total).Error; err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&storage.Notification{}).
		Where("read_at IS NULL AND (expires_at IS NULL OR expires_at > ?)", time.Now()).
		Count(&unread).Error
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"type":        "sqlite",
		"total":       total,
		"unread":      unread,
		"ttl_seconds": int(s.ttl.Seconds()),
	}, nil
}

func (s *sqliteStore) Close(context.Context) error {
	// The database handle is owned by the caller.
	return nil
}

func toRecord(notification model.Notification, ttl time.Duration) (*storage.Notification, error) {
	now := time.Now()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now
	}
	if notification.ExpiresAt == nil && ttl > 0 {
		exp := now.Add(ttl)
		notification.ExpiresAt = &exp
	}

	record := &storage.Notification{
		ID:        notification.ID,
		Subject:   notification.Subject,
		Kind:      notification.Kind,
		ReadAt:    notification.ReadAt,
		ExpiresAt: notification.ExpiresAt,
		CreatedAt: notification.CreatedAt,
	}
	if notification.Payload != nil {
		data, err := json.Marshal(notification.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		record.Payload = datatypes.JSON(data)
	}
	return record, nil
}

func fromRecord(record storage.Notification) (model.Notification, error) {
	notification := model.Notification{
		ID:        record.ID,
		Subject:   record.Subject,
		Kind:      record.Kind,
		ReadAt:    record.ReadAt,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
	}
	if len(record.Payload) > 0 {
		if err := json.Unmarshal(record.Payload, &notification.Payload); err != nil {
			return model.Notification{}, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	return notification, nil
}
