package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"gameshelf-server-go/internal/domain/notify/model"
	"gameshelf-server-go/internal/domain/notify/store"
	"gameshelf-server-go/internal/platform/errors"
)

// Logger captures the logging behaviour the service needs.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Service delivers notifications to subjects through the configured store.
type Service struct {
	store    store.Store
	logger   Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewService(st store.Store, logger Logger) (*Service, error) {
	if st == nil {
		return nil, errors.New(errors.KindDomain, "notify.new", "store is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindDomain, "notify.new", "logger is required")
	}
	return &Service{
		store:  st,
		logger: logger,
		stop:   make(chan struct{}),
	}, nil
}

// Notify stores a new notification for the subject and returns it.
func (s *Service) Notify(ctx context.Context, subject, kind string, payload map[string]any) (model.Notification, error) {
	if subject == "" || kind == "" {
		return model.Notification{}, errors.New(errors.KindDomain, "notify.notify", "subject and kind are required")
	}

	notification := model.Notification{
		ID:        uuid.NewString(),
		Subject:   subject,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := s.store.Add(ctx, notification); err != nil {
		return model.Notification{}, errors.Wrap(errors.KindDomain, "notify.notify", "failed to store notification", err)
	}
	s.logger.Debug("[Notify] stored %s notification for %s", kind, subject)
	return notification, nil
}

func (s *Service) List(ctx context.Context, subject string) ([]model.Notification, error) {
	notifications, err := s.store.ListBySubject(ctx, subject)
	if err != nil {
		return nil, errors.Wrap(errors.KindDomain, "notify.list", "failed to list notifications", err)
	}
	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, subject, id string) error {
	if err := s.store.MarkRead(ctx, subject, id); err != nil {
		return errors.Wrap(errors.KindDomain, "notify.mark_read", "failed to mark notification read", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, subject, id string) error {
	if err := s.store.Remove(ctx, subject, id); err != nil {
		return errors.Wrap(errors.KindDomain, "notify.remove", "failed to remove notification", err)
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (map[string]any, error) {
	return s.store.Stats(ctx)
}

// StartCleanup runs periodic expiry sweeps until Close is called. Drivers
// with native expiry treat the sweep as a no-op.
func (s *Service) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.store.CleanupExpired(context.Background()); err != nil {
					s.logger.Warn("[Notify] cleanup failed: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Service) Close(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return s.store.Close(ctx)
}
