package eventbus

import (
	"context"

	"gameshelf-server-go/internal/domain/notify"
	"gameshelf-server-go/internal/domain/notify/model"
)

// NotificationHandler turns domain events into notifications for the users
// involved.
type NotificationHandler struct {
	notifications *notify.Service
	logger        notify.Logger
}

func NewNotificationHandler(notifications *notify.Service, logger notify.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// Register subscribes the handler on the shared asynchronous bus.
func (h *NotificationHandler) Register() error {
	if err := SubscribeAsync(EventReservationCreated, h.handleReservationCreated); err != nil {
		return err
	}
	if err := SubscribeAsync(EventReservationReturned, h.handleReservationReturned); err != nil {
		return err
	}
	return SubscribeAsync(EventReviewCreated, h.handleReviewCreated)
}

func (h *NotificationHandler) handleReservationCreated(data ReservationEventData) {
	h.store(data.Username, model.KindReservationCreated, map[string]any{
		"code":      data.Code,
		"boardgame": data.BoardgameName,
		"status":    data.Status,
	})
}

func (h *NotificationHandler) handleReservationReturned(data ReservationEventData) {
	h.store(data.Username, model.KindReservationReturned, map[string]any{
		"code":      data.Code,
		"boardgame": data.BoardgameName,
		"status":    data.Status,
	})
}

func (h *NotificationHandler) handleReviewCreated(data ReviewEventData) {
	h.store(data.Username, model.KindReviewCreated, map[string]any{
		"boardgame": data.BoardgameName,
		"rating":    data.Rating,
	})
}

func (h *NotificationHandler) store(subject, kind string, payload map[string]any) {
	if _, err := h.notifications.Notify(context.Background(), subject, kind, payload); err != nil {
		h.logger.Error("[Events] failed to store %s notification for %s: %v", kind, subject, err)
	}
}
