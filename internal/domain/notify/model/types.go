package model

import "time"

// Notification kinds emitted by the domain event handlers.
const (
	KindReservationCreated  = "reservation.created"
	KindReservationReturned = "reservation.returned"
	KindReviewCreated       = "review.created"
)

// Notification is a message addressed to a single subject (username).
type Notification struct {
	ID        string         `json:"id"`
	Subject   string         `json:"subject"`
	Kind      string         `json:"kind"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	ReadAt    *time.Time     `json:"readAt,omitempty"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

// Read reports whether the notification has been marked read.
func (n Notification) Read() bool {
	return n.ReadAt != nil
}

// Expired reports whether the notification is past its expiry.
func (n Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
