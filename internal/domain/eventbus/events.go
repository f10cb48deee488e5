package eventbus

// Topics published by the domain services.
const (
	EventReservationCreated  = "reservation:created"
	EventReservationReturned = "reservation:returned"
	EventReviewCreated       = "review:created"

	EventSystemError = "system:error"
	EventSystemInfo  = "system:info"
)

// ReservationEventData travels with the reservation topics.
type ReservationEventData struct {
	Code          string `json:"code"`
	Username      string `json:"username"`
	BoardgameID   uint   `json:"boardgame_id"`
	BoardgameName string `json:"boardgame_name"`
	Status        string `json:"status"`
}

// ReviewEventData travels with the review topic.
type ReviewEventData struct {
	Username      string `json:"username"`
	BoardgameID   uint   `json:"boardgame_id"`
	BoardgameName string `json:"boardgame_name"`
	Rating        int    `json:"rating"`
}

// SystemEventData carries system level diagnostics.
type SystemEventData struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}
