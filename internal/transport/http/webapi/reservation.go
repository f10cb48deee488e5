package webapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gameshelf-server-go/internal/domain/eventbus"
	"gameshelf-server-go/internal/platform/errors"
	"gameshelf-server-go/internal/platform/storage"
	httptransport "gameshelf-server-go/internal/transport/http"
)

type reservationRequest struct {
	BoardgameID uint      `json:"boardgameId" binding:"required"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

// currentUser resolves the authenticated subject to its stored user row.
func (s *Service) currentUser(c *gin.Context) (*storage.User, bool) {
	state := httptransport.AuthStateFrom(c)
	if !state.Authenticated {
		httptransport.RespondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	user, err := s.users.FindByUsername(c.Request.Context(), state.Subject)
	if err != nil || user == nil {
		s.logger.ErrorTag("HTTP", "resolve user %q: %v", state.Subject, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to resolve user")
		return nil, false
	}
	return user, true
}

func (s *Service) handleReservationCreate(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "boardgameId is required")
		return
	}

	game, err := s.boardgames.FindByID(c.Request.Context(), req.BoardgameID)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load boardgame %d: %v", req.BoardgameID, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load boardgame")
		return
	}
	if game == nil {
		httptransport.RespondError(c, http.StatusNotFound, "boardgame not found")
		return
	}

	start := req.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	end := req.EndDate
	if end.IsZero() {
		end = start.Add(7 * 24 * time.Hour)
	}
	if !end.After(start) {
		httptransport.RespondError(c, http.StatusBadRequest, "endDate must be after startDate")
		return
	}

	reservation := &storage.Reservation{
		Code:        "RES-" + strings.ToUpper(uuid.NewString()[:8]),
		UserID:      user.ID,
		BoardgameID: game.ID,
		StartDate:   start,
		EndDate:     end,
		Status:      storage.ReservationPending,
	}
	if err := s.reservations.Create(c.Request.Context(), reservation); err != nil {
		if errors.IsKind(err, errors.KindDomain) {
			httptransport.RespondError(c, http.StatusConflict, "boardgame is out of stock")
			return
		}
		s.logger.ErrorTag("HTTP", "create reservation: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to create reservation")
		return
	}

	eventbus.PublishAsync(eventbus.EventReservationCreated, eventbus.ReservationEventData{
		Code:          reservation.Code,
		Username:      user.Username,
		BoardgameID:   game.ID,
		BoardgameName: game.Name,
		Status:        reservation.Status,
	})
	httptransport.RespondSuccess(c, http.StatusCreated, reservation, "reservation created")
}

func (s *Service) handleReservationListMine(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}
	reservations, err := s.reservations.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		s.logger.ErrorTag("HTTP", "list reservations for %d: %v", user.ID, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to list reservations")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, reservations, "")
}

func (s *Service) handleReservationListAll(c *gin.Context) {
	reservations, err := s.reservations.ListAll(c.Request.Context())
	if err != nil {
		s.logger.ErrorTag("HTTP", "list all reservations: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to list reservations")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, reservations, "")
}

// loadReservationForUpdate fetches the reservation and applies the ownership
// rule: customers may only touch their own reservations, staff may touch any.
func (s *Service) loadReservationForUpdate(c *gin.Context) (*storage.Reservation, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	reservation, err := s.reservations.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load reservation %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load reservation")
		return nil, false
	}
	if reservation == nil {
		httptransport.RespondError(c, http.StatusNotFound, "reservation not found")
		return nil, false
	}

	state := httptransport.AuthStateFrom(c)
	if state.HasAnyRole("EMPLOYEE", "ADMIN") {
		return reservation, true
	}
	if reservation.User == nil || reservation.User.Username != state.Subject {
		httptransport.RespondError(c, http.StatusForbidden, "not your reservation")
		return nil, false
	}
	return reservation, true
}

func (s *Service) handleReservationActivate(c *gin.Context) {
	state := httptransport.AuthStateFrom(c)
	if !state.HasAnyRole("EMPLOYEE", "ADMIN") {
		httptransport.RespondError(c, http.StatusForbidden, "staff role required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.reservations.Activate(c.Request.Context(), id); err != nil {
		if errors.IsKind(err, errors.KindDomain) {
			httptransport.RespondError(c, http.StatusConflict, "reservation is not pending")
			return
		}
		s.logger.ErrorTag("HTTP", "activate reservation %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to activate reservation")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "reservation activated")
}

func (s *Service) handleReservationReturn(c *gin.Context) {
	s.closeReservation(c, storage.ReservationReturned, "reservation returned")
}

func (s *Service) handleReservationCancel(c *gin.Context) {
	s.closeReservation(c, storage.ReservationCancelled, "reservation cancelled")
}

func (s *Service) closeReservation(c *gin.Context, status, message string) {
	reservation, ok := s.loadReservationForUpdate(c)
	if !ok {
		return
	}
	if err := s.reservations.Close(c.Request.Context(), reservation.ID, status); err != nil {
		if errors.IsKind(err, errors.KindDomain) {
			httptransport.RespondError(c, http.StatusConflict, "reservation is already closed")
			return
		}
		s.logger.ErrorTag("HTTP", "close reservation %d: %v", reservation.ID, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to close reservation")
		return
	}

	if status == storage.ReservationReturned {
		username := ""
		if reservation.User != nil {
			username = reservation.User.Username
		}
		gameName := ""
		if reservation.Boardgame != nil {
			gameName = reservation.Boardgame.Name
		}
		eventbus.PublishAsync(eventbus.EventReservationReturned, eventbus.ReservationEventData{
			Code:          reservation.Code,
			Username:      username,
			BoardgameID:   reservation.BoardgameID,
			BoardgameName: gameName,
			Status:        status,
		})
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, message)
}
