package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/domain/eventbus"
	"gameshelf-server-go/internal/platform/storage"
	httptransport "gameshelf-server-go/internal/transport/http"
)

type reviewRequest struct {
	BoardgameID uint   `json:"boardgameId" binding:"required"`
	Rating      int    `json:"rating" binding:"required"`
	Comment     string `json:"comment"`
}

type reviewSummary struct {
	Reviews       []storage.Review `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
	Count         int64            `json:"count"`
}

func (s *Service) handleReviewList(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reviews, err := s.reviews.ListByBoardgame(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "list reviews for %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	average, count, err := s.reviews.AverageRating(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "aggregate reviews for %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to aggregate reviews")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, reviewSummary{
		Reviews:       reviews,
		AverageRating: average,
		Count:         count,
	}, "")
}

func (s *Service) handleReviewCreate(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "boardgameId and rating are required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httptransport.RespondError(c, http.StatusBadRequest, "rating must be between 1 and 5")
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

	review := &storage.Review{
		UserID:      user.ID,
		BoardgameID: game.ID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := s.reviews.Create(c.Request.Context(), review); err != nil {
		// the unique index turns a second review into a constraint error
		httptransport.RespondError(c, http.StatusConflict, "you already reviewed this boardgame")
		return
	}

	eventbus.PublishAsync(eventbus.EventReviewCreated, eventbus.ReviewEventData{
		Username:      user.Username,
		BoardgameID:   game.ID,
		BoardgameName: game.Name,
		Rating:        review.Rating,
	})
	httptransport.RespondSuccess(c, http.StatusCreated, review, "review created")
}

func (s *Service) handleReviewDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	review, err := s.reviews.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load review %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load review")
		return
	}
	if review == nil {
		httptransport.RespondError(c, http.StatusNotFound, "review not found")
		return
	}
	if err := s.reviews.Delete(c.Request.Context(), id); err != nil {
		s.logger.ErrorTag("HTTP", "delete review %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to delete review")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "review deleted")
}
