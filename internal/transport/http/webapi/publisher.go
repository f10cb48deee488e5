package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/platform/errors"
	"gameshelf-server-go/internal/platform/storage"
	httptransport "gameshelf-server-go/internal/transport/http"
)

type publisherRequest struct {
	Name        string `json:"name" binding:"required"`
	Country     string `json:"country"`
	FoundedYear int    `json:"foundedYear"`
	Website     string `json:"website"`
}

func (s *Service) handlePublisherList(c *gin.Context) {
	publishers, err := s.publishers.List(c.Request.Context())
	if err != nil {
		s.logger.ErrorTag("HTTP", "list publishers: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to list publishers")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, publishers, "")
}

func (s *Service) handlePublisherGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	publisher, err := s.publishers.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "get publisher %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load publisher")
		return
	}
	if publisher == nil {
		httptransport.RespondError(c, http.StatusNotFound, "publisher not found")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, publisher, "")
}

func (s *Service) handlePublisherCreate(c *gin.Context) {
	var req publisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "name is required")
		return
	}
	publisher := &storage.Publisher{
		Name:        req.Name,
		Country:     req.Country,
		FoundedYear: req.FoundedYear,
		Website:     req.Website,
	}
	if err := s.publishers.Create(c.Request.Context(), publisher); err != nil {
		s.logger.ErrorTag("HTTP", "create publisher: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to create publisher")
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, publisher, "publisher created")
}

func (s *Service) handlePublisherUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req publisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "name is required")
		return
	}

	publisher, err := s.publishers.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load publisher %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load publisher")
		return
	}
	if publisher == nil {
		httptransport.RespondError(c, http.StatusNotFound, "publisher not found")
		return
	}

	publisher.Name = req.Name
	publisher.Country = req.Country
	publisher.FoundedYear = req.FoundedYear
	publisher.Website = req.Website
	if err := s.publishers.Update(c.Request.Context(), publisher); err != nil {
		s.logger.ErrorTag("HTTP", "update publisher %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to update publisher")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, publisher, "publisher updated")
}

func (s *Service) handlePublisherDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.publishers.Delete(c.Request.Context(), id); err != nil {
		if errors.IsKind(err, errors.KindDomain) {
			httptransport.RespondError(c, http.StatusConflict, "publisher still has boardgames")
			return
		}
		s.logger.ErrorTag("HTTP", "delete publisher %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to delete publisher")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "publisher deleted")
}
