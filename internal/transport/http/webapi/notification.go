package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httptransport "gameshelf-server-go/internal/transport/http"
)

func (s *Service) handleNotificationList(c *gin.Context) {
	state := httptransport.AuthStateFrom(c)
	notifications, err := s.notifications.List(c.Request.Context(), state.Subject)
	if err != nil {
		s.logger.ErrorTag("HTTP", "list notifications for %q: %v", state.Subject, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, notifications, "")
}

func (s *Service) handleNotificationRead(c *gin.Context) {
	state := httptransport.AuthStateFrom(c)
	id := c.Param("id")
	if err := s.notifications.MarkRead(c.Request.Context(), state.Subject, id); err != nil {
		httptransport.RespondError(c, http.StatusNotFound, "notification not found")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "notification read")
}

func (s *Service) handleNotificationDelete(c *gin.Context) {
	state := httptransport.AuthStateFrom(c)
	id := c.Param("id")
	if err := s.notifications.Remove(c.Request.Context(), state.Subject, id); err != nil {
		httptransport.RespondError(c, http.StatusNotFound, "notification not found")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "notification deleted")
}
