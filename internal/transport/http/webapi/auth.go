package webapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/domain/auth"
	httptransport "gameshelf-server-go/internal/transport/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

// handleLogin exchanges credentials for a bearer token. Every failure mode
// past input validation answers with the same message so callers cannot
// probe which usernames exist.
func (s *Service) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := s.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMalformedRequest):
			httptransport.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrNotAuthenticated):
			httptransport.RespondError(c, http.StatusUnauthorized, err.Error())
		default:
			s.logger.ErrorTag("Auth", "login failed unexpectedly: %v", err)
			httptransport.RespondError(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	httptransport.RespondSuccess(c, http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.auth.Codec().TTL().Seconds()),
	}, "authenticated")
}
