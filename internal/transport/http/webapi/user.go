package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/domain/auth"
	"gameshelf-server-go/internal/platform/storage"
	httptransport "gameshelf-server-go/internal/transport/http"
)

type userCreateRequest struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Nickname string   `json:"nickname"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type userUpdateRequest struct {
	Password           *string  `json:"password"`
	Nickname           *string  `json:"nickname"`
	Email              *string  `json:"email"`
	Enabled            *bool    `json:"enabled"`
	Locked             *bool    `json:"locked"`
	Expired            *bool    `json:"expired"`
	CredentialsExpired *bool    `json:"credentialsExpired"`
	Roles              []string `json:"roles"`
}

func (s *Service) handleUserList(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.logger.ErrorTag("HTTP", "list users: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, users, "")
}

func (s *Service) handleUserGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := s.users.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "get user %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		httptransport.RespondError(c, http.StatusNotFound, "user not found")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, user, "")
}

func (s *Service) handleUserCreate(c *gin.Context) {
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	existing, err := s.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		s.logger.ErrorTag("HTTP", "check username %q: %v", req.Username, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	if existing != nil {
		httptransport.RespondError(c, http.StatusConflict, "username already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.ErrorTag("HTTP", "hash password: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{"USER"}
	}
	user := &storage.User{
		Username:     req.Username,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		Email:        req.Email,
		Enabled:      true,
	}
	if err := s.users.Create(c.Request.Context(), user, roles); err != nil {
		s.logger.ErrorTag("HTTP", "create user: %v", err)
		httptransport.RespondError(c, http.StatusBadRequest, "failed to create user")
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, user, "user created")
}

func (s *Service) handleUserUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load user %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		httptransport.RespondError(c, http.StatusNotFound, "user not found")
		return
	}

	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.ErrorTag("HTTP", "hash password: %v", err)
			httptransport.RespondError(c, http.StatusInternalServerError, "failed to update user")
			return
		}
		user.PasswordHash = hash
	}
	if req.Nickname != nil {
		user.Nickname = *req.Nickname
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Enabled != nil {
		user.Enabled = *req.Enabled
	}
	if req.Locked != nil {
		user.Locked = *req.Locked
	}
	if req.Expired != nil {
		user.Expired = *req.Expired
	}
	if req.CredentialsExpired != nil {
		user.CredentialsExpired = *req.CredentialsExpired
	}

	if err := s.users.Update(c.Request.Context(), user, req.Roles); err != nil {
		s.logger.ErrorTag("HTTP", "update user %d: %v", id, err)
		httptransport.RespondError(c, http.StatusBadRequest, "failed to update user")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, user, "user updated")
}

func (s *Service) handleUserDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	state := httptransport.AuthStateFrom(c)
	user, err := s.users.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load user %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		httptransport.RespondError(c, http.StatusNotFound, "user not found")
		return
	}
	if user.Username == state.Subject {
		httptransport.RespondError(c, http.StatusConflict, "cannot delete your own account")
		return
	}

	if err := s.users.Delete(c.Request.Context(), id); err != nil {
		s.logger.ErrorTag("HTTP", "delete user %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to delete user")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "user deleted")
}
