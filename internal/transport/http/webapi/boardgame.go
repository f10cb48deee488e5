package webapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"gameshelf-server-go/internal/platform/storage"
	httptransport "gameshelf-server-go/internal/transport/http"
)

type boardgameRequest struct {
	Name            string         `json:"name" binding:"required"`
	Description     string         `json:"description"`
	MinPlayers      int            `json:"minPlayers"`
	MaxPlayers      int            `json:"maxPlayers"`
	PlaytimeMinutes int            `json:"playtimeMinutes"`
	PriceCents      int64          `json:"priceCents"`
	Stock           int            `json:"stock"`
	PublisherID     uint           `json:"publisherId" binding:"required"`
	Attributes      map[string]any `json:"attributes"`
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (s *Service) handleBoardgameList(c *gin.Context) {
	filter := storage.BoardgameFilter{
		Name:    c.Query("name"),
		InStock: c.Query("inStock") == "true",
	}
	if raw := c.Query("publisherId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httptransport.RespondError(c, http.StatusBadRequest, "invalid publisherId")
			return
		}
		filter.PublisherID = uint(id)
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			httptransport.RespondError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
		filter.Offset, _ = strconv.Atoi(c.Query("offset"))
	}

	games, err := s.boardgames.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.ErrorTag("HTTP", "list boardgames: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to list boardgames")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, games, "")
}

func (s *Service) handleBoardgameGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	game, err := s.boardgames.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "get boardgame %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load boardgame")
		return
	}
	if game == nil {
		httptransport.RespondError(c, http.StatusNotFound, "boardgame not found")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, game, "")
}

func (s *Service) handleBoardgameCreate(c *gin.Context) {
	var req boardgameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "name and publisherId are required")
		return
	}
	game, ok := s.boardgameFromRequest(c, req)
	if !ok {
		return
	}

	if err := s.boardgames.Create(c.Request.Context(), game); err != nil {
		s.logger.ErrorTag("HTTP", "create boardgame: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to create boardgame")
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, game, "boardgame created")
}

func (s *Service) handleBoardgameUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req boardgameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "name and publisherId are required")
		return
	}

	existing, err := s.boardgames.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load boardgame %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load boardgame")
		return
	}
	if existing == nil {
		httptransport.RespondError(c, http.StatusNotFound, "boardgame not found")
		return
	}

	game, ok := s.boardgameFromRequest(c, req)
	if !ok {
		return
	}
	game.ID = existing.ID
	game.CoverImage = existing.CoverImage
	game.Thumbnail = existing.Thumbnail
	game.CreatedAt = existing.CreatedAt

	if err := s.boardgames.Update(c.Request.Context(), game); err != nil {
		s.logger.ErrorTag("HTTP", "update boardgame %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to update boardgame")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, game, "boardgame updated")
}

func (s *Service) handleBoardgameDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.boardgames.Delete(c.Request.Context(), id); err != nil {
		s.logger.ErrorTag("HTTP", "delete boardgame %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to delete boardgame")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "boardgame deleted")
}

func (s *Service) boardgameFromRequest(c *gin.Context, req boardgameRequest) (*storage.Boardgame, bool) {
	publisher, err := s.publishers.FindByID(c.Request.Context(), req.PublisherID)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load publisher %d: %v", req.PublisherID, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load publisher")
		return nil, false
	}
	if publisher == nil {
		httptransport.RespondError(c, http.StatusBadRequest, "publisher does not exist")
		return nil, false
	}

	game := &storage.Boardgame{
		Name:            req.Name,
		Description:     req.Description,
		MinPlayers:      req.MinPlayers,
		MaxPlayers:      req.MaxPlayers,
		PlaytimeMinutes: req.PlaytimeMinutes,
		PriceCents:      req.PriceCents,
		Stock:           req.Stock,
		PublisherID:     req.PublisherID,
	}
	if req.Attributes != nil {
		data, err := json.Marshal(req.Attributes)
		if err != nil {
			httptransport.RespondError(c, http.StatusBadRequest, "invalid attributes")
			return nil, false
		}
		game.Attributes = datatypes.JSON(data)
	}
	return game, true
}

// handleCoverUpload accepts a multipart cover image, validates it and stores
// the full image plus a thumbnail under the upload directory.
func (s *Service) handleCoverUpload(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	game, err := s.boardgames.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.ErrorTag("HTTP", "load boardgame %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load boardgame")
		return
	}
	if game == nil {
		httptransport.RespondError(c, http.StatusNotFound, "boardgame not found")
		return
	}

	file, err := c.FormFile("cover")
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "cover file is required")
		return
	}
	reader, err := file.Open()
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "cover file is not readable")
		return
	}
	defer reader.Close()

	format := ""
	if ext := filepath.Ext(file.Filename); len(ext) > 1 {
		format = ext[1:]
	}
	cover, thumbnail, err := s.storeCover(c, id, reader, format)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.boardgames.UpdateCover(c.Request.Context(), id, cover, thumbnail); err != nil {
		s.logger.ErrorTag("HTTP", "update cover %d: %v", id, err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to store cover")
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, gin.H{
		"coverImage": cover,
		"thumbnail":  thumbnail,
	}, "cover uploaded")
}
