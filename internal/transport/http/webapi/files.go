package webapi

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/domain/image"
)

// storeCover runs the upload through the image pipeline and persists both
// artefacts under the configured upload directory. It returns the public
// paths served by the static file route.
func (s *Service) storeCover(c *gin.Context, boardgameID uint, reader io.Reader, declaredFormat string) (string, string, error) {
	if s.covers == nil {
		return "", "", fmt.Errorf("cover uploads are not enabled")
	}

	out, err := s.covers.Process(c.Request.Context(), image.Input{
		Reader:         reader,
		DeclaredFormat: declaredFormat,
	})
	if err != nil {
		return "", "", err
	}

	dir := filepath.Join(s.config.Web.UploadDir, "covers")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload directory: %w", err)
	}

	coverName := fmt.Sprintf("%d.%s", boardgameID, out.Format)
	thumbName := fmt.Sprintf("%d_thumb.jpg", boardgameID)
	if err := os.WriteFile(filepath.Join(dir, coverName), out.Bytes, 0o644); err != nil {
		return "", "", fmt.Errorf("write cover: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, thumbName), out.Thumbnail, 0o644); err != nil {
		return "", "", fmt.Errorf("write thumbnail: %w", err)
	}

	return "/uploads/covers/" + coverName, "/uploads/covers/" + thumbName, nil
}
