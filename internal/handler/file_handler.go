package handler

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/response"
)

type tokenParser interface {
	Parse(token string) (ownerID, key string, expiresAt time.Time, err error)
}

type fileOpener interface {
	Open(key string) (*os.File, error)
}

// FileHandler streams stored artifacts behind signed tokens.
type FileHandler struct {
	signer tokenParser
	files  fileOpener
	logger *zap.Logger
}

// NewFileHandler builds the handler.
func NewFileHandler(signer tokenParser, files fileOpener, logger *zap.Logger) *FileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileHandler{signer: signer, files: files, logger: logger}
}

// Download godoc
// @Summary Download a stored file
// @Description The token is issued inside task artifacts and team documents and expires.
// @Tags Files
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/{token} [get]
func (h *FileHandler) Download(c *gin.Context) {
	ownerID, key, _, err := h.signer.Parse(c.Param("token"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthenticated.Code, http.StatusUnauthorized, "invalid or expired download link"))
		return
	}
	file, err := h.files.Open(key)
	if err != nil {
		h.logger.Info("stored file missing", zap.String("owner_id", ownerID), zap.String("key", key), zap.Error(err))
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", response.ContentDisposition(path.Base(key)))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.logger.Warn("failed to stream file", zap.String("key", key), zap.Error(err))
	}
}
