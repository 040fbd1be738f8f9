// Package handler provides HTTP handlers for the media feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"greetings_backend/internal/feature/media/transport/http/dto"
	"greetings_backend/internal/feature/media/usecase"
	jwtmw "greetings_backend/internal/platform/jwt"
)

// MediaUsecase defines the media operations used by this handler.
type MediaUsecase interface {
	RequestUpload(ctx context.Context, userID uint, filename, contentType string) (*usecase.Upload, error)
	ResolveDownload(ctx context.Context, key string) (string, error)
}

// MediaHandler handles HTTP requests for media uploads.
type MediaHandler struct {
	media MediaUsecase
}

// NewMediaHandler creates a new instance of MediaHandler.
func NewMediaHandler(media MediaUsecase) *MediaHandler {
	return &MediaHandler{media: media}
}

// RequestUpload handles POST /media/uploads. It returns an object key and a
// presigned PUT URL the client uploads the file to directly.
func (h *MediaHandler) RequestUpload(c *gin.Context) {
	var req dto.UploadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := c.GetUint(jwtmw.ContextUserID)
	upload, err := h.media.RequestUpload(c.Request.Context(), userID, req.FileName, req.ContentType)
	if err != nil {
		if errors.Is(err, usecase.ErrUnsupportedMediaType) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only image uploads are supported"})
			return
		}
		slog.Error("upload request failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// ResolveDownload handles GET /media/url?key=. It returns a presigned GET URL.
func (h *MediaHandler) ResolveDownload(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	url, err := h.media.ResolveDownload(c.Request.Context(), key)
	if err != nil {
		slog.Error("download resolve failed", "error", err, "key", key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.DownloadRes{URL: url})
}
