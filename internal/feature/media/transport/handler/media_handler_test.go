package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"greetings_backend/internal/feature/media/usecase"
	jwtmw "greetings_backend/internal/platform/jwt"
)

// mockMediaUsecase is a mock implementation of the MediaUsecase interface.
type mockMediaUsecase struct {
	RequestUploadFunc   func(ctx context.Context, userID uint, filename, contentType string) (*usecase.Upload, error)
	ResolveDownloadFunc func(ctx context.Context, key string) (string, error)
}

func (m *mockMediaUsecase) RequestUpload(ctx context.Context, userID uint, filename, contentType string) (*usecase.Upload, error) {
	if m.RequestUploadFunc != nil {
		return m.RequestUploadFunc(ctx, userID, filename, contentType)
	}
	return nil, errors.New("upload failed")
}

func (m *mockMediaUsecase) ResolveDownload(ctx context.Context, key string) (string, error) {
	if m.ResolveDownloadFunc != nil {
		return m.ResolveDownloadFunc(ctx, key)
	}
	return "", errors.New("resolve failed")
}

func newMediaRouter(userID uint, mockUC *mockMediaUsecase) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, userID)
	})
	h := NewMediaHandler(mockUC)
	router.POST("/media/uploads", h.RequestUpload)
	router.GET("/media/url", h.ResolveDownload)
	return router
}

func TestMediaHandler_RequestUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockUploadFunc func(ctx context.Context, userID uint, filename, contentType string) (*usecase.Upload, error)
		expectedStatus int
	}{
		{
			name:        "success: presigned upload issued",
			requestBody: gin.H{"file_name": "photo.jpg", "content_type": "image/jpeg"},
			mockUploadFunc: func(ctx context.Context, userID uint, filename, contentType string) (*usecase.Upload, error) {
				assert.Equal(t, uint(7), userID)
				return &usecase.Upload{Key: "media/7/abc.jpg", URL: "https://s3.example.com/put"}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: missing file name",
			requestBody:    gin.H{"content_type": "image/jpeg"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "failure: non-image content type",
			requestBody: gin.H{"file_name": "doc.pdf", "content_type": "application/pdf"},
			mockUploadFunc: func(ctx context.Context, userID uint, filename, contentType string) (*usecase.Upload, error) {
				return nil, usecase.ErrUnsupportedMediaType
			},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newMediaRouter(7, &mockMediaUsecase{RequestUploadFunc: tt.mockUploadFunc})

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/media/uploads", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				var up usecase.Upload
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
				assert.NotEmpty(t, up.Key)
				assert.NotEmpty(t, up.URL)
			}
		})
	}
}

func TestMediaHandler_ResolveDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		mockUC := &mockMediaUsecase{
			ResolveDownloadFunc: func(ctx context.Context, key string) (string, error) {
				assert.Equal(t, "media/7/abc.jpg", key)
				return "https://s3.example.com/get", nil
			},
		}
		router := newMediaRouter(7, mockUC)

		req, _ := http.NewRequest(http.MethodGet, "/media/url?key=media/7/abc.jpg", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://s3.example.com/get")
	})

	t.Run("missing key", func(t *testing.T) {
		router := newMediaRouter(7, &mockMediaUsecase{})

		req, _ := http.NewRequest(http.MethodGet, "/media/url", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
