package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockObjectStorage is a mock implementation of the ObjectStorage interface.
type mockObjectStorage struct {
	PresignUploadFunc   func(ctx context.Context, key, contentType string) (string, error)
	PresignDownloadFunc func(ctx context.Context, key string) (string, error)
}

func (m *mockObjectStorage) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	if m.PresignUploadFunc != nil {
		return m.PresignUploadFunc(ctx, key, contentType)
	}
	return "https://s3.example.com/put/" + key, nil
}

func (m *mockObjectStorage) PresignDownload(ctx context.Context, key string) (string, error) {
	if m.PresignDownloadFunc != nil {
		return m.PresignDownloadFunc(ctx, key)
	}
	return "https://s3.example.com/get/" + key, nil
}

// mockSafeSearch is a mock implementation of the SafeSearchClient interface.
type mockSafeSearch struct {
	ScreenFunc func(ctx context.Context, imageURL string) (*ScreenResult, error)
}

func (m *mockSafeSearch) Screen(ctx context.Context, imageURL string) (*ScreenResult, error) {
	if m.ScreenFunc != nil {
		return m.ScreenFunc(ctx, imageURL)
	}
	return &ScreenResult{Adult: "VERY_UNLIKELY", Violence: "VERY_UNLIKELY"}, nil
}

func TestMediaService_RequestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("key is namespaced per user and keeps the extension", func(t *testing.T) {
		var gotKey, gotContentType string
		storage := &mockObjectStorage{
			PresignUploadFunc: func(ctx context.Context, key, contentType string) (string, error) {
				gotKey, gotContentType = key, contentType
				return "https://s3.example.com/put", nil
			},
		}

		uc := NewMediaUsecase(storage, nil)
		up, err := uc.RequestUpload(ctx, 7, "Photo.JPG", "image/jpeg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(gotKey, "media/7/") {
			t.Errorf("key not namespaced to the user: %s", gotKey)
		}
		if !strings.HasSuffix(gotKey, ".jpg") {
			t.Errorf("extension not preserved lowercase: %s", gotKey)
		}
		if gotContentType != "image/jpeg" {
			t.Errorf("content type not forwarded: %s", gotContentType)
		}
		if up.Key != gotKey || up.URL == "" {
			t.Errorf("unexpected upload result: %+v", up)
		}
	})

	t.Run("non-image content type is rejected", func(t *testing.T) {
		uc := NewMediaUsecase(&mockObjectStorage{}, nil)
		_, err := uc.RequestUpload(ctx, 7, "doc.pdf", "application/pdf")
		if !errors.Is(err, ErrUnsupportedMediaType) {
			t.Errorf("expected ErrUnsupportedMediaType, got: %v", err)
		}
	})

	t.Run("two uploads of the same file get distinct keys", func(t *testing.T) {
		uc := NewMediaUsecase(&mockObjectStorage{}, nil)
		a, err := uc.RequestUpload(ctx, 7, "photo.jpg", "image/jpeg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := uc.RequestUpload(ctx, 7, "photo.jpg", "image/jpeg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Key == b.Key {
			t.Errorf("keys must be unique, both were %s", a.Key)
		}
	})
}

func TestMediaService_ResolveDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the presigned URL", func(t *testing.T) {
		uc := NewMediaUsecase(&mockObjectStorage{}, nil)
		url, err := uc.ResolveDownload(ctx, "media/7/abc.jpg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url != "https://s3.example.com/get/media/7/abc.jpg" {
			t.Errorf("unexpected url: %s", url)
		}
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		uc := NewMediaUsecase(&mockObjectStorage{}, nil)
		if _, err := uc.ResolveDownload(ctx, ""); err == nil {
			t.Error("expected error for empty key")
		}
	})
}

func TestMediaService_Moderate(t *testing.T) {
	ctx := context.Background()

	t.Run("safe verdict passes", func(t *testing.T) {
		uc := NewMediaUsecase(&mockObjectStorage{}, &mockSafeSearch{})
		if err := uc.Moderate(ctx, "media/7/abc.jpg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("likely adult content is blocked", func(t *testing.T) {
		screener := &mockSafeSearch{
			ScreenFunc: func(ctx context.Context, imageURL string) (*ScreenResult, error) {
				return &ScreenResult{Adult: "LIKELY", Violence: "UNLIKELY"}, nil
			},
		}
		uc := NewMediaUsecase(&mockObjectStorage{}, screener)
		if err := uc.Moderate(ctx, "media/7/abc.jpg"); !errors.Is(err, ErrMediaUnsafe) {
			t.Errorf("expected ErrMediaUnsafe, got: %v", err)
		}
	})

	t.Run("very likely violence is blocked", func(t *testing.T) {
		screener := &mockSafeSearch{
			ScreenFunc: func(ctx context.Context, imageURL string) (*ScreenResult, error) {
				return &ScreenResult{Adult: "UNLIKELY", Violence: "VERY_LIKELY"}, nil
			},
		}
		uc := NewMediaUsecase(&mockObjectStorage{}, screener)
		if err := uc.Moderate(ctx, "media/7/abc.jpg"); !errors.Is(err, ErrMediaUnsafe) {
			t.Errorf("expected ErrMediaUnsafe, got: %v", err)
		}
	})

	t.Run("possible likelihood is allowed", func(t *testing.T) {
		screener := &mockSafeSearch{
			ScreenFunc: func(ctx context.Context, imageURL string) (*ScreenResult, error) {
				return &ScreenResult{Adult: "POSSIBLE", Violence: "POSSIBLE"}, nil
			},
		}
		uc := NewMediaUsecase(&mockObjectStorage{}, screener)
		if err := uc.Moderate(ctx, "media/7/abc.jpg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("screening error is propagated", func(t *testing.T) {
		screener := &mockSafeSearch{
			ScreenFunc: func(ctx context.Context, imageURL string) (*ScreenResult, error) {
				return nil, errors.New("vision unavailable")
			},
		}
		uc := NewMediaUsecase(&mockObjectStorage{}, screener)
		if err := uc.Moderate(ctx, "media/7/abc.jpg"); err == nil {
			t.Error("expected error but got nil")
		}
	})

	t.Run("nil screener is a no-op", func(t *testing.T) {
		presignCalled := false
		storage := &mockObjectStorage{
			PresignDownloadFunc: func(ctx context.Context, key string) (string, error) {
				presignCalled = true
				return "", nil
			},
		}
		uc := NewMediaUsecase(storage, nil)
		if err := uc.Moderate(ctx, "media/7/abc.jpg"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if presignCalled {
			t.Error("no presign should happen without a screener")
		}
	})
}
