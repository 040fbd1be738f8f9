// Package usecase implements the business logic for the media feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnsupportedMediaType is returned when the requested content type cannot be uploaded.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMediaUnsafe is returned when an uploaded object fails safe-search screening.
	ErrMediaUnsafe = errors.New("media failed content screening")
)

// rejectedLikelihoods are the screening verdicts that block an object.
var rejectedLikelihoods = map[string]bool{
	"LIKELY":      true,
	"VERY_LIKELY": true,
}

// ObjectStorage abstracts the presigned-URL operations of the media store.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type ObjectStorage interface {
	// PresignUpload returns a short-lived URL the client can PUT the object to.
	PresignUpload(ctx context.Context, key, contentType string) (string, error)

	// PresignDownload returns a short-lived URL the object can be fetched from.
	PresignDownload(ctx context.Context, key string) (string, error)
}

// ScreenResult holds the safe-search verdicts for one image.
type ScreenResult struct {
	Adult    string
	Violence string
}

// SafeSearchClient screens an image reachable at a URL.
type SafeSearchClient interface {
	Screen(ctx context.Context, imageURL string) (*ScreenResult, error)
}

// Upload is the result of an upload request.
type Upload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// MediaService implements presigned media uploads and content screening.
type MediaService struct {
	storage  ObjectStorage
	screener SafeSearchClient
}

// NewMediaUsecase creates a new MediaService. screener may be nil, which
// disables content screening.
func NewMediaUsecase(storage ObjectStorage, screener SafeSearchClient) *MediaService {
	return &MediaService{storage: storage, screener: screener}
}

// RequestUpload mints a per-user object key and returns a presigned PUT URL.
// Only image uploads are accepted.
func (u *MediaService) RequestUpload(ctx context.Context, userID uint, filename, contentType string) (*Upload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}

	// Keys are namespaced per user so one user cannot overwrite another's objects
	key := fmt.Sprintf("media/%d/%s%s", userID, uuid.New(), strings.ToLower(path.Ext(filename)))

	url, err := u.storage.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}
	return &Upload{Key: key, URL: url}, nil
}

// ResolveDownload returns a presigned GET URL for an uploaded object.
func (u *MediaService) ResolveDownload(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	url, err := u.storage.PresignDownload(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return url, nil
}

// Moderate screens the uploaded object and returns ErrMediaUnsafe when the
// verdict blocks publication. With no screener configured it is a no-op.
func (u *MediaService) Moderate(ctx context.Context, key string) error {
	if u.screener == nil {
		return nil
	}

	url, err := u.storage.PresignDownload(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to presign object for screening: %w", err)
	}

	result, err := u.screener.Screen(ctx, url)
	if err != nil {
		return fmt.Errorf("screening failed for %s: %w", key, err)
	}
	if rejectedLikelihoods[result.Adult] || rejectedLikelihoods[result.Violence] {
		return fmt.Errorf("%w: adult=%s violence=%s", ErrMediaUnsafe, result.Adult, result.Violence)
	}
	return nil
}
