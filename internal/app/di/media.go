package di

import (
	"context"
	"log/slog"

	"greetings_backend/internal/feature/media/adapters/s3"
	"greetings_backend/internal/feature/media/adapters/vision"
	"greetings_backend/internal/feature/media/usecase"
	"greetings_backend/internal/platform/config"
)

// NewMediaUsecase creates a fully configured media usecase.
// Safe-search screening is optional: when the Vision client cannot be built
// (no credentials), uploads still work and screening is skipped.
func NewMediaUsecase(ctx context.Context, cfg config.S3Config) (*usecase.MediaService, error) {
	storage, err := s3.NewPresigner(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var screener usecase.SafeSearchClient
	if v, err := vision.NewVisionSafeSearch(ctx); err != nil {
		slog.Warn("Vision unavailable, media screening disabled", "error", err)
	} else {
		screener = v
	}

	return usecase.NewMediaUsecase(storage, screener), nil
}
