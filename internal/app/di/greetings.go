// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"greetings_backend/internal/feature/greetings/adapters"
	"greetings_backend/internal/feature/greetings/usecase"
	"greetings_backend/internal/platform/cache"
)

// NewGreetingRepository creates a GreetingRepository implementation.
// If Redis is available, the repository is wrapped with a caching decorator
// for the per-author feed. Otherwise the plain database repository is used.
func NewGreetingRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.GreetingRepository {
	repo := adapters.NewGreetingPostgres(db)
	if rdb != nil {
		return cache.NewCachingGreetingRepository(rdb, ttl, repo, "greetings")
	}
	return repo
}
