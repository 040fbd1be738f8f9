// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"greetings_backend/internal/feature/greetings/domain/entity"
	"greetings_backend/internal/feature/greetings/usecase"
)

// greetingPage is the cached shape of one feed page.
type greetingPage struct {
	Greetings []entity.Greeting `json:"greetings"`
	Total     int64             `json:"total"`
}

// CachingGreetingRepository decorates a GreetingRepository with Redis caching
// of the per-author feed. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository.
type CachingGreetingRepository struct {
	inner     usecase.GreetingRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure the decorator satisfies GreetingRepository.
var _ usecase.GreetingRepository = (*CachingGreetingRepository)(nil)

// NewCachingGreetingRepository decorates a GreetingRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "greetings".
func NewCachingGreetingRepository(rdb *redis.Client, ttl time.Duration, inner usecase.GreetingRepository, namespace string) *CachingGreetingRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "greetings"
	}
	return &CachingGreetingRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListByAuthor retrieves a feed page, checking cache first then falling back to the database.
func (c *CachingGreetingRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]entity.Greeting, int64, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListByAuthor(ctx, authorID, limit, offset)
	}

	key := c.cacheKey(authorID, limit, offset)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var page greetingPage
		if err := json.Unmarshal(b, &page); err == nil {
			return page.Greetings, page.Total, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	greetings, total, err := c.inner.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(greetingPage{Greetings: greetings, Total: total}); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return greetings, total, nil
}

// Create inserts a greeting and invalidates the author's cached feed pages.
func (c *CachingGreetingRepository) Create(ctx context.Context, g *entity.Greeting) error {
	if err := c.inner.Create(ctx, g); err != nil {
		return err
	}
	c.invalidateAuthor(ctx, g.AuthorID)
	return nil
}

// Save updates a greeting and invalidates the author's cached feed pages.
func (c *CachingGreetingRepository) Save(ctx context.Context, g *entity.Greeting) error {
	if err := c.inner.Save(ctx, g); err != nil {
		return err
	}
	c.invalidateAuthor(ctx, g.AuthorID)
	return nil
}

// Delete removes a greeting and invalidates the author's cached feed pages.
// The author is looked up first so the right namespace can be dropped.
func (c *CachingGreetingRepository) Delete(ctx context.Context, id uint) error {
	var authorID uint
	if c.rdb != nil {
		if g, err := c.inner.FindByID(ctx, id); err == nil {
			authorID = g.AuthorID
		}
	}
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	if authorID != 0 {
		c.invalidateAuthor(ctx, authorID)
	}
	return nil
}

// FindByID is a passthrough; single greetings are not cached.
func (c *CachingGreetingRepository) FindByID(ctx context.Context, id uint) (*entity.Greeting, error) {
	return c.inner.FindByID(ctx, id)
}

// invalidateAuthor drops all cached feed pages of one author.
func (c *CachingGreetingRepository) invalidateAuthor(ctx context.Context, authorID uint) {
	if c.rdb == nil {
		return
	}
	// Best effort: don't fail the write if cache deletion fails
	_ = c.deleteByPattern(ctx, c.authorKeyPrefix(authorID)+"*")
}

// cacheKey generates a cache key for a specific feed page.
func (c *CachingGreetingRepository) cacheKey(authorID uint, limit, offset int) string {
	return fmt.Sprintf("%s%d:%d", c.authorKeyPrefix(authorID), limit, offset)
}

// authorKeyPrefix generates a prefix for invalidating one author's feed pages.
func (c *CachingGreetingRepository) authorKeyPrefix(authorID uint) string {
	return fmt.Sprintf("%s:author:%d:", c.namespace, authorID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingGreetingRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
