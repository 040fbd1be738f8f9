// Package adapters provides repository implementations for the greetings feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"greetings_backend/internal/feature/greetings/domain/entity"
	"greetings_backend/internal/feature/greetings/usecase"
)

// greetingPostgres is a PostgreSQL implementation of the GreetingRepository interface.
type greetingPostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure greetingPostgres implements GreetingRepository.
var _ usecase.GreetingRepository = (*greetingPostgres)(nil)

// NewGreetingPostgres creates a new instance of greetingPostgres.
func NewGreetingPostgres(db *gorm.DB) *greetingPostgres {
	return &greetingPostgres{db: db}
}

// Create persists a new greeting to the database.
func (r *greetingPostgres) Create(ctx context.Context, g *entity.Greeting) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// FindByID retrieves a greeting by its ID.
func (r *greetingPostgres) FindByID(ctx context.Context, id uint) (*entity.Greeting, error) {
	var g entity.Greeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrGreetingNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListByAuthor retrieves a page of an author's greetings, newest first.
func (r *greetingPostgres) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]entity.Greeting, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Greeting{}).Where("author_id = ?", authorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var greetings []entity.Greeting
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&greetings).Error; err != nil {
		return nil, 0, err
	}

	return greetings, total, nil
}

// Save persists all fields of a greeting.
func (r *greetingPostgres) Save(ctx context.Context, g *entity.Greeting) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// Delete removes a greeting by ID.
func (r *greetingPostgres) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Greeting{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrGreetingNotFound
	}
	return nil
}
