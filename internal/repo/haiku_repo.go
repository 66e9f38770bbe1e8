// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Haiku model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only
// persistence and query composition.
//
// Error semantics:
//   - When a haiku is not found, GetHaiku returns ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Reads always preload the Country association and order by id ascending.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-haiku-backend/internal/domain"
)

// CreateHaiku inserts h and fills its ID and CreatedAt (UTC).
func CreateHaiku(ctx context.Context, db *gorm.DB, h *domain.Haiku) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	// Country is resolved before insert; never upsert it through the association.
	return db.WithContext(ctx).Omit("Country").Create(h).Error
}

// GetHaiku fetches a single haiku by id, or ErrNotFound.
func GetHaiku(ctx context.Context, db *gorm.DB, id uint) (*domain.Haiku, error) {
	var h domain.Haiku
	if err := db.WithContext(ctx).Preload("Country").First(&h, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHaikus returns every haiku ordered by id.
func ListHaikus(ctx context.Context, db *gorm.DB) ([]domain.Haiku, error) {
	var out []domain.Haiku
	err := db.WithContext(ctx).
		Preload("Country").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// ListHaikusByTheme returns haikus whose theme equals theme exactly.
func ListHaikusByTheme(ctx context.Context, db *gorm.DB, theme string) ([]domain.Haiku, error) {
	var out []domain.Haiku
	err := db.WithContext(ctx).
		Preload("Country").
		Where("theme = ?", theme).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
