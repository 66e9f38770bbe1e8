// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-haiku-backend/internal/domain"
)

// HaikusStats returns the total number of haikus and the greatest id.
// Haikus are append-only, so (count, maxID) changes whenever the collection
// does. When the table is empty both values are 0.
func HaikusStats(ctx context.Context, db *gorm.DB) (count int64, maxID uint, err error) {
	q := db.WithContext(ctx).Model(&domain.Haiku{})

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct {
		ID uint
	}
	if err = db.WithContext(ctx).Model(&domain.Haiku{}).Select("id").Order("id DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.ID, nil
}
