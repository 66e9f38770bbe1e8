package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-haiku-backend/internal/domain"
)

// FindCountryByName returns the country with the exact canonical name,
// or ErrNotFound.
func FindCountryByName(ctx context.Context, db *gorm.DB, name string) (*domain.Country, error) {
	var c domain.Country
	err := db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCountry inserts a country and returns ErrDuplicate when the name is
// already taken.
func CreateCountry(ctx context.Context, db *gorm.DB, name, abbr string) (*domain.Country, error) {
	c := &domain.Country{Name: name, Abbr: abbr}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}
