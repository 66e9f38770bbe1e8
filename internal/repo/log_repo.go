package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-haiku-backend/internal/domain"
)

// CreateLogEntry appends one failure record.
func CreateLogEntry(ctx context.Context, db *gorm.DB, service, label, message string) (*domain.LogEntry, error) {
	e := &domain.LogEntry{
		Service:   service,
		Error:     label,
		ErrorMsg:  message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// ListLogEntries returns every log entry ordered by id.
func ListLogEntries(ctx context.Context, db *gorm.DB) ([]domain.LogEntry, error) {
	var out []domain.LogEntry
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}
