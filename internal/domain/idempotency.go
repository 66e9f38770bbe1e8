package domain

import "time"

// Idempotency records the haiku produced for a generate request, keyed by
// (scope, key) where scope is the request route. A retried request carrying
// the same Idempotency-Key within the TTL replays the stored haiku instead
// of generating a new one.
type Idempotency struct {
	ID        string    `gorm:"type:varchar(36);not null;primaryKey"`
	Scope     string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_scope_key,priority:1"`
	Key       string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_scope_key,priority:2"`
	HaikuID   uint      `gorm:"not null"`
	Status    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
