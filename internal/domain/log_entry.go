package domain

import "time"

// LogEntry is one reported failure. Service names the reporting component,
// Error is the short failure label and ErrorMsg the detail text.
type LogEntry struct {
	ID        uint      `json:"id"        gorm:"primaryKey;autoIncrement"`
	Service   string    `json:"service"   gorm:"type:text;not null;index"`
	Error     string    `json:"error"     gorm:"type:text;not null"`
	ErrorMsg  string    `json:"errorMsg"  gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
}

// TableName returns the database table name for LogEntry.
func (LogEntry) TableName() string { return "log_entries" }
