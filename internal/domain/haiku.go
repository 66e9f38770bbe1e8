// Package domain defines the persistence models for haikus, the countries
// they were requested from, and the error log. These types are mapped with
// GORM and form the core data layer of the haiku service.
package domain

import "time"

// Haiku is a generated three-line poem. Records are immutable once written.
//
// Fields:
//   - ID: autoincrement primary key.
//   - LineOne / LineTwo / LineThree: the poem text, never empty.
//   - Theme: requested theme, nil for a random ("zen") request.
//   - CreatedAt: insertion timestamp, UTC.
//   - CountryID: origin country, nil when the requester could not be located.
//   - Country: preloaded association on reads.
type Haiku struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	LineOne   string    `json:"lineOne"    gorm:"type:text;not null"`
	LineTwo   string    `json:"lineTwo"    gorm:"type:text;not null"`
	LineThree string    `json:"lineThree"  gorm:"type:text;not null"`
	Theme     *string   `json:"theme"      gorm:"type:text;index"`
	CreatedAt time.Time `json:"createdAt"  gorm:"not null;autoCreateTime"`
	CountryID *uint     `json:"-"          gorm:"index"`

	// Country is nulled out on the haiku if the country row is removed.
	Country *Country `json:"country" gorm:"foreignKey:CountryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Haiku.
func (Haiku) TableName() string { return "haikus" }
