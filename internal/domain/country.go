package domain

// Country is a canonical country entry, created on first sight of a
// requester from that country. Name is unique.
type Country struct {
	ID   uint   `json:"id"   gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:text;not null;uniqueIndex:ux_country_name"`
	Abbr string `json:"abbr" gorm:"type:varchar(2);not null"`
}

// TableName returns the database table name for Country.
func (Country) TableName() string { return "countries" }
