package models

import "time"

// Program is the degree program an applicant applies to. Owned by the
// academic catalogue; the admission workflow only reads it.
type Program struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	Code          string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Department    string    `gorm:"size:200" json:"department"`
	DurationYears int       `json:"duration_years"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
