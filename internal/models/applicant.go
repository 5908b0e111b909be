package models

import "time"

// Applicant is the identity record created during intake. The admission
// workflow reads it but never mutates it.
type Applicant struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ApplicationNumber string    `gorm:"size:20;uniqueIndex;not null" json:"application_number"`
	FirstName         string    `gorm:"size:50;not null" json:"first_name"`
	LastName          string    `gorm:"size:50;not null" json:"last_name"`
	Email             string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PhoneNumber       string    `gorm:"size:15" json:"phone_number"`
	GuardianName      string    `gorm:"size:100" json:"guardian_name"`
	GuardianPhone     string    `gorm:"size:15" json:"guardian_phone"`
	GuardianEmail     string    `gorm:"size:255" json:"guardian_email"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Applications []Application `gorm:"foreignKey:ApplicantID" json:"applications,omitempty"`
}

// FullName joins the applicant's first and last name.
func (a Applicant) FullName() string {
	return a.FirstName + " " + a.LastName
}
