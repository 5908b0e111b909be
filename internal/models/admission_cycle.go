package models

import "time"

// AdmissionCycle groups applications into an intake period, e.g.
// "Fall 2026 Admissions" for academic year 2026-2027.
type AdmissionCycle struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Name                 string     `gorm:"size:100;not null" json:"name"`
	AcademicYear         string     `gorm:"size:9;not null" json:"academic_year"`
	ApplicationStartDate time.Time  `gorm:"type:date" json:"application_start_date"`
	ApplicationEndDate   time.Time  `gorm:"type:date" json:"application_end_date"`
	SessionStartDate     time.Time  `gorm:"type:date" json:"session_start_date"`
	ConfirmationDeadline *time.Time `gorm:"type:date" json:"admission_confirmation_deadline,omitempty"`
	IsActive             bool       `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
}
