package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vivekjindal24/university-erp/internal/models"
)

// ApplicantRepository provides read access to applicant identity records.
type ApplicantRepository interface {
	GetByApplicationNumber(ctx context.Context, applicationNumber string) (models.Applicant, error)
}

type applicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository constructs an applicant repository.
func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

func (r *applicantRepository) GetByApplicationNumber(ctx context.Context, applicationNumber string) (models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).
		Preload("Applications").
		Preload("Applications.Program").
		Preload("Applications.AdmissionCycle").
		Where("application_number = ?", applicationNumber).
		First(&applicant).Error
	if err != nil {
		return models.Applicant{}, err
	}

	return applicant, nil
}
