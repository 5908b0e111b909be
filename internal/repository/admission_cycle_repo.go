package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vivekjindal24/university-erp/internal/models"
)

// AdmissionCycleRepository lists intake periods.
type AdmissionCycleRepository interface {
	List(ctx context.Context) ([]models.AdmissionCycle, error)
}

type admissionCycleRepository struct {
	db *gorm.DB
}

// NewAdmissionCycleRepository constructs an admission cycle repository.
func NewAdmissionCycleRepository(db *gorm.DB) AdmissionCycleRepository {
	return &admissionCycleRepository{db: db}
}

func (r *admissionCycleRepository) List(ctx context.Context) ([]models.AdmissionCycle, error) {
	var cycles []models.AdmissionCycle
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&cycles).Error; err != nil {
		return nil, err
	}

	return cycles, nil
}
