package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vivekjindal24/university-erp/internal/models"
)

// AdmissionFeeRepository reads the append-only fee ledger. Rows are only
// ever written by ApplicationRepository.RecordPayment.
type AdmissionFeeRepository interface {
	ListByApplication(ctx context.Context, applicationID uint) ([]models.AdmissionFee, error)
	LatestPaid(ctx context.Context, applicationID uint) (models.AdmissionFee, error)
}

type admissionFeeRepository struct {
	db *gorm.DB
}

// NewAdmissionFeeRepository constructs a fee ledger repository.
func NewAdmissionFeeRepository(db *gorm.DB) AdmissionFeeRepository {
	return &admissionFeeRepository{db: db}
}

func (r *admissionFeeRepository) ListByApplication(ctx context.Context, applicationID uint) ([]models.AdmissionFee, error) {
	var fees []models.AdmissionFee
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&fees).Error
	if err != nil {
		return nil, err
	}

	return fees, nil
}

func (r *admissionFeeRepository) LatestPaid(ctx context.Context, applicationID uint) (models.AdmissionFee, error) {
	var fee models.AdmissionFee
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND is_paid = ?", applicationID, true).
		Order("created_at DESC").
		First(&fee).Error
	if err != nil {
		return models.AdmissionFee{}, err
	}

	return fee, nil
}
