package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vivekjindal24/university-erp/internal/models"
)

var (
	// ErrStaleState indicates a guarded update matched no rows because the
	// application was no longer in the required state. Callers that loaded
	// the row beforehand can treat this as a lost race.
	ErrStaleState = errors.New("application state changed concurrently")
	// ErrLedgerAppend indicates the fee ledger insert failed after the
	// application row was updated inside the payment transaction. The
	// transaction rolls back, so no partial state is persisted.
	ErrLedgerAppend = errors.New("fee ledger append failed")
)

// DecisionUpdate carries the fields written when an application leaves the
// pending state.
type DecisionUpdate struct {
	Decision  models.AdmissionDecision
	Status    models.ApplicationStatus
	DecidedBy string
	DecidedAt time.Time
	FeeAmount decimal.NullDecimal
}

// PaymentRecord carries the fields written when a fee payment is accepted.
type PaymentRecord struct {
	Amount        decimal.Decimal
	TransactionID string
	PaymentMethod string
	ReceiptNumber string
	PaidAt        time.Time
}

// ApplicationRepository provides access to application records and owns
// the guarded state transitions of the admission workflow.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id uint) (models.Application, error)
	List(ctx context.Context) ([]models.Application, error)
	UpdateDecision(ctx context.Context, id uint, update DecisionUpdate) error
	RecordPayment(ctx context.Context, id uint, record PaymentRecord) (models.AdmissionFee, error)
	MarkLetterGenerated(ctx context.Context, id uint, at time.Time) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs an application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Program").
		Preload("AdmissionCycle").
		First(&application, id).Error
	if err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) List(ctx context.Context) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Program").
		Preload("AdmissionCycle").
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}

	return applications, nil
}

// UpdateDecision moves an application out of the pending state. The update
// is guarded on admission_decision = pending so that two racing decisions
// on the same application yield exactly one success.
func (r *applicationRepository) UpdateDecision(ctx context.Context, id uint, update DecisionUpdate) error {
	fields := map[string]interface{}{
		"admission_decision": update.Decision,
		"status":             update.Status,
		"decision_date":      update.DecidedAt,
		"decision_by":        update.DecidedBy,
	}
	if update.FeeAmount.Valid {
		fields["first_semester_fee_amount"] = update.FeeAmount
	}

	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND admission_decision = ?", id, models.DecisionPending).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.resolveNoRows(ctx, r.db, id)
	}

	return nil
}

// RecordPayment flips the fee flags and appends the ledger row in a single
// transaction. The update is guarded on the application being admitted and
// unpaid; a zero-row match after those checks passed in the service means
// a concurrent payment won.
func (r *applicationRepository) RecordPayment(ctx context.Context, id uint, record PaymentRecord) (models.AdmissionFee, error) {
	fee := models.AdmissionFee{
		ApplicationID: id,
		FeeType:       models.FeeTypeTuition,
		Amount:        record.Amount,
		PaidAmount:    record.Amount,
		DueDate:       record.PaidAt.Truncate(24 * time.Hour),
		PaymentDate:   &record.PaidAt,
		PaymentMethod: record.PaymentMethod,
		TransactionID: record.TransactionID,
		IsPaid:        true,
		ReceiptNumber: record.ReceiptNumber,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Application{}).
			Where("id = ? AND admission_decision = ? AND first_semester_fee_paid = ?", id, models.DecisionAdmitted, false).
			Updates(map[string]interface{}{
				"first_semester_fee_paid": true,
				"fee_payment_date":        record.PaidAt,
				"fee_transaction_id":      record.TransactionID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.resolveNoRows(ctx, tx, id)
		}

		if err := tx.Create(&fee).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrLedgerAppend, err)
		}

		return nil
	})
	if err != nil {
		return models.AdmissionFee{}, err
	}

	return fee, nil
}

func (r *applicationRepository) MarkLetterGenerated(ctx context.Context, id uint, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"letter_generated":      true,
			"letter_generated_date": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// resolveNoRows distinguishes a missing application from one whose state
// no longer matches the guard. The caller passes its active handle so the
// check runs on the transaction connection when one is open.
func (r *applicationRepository) resolveNoRows(ctx context.Context, db *gorm.DB, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}

	return ErrStaleState
}
