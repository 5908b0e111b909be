package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vivekjindal24/university-erp/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Applicant{},
		&models.Program{},
		&models.AdmissionCycle{},
		&models.Application{},
		&models.AdmissionFee{},
	))
	return db
}

func seedApplication(t *testing.T, db *gorm.DB, decision models.AdmissionDecision) models.Application {
	t.Helper()

	applicant := models.Applicant{
		ApplicationNumber: "APP2026001",
		FirstName:         "Asha",
		LastName:          "Verma",
		Email:             "asha.verma@example.com",
	}
	require.NoError(t, db.Create(&applicant).Error)

	program := models.Program{Name: "B.Tech Computer Science", Code: "BTCS", Department: "Engineering"}
	require.NoError(t, db.Create(&program).Error)

	cycle := models.AdmissionCycle{
		Name:             "Fall 2026 Admissions",
		AcademicYear:     "2026-2027",
		SessionStartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&cycle).Error)

	application := models.Application{
		ApplicantID:       applicant.ID,
		ProgramID:         program.ID,
		AdmissionCycleID:  cycle.ID,
		Status:            models.StatusUnderReview,
		AdmissionDecision: decision,
	}
	require.NoError(t, db.Create(&application).Error)

	return application
}

func TestApplicationRepositoryGetByIDPreloads(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	seeded := seedApplication(t, db, models.DecisionPending)

	application, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "APP2026001", application.Applicant.ApplicationNumber)
	require.Equal(t, "B.Tech Computer Science", application.Program.Name)
	require.Equal(t, "Fall 2026 Admissions", application.AdmissionCycle.Name)

	_, err = repo.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApplicationRepositoryUpdateDecisionGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	seeded := seedApplication(t, db, models.DecisionPending)

	update := DecisionUpdate{
		Decision:  models.DecisionAdmitted,
		Status:    models.StatusAdmitted,
		DecidedBy: "staff:1",
		DecidedAt: time.Now(),
		FeeAmount: decimal.NewNullDecimal(decimal.RequireFromString("75000.00")),
	}
	require.NoError(t, repo.UpdateDecision(context.Background(), seeded.ID, update))

	application, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, models.DecisionAdmitted, application.AdmissionDecision)
	require.Equal(t, models.StatusAdmitted, application.Status)
	require.True(t, application.FirstSemesterFeeAmount.Valid)
	require.True(t, application.FirstSemesterFeeAmount.Decimal.Equal(decimal.RequireFromString("75000.00")))
	require.NotNil(t, application.DecisionDate)

	// The application already left pending: a second decision loses.
	err = repo.UpdateDecision(context.Background(), seeded.ID, update)
	require.ErrorIs(t, err, ErrStaleState)

	err = repo.UpdateDecision(context.Background(), 999, update)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApplicationRepositoryRecordPayment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	seeded := seedApplication(t, db, models.DecisionPending)

	record := PaymentRecord{
		Amount:        decimal.RequireFromString("75000.00"),
		TransactionID: "TXN123",
		PaymentMethod: "Online",
		ReceiptNumber: "RCPT-1-ABCD1234",
		PaidAt:        time.Now(),
	}

	// Payment against a pending application matches no rows.
	_, err := repo.RecordPayment(context.Background(), seeded.ID, record)
	require.ErrorIs(t, err, ErrStaleState)

	_, err = repo.RecordPayment(context.Background(), 999, record)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdateDecision(context.Background(), seeded.ID, DecisionUpdate{
		Decision:  models.DecisionAdmitted,
		Status:    models.StatusAdmitted,
		DecidedBy: "staff:1",
		DecidedAt: time.Now(),
		FeeAmount: decimal.NewNullDecimal(decimal.RequireFromString("75000.00")),
	}))

	fee, err := repo.RecordPayment(context.Background(), seeded.ID, record)
	require.NoError(t, err)
	require.Equal(t, models.FeeTypeTuition, fee.FeeType)
	require.True(t, fee.IsPaid)
	require.True(t, fee.PaidAmount.Equal(decimal.RequireFromString("75000.00")))
	require.Equal(t, "TXN123", fee.TransactionID)

	application, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.True(t, application.FirstSemesterFeePaid)
	require.Equal(t, "TXN123", application.FeeTransactionID)
	require.NotNil(t, application.FeePaymentDate)

	var count int64
	require.NoError(t, db.Model(&models.AdmissionFee{}).Where("application_id = ?", seeded.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)

	// Already paid: the guarded update matches no rows and no second
	// ledger row appears.
	_, err = repo.RecordPayment(context.Background(), seeded.ID, record)
	require.ErrorIs(t, err, ErrStaleState)

	require.NoError(t, db.Model(&models.AdmissionFee{}).Where("application_id = ?", seeded.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestApplicationRepositoryMarkLetterGenerated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	seeded := seedApplication(t, db, models.DecisionAdmitted)

	require.NoError(t, repo.MarkLetterGenerated(context.Background(), seeded.ID, time.Now()))

	application, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.True(t, application.LetterGenerated)
	require.NotNil(t, application.LetterGeneratedDate)

	err = repo.MarkLetterGenerated(context.Background(), 999, time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApplicationRepositoryList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	seedApplication(t, db, models.DecisionPending)

	applications, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, applications, 1)
	require.Equal(t, "APP2026001", applications[0].Applicant.ApplicationNumber)
}
