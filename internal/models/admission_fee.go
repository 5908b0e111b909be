package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeType labels a fee ledger entry.
type FeeType string

const (
	FeeTypeApplication     FeeType = "application_fee"
	FeeTypeAdmission       FeeType = "admission_fee"
	FeeTypeSecurityDeposit FeeType = "security_deposit"
	FeeTypeTuition         FeeType = "tuition_fee"
	FeeTypeDevelopment     FeeType = "development_fee"
	FeeTypeLibrary         FeeType = "library_fee"
	FeeTypeLab             FeeType = "lab_fee"
	FeeTypeHostel          FeeType = "hostel_fee"
	FeeTypeOther           FeeType = "other"
)

// AdmissionFee is an append-only ledger entry recorded when a payment is
// accepted. Rows are never updated or deleted once written.
type AdmissionFee struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ApplicationID uint            `gorm:"not null;index" json:"application_id"`
	FeeType       FeeType         `gorm:"size:30;not null" json:"fee_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"paid_amount"`
	DueDate       time.Time       `gorm:"type:date" json:"due_date"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method"`
	TransactionID string          `gorm:"size:100;index" json:"transaction_id"`
	IsPaid        bool            `gorm:"default:false" json:"is_paid"`
	ReceiptNumber string          `gorm:"size:50" json:"receipt_number"`
	CreatedAt     time.Time       `json:"created_at"`
}
