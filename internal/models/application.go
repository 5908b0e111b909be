package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AdmissionDecision is the state of an application in the decision
// workflow. The only transitions are pending → admitted and
// pending → not_admitted; both targets are terminal.
type AdmissionDecision string

const (
	DecisionPending     AdmissionDecision = "pending"
	DecisionAdmitted    AdmissionDecision = "admitted"
	DecisionNotAdmitted AdmissionDecision = "not_admitted"
)

// ParseAdmissionDecision converts a raw string into an AdmissionDecision,
// returning an error for unknown values.
func ParseAdmissionDecision(s string) (AdmissionDecision, error) {
	d := AdmissionDecision(s)
	switch d {
	case DecisionPending, DecisionAdmitted, DecisionNotAdmitted:
		return d, nil
	}
	return "", fmt.Errorf("unknown admission decision %q", s)
}

// Terminal reports whether no further decision transition is allowed.
func (d AdmissionDecision) Terminal() bool {
	return d == DecisionAdmitted || d == DecisionNotAdmitted
}

// ApplicationStatus mirrors the coarse lifecycle status shown to
// applicants. The decision engine only ever writes admitted or rejected.
type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusSelected    ApplicationStatus = "selected"
	StatusWaitlisted  ApplicationStatus = "waitlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusAdmitted    ApplicationStatus = "admitted"
	StatusCancelled   ApplicationStatus = "cancelled"
)

// Application is the mutable subject of the admission workflow. The
// decision, fee and letter fields are owned exclusively by the admission
// service; everything else is written by the intake flow.
type Application struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	ApplicantID      uint `gorm:"not null;uniqueIndex:idx_applicant_program_cycle" json:"applicant_id"`
	ProgramID        uint `gorm:"not null;uniqueIndex:idx_applicant_program_cycle" json:"program_id"`
	AdmissionCycleID uint `gorm:"not null;uniqueIndex:idx_applicant_program_cycle" json:"admission_cycle_id"`

	Status            ApplicationStatus `gorm:"size:30;not null;default:submitted" json:"status"`
	AdmissionDecision AdmissionDecision `gorm:"size:20;not null;default:pending" json:"admission_decision"`
	DecisionDate      *time.Time        `json:"admission_decision_date,omitempty"`
	DecisionBy        string            `gorm:"size:100" json:"admission_decision_by,omitempty"`

	LetterGenerated     bool       `gorm:"default:false" json:"admission_letter_generated"`
	LetterGeneratedDate *time.Time `json:"admission_letter_generated_date,omitempty"`

	FirstSemesterFeeAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"first_semester_fee_amount"`
	FirstSemesterFeePaid   bool                `gorm:"default:false" json:"first_semester_fee_paid"`
	FeePaymentDate         *time.Time          `json:"first_semester_fee_payment_date,omitempty"`
	FeeTransactionID       string              `gorm:"size:100" json:"first_semester_fee_transaction_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Applicant      Applicant      `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Program        Program        `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	AdmissionCycle AdmissionCycle `gorm:"foreignKey:AdmissionCycleID" json:"admission_cycle,omitempty"`
	FeePayments    []AdmissionFee `gorm:"foreignKey:ApplicationID" json:"fee_payments,omitempty"`
}

// CanGenerateLetter reports whether an admission letter may be rendered.
func (a Application) CanGenerateLetter() bool {
	return a.AdmissionDecision == DecisionAdmitted
}

// CanDownloadLetter reports whether a rendered letter exists for download.
func (a Application) CanDownloadLetter() bool {
	return a.AdmissionDecision == DecisionAdmitted && a.LetterGenerated
}
