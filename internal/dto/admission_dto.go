package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vivekjindal24/university-erp/internal/models"
)

// AdmitRequest is the payload to admit an applicant. The fee amount is a
// string so malformed values are rejected by the service instead of the
// JSON decoder.
type AdmitRequest struct {
	FirstSemesterFeeAmount string `json:"first_semester_fee_amount" validate:"required"`
}

// FeePaymentRequest records a first semester fee payment for an admitted
// applicant.
type FeePaymentRequest struct {
	PaymentAmount string `json:"payment_amount" validate:"required"`
	TransactionID string `json:"transaction_id" validate:"omitempty,max=100"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=50"`
}

// DecisionResponse is returned by the admit and reject operations. The
// EmailSent flag reports the outcome of the best-effort notification and
// never affects the decision itself.
type DecisionResponse struct {
	ApplicationID          uint                `json:"application_id"`
	AdmissionDecision      string              `json:"admission_decision"`
	FirstSemesterFeeAmount decimal.NullDecimal `json:"first_semester_fee_amount,omitempty"`
	EmailSent              bool                `json:"email_sent"`
}

// FeePaymentResponse is returned after a payment has been recorded.
type FeePaymentResponse struct {
	ApplicationID uint       `json:"application_id"`
	FeePaid       bool       `json:"fee_paid"`
	PaymentDate   *time.Time `json:"payment_date"`
	TransactionID string     `json:"transaction_id"`
	ReceiptNumber string     `json:"receipt_number"`
	EmailSent     bool       `json:"email_sent"`
}

// ApplicationStatusResponse is the read-only status projection of a
// single application.
type ApplicationStatusResponse struct {
	ApplicationID          uint                `json:"application_id"`
	ApplicantName          string              `json:"applicant_name"`
	ApplicationNumber      string              `json:"application_number"`
	ProgramName            string              `json:"program_name"`
	Status                 string              `json:"application_status"`
	AdmissionDecision      string              `json:"admission_decision"`
	DecisionDate           *time.Time          `json:"admission_decision_date"`
	FirstSemesterFeeAmount decimal.NullDecimal `json:"first_semester_fee_amount"`
	FirstSemesterFeePaid   bool                `json:"first_semester_fee_paid"`
	FeePaymentDate         *time.Time          `json:"first_semester_fee_payment_date"`
	LetterGenerated        bool                `json:"admission_letter_generated"`
	CanGenerateLetter      bool                `json:"can_generate_letter"`
	CanDownloadLetter      bool                `json:"can_download_letter"`
}

// NewApplicationStatusResponse projects an application (with applicant and
// program preloaded) into the status DTO.
func NewApplicationStatusResponse(app models.Application) ApplicationStatusResponse {
	return ApplicationStatusResponse{
		ApplicationID:          app.ID,
		ApplicantName:          app.Applicant.FullName(),
		ApplicationNumber:      app.Applicant.ApplicationNumber,
		ProgramName:            app.Program.Name,
		Status:                 string(app.Status),
		AdmissionDecision:      string(app.AdmissionDecision),
		DecisionDate:           app.DecisionDate,
		FirstSemesterFeeAmount: app.FirstSemesterFeeAmount,
		FirstSemesterFeePaid:   app.FirstSemesterFeePaid,
		FeePaymentDate:         app.FeePaymentDate,
		LetterGenerated:        app.LetterGenerated,
		CanGenerateLetter:      app.CanGenerateLetter(),
		CanDownloadLetter:      app.CanDownloadLetter(),
	}
}

// PortalApplicationStatus is one application row in the applicant portal
// projection.
type PortalApplicationStatus struct {
	ApplicationID          uint                `json:"id"`
	ProgramName            string              `json:"program_name"`
	AdmissionCycle         string              `json:"admission_cycle"`
	Status                 string              `json:"application_status"`
	AdmissionDecision      string              `json:"admission_decision"`
	DecisionDate           *time.Time          `json:"admission_decision_date"`
	FirstSemesterFeeAmount decimal.NullDecimal `json:"first_semester_fee_amount"`
	FirstSemesterFeePaid   bool                `json:"first_semester_fee_paid"`
	FeePaymentDate         *time.Time          `json:"first_semester_fee_payment_date"`
	LetterGenerated        bool                `json:"admission_letter_generated"`
	CanDownloadLetter      bool                `json:"can_download_letter"`
}

// PortalStatusResponse is the applicant portal projection: the applicant
// header plus every application they filed.
type PortalStatusResponse struct {
	ApplicantName     string                    `json:"applicant_name"`
	ApplicationNumber string                    `json:"application_number"`
	Email             string                    `json:"email"`
	Applications      []PortalApplicationStatus `json:"applications"`
}

// NewPortalStatusResponse projects an applicant (with applications,
// programs and cycles preloaded) into the portal DTO.
func NewPortalStatusResponse(applicant models.Applicant) PortalStatusResponse {
	applications := make([]PortalApplicationStatus, 0, len(applicant.Applications))
	for _, app := range applicant.Applications {
		applications = append(applications, PortalApplicationStatus{
			ApplicationID:          app.ID,
			ProgramName:            app.Program.Name,
			AdmissionCycle:         app.AdmissionCycle.Name,
			Status:                 string(app.Status),
			AdmissionDecision:      string(app.AdmissionDecision),
			DecisionDate:           app.DecisionDate,
			FirstSemesterFeeAmount: app.FirstSemesterFeeAmount,
			FirstSemesterFeePaid:   app.FirstSemesterFeePaid,
			FeePaymentDate:         app.FeePaymentDate,
			LetterGenerated:        app.LetterGenerated,
			CanDownloadLetter:      app.CanDownloadLetter(),
		})
	}

	return PortalStatusResponse{
		ApplicantName:     applicant.FullName(),
		ApplicationNumber: applicant.ApplicationNumber,
		Email:             applicant.Email,
		Applications:      applications,
	}
}

// ApplicationSummaryResponse is one row in the public applications list.
type ApplicationSummaryResponse struct {
	ApplicationID      uint       `json:"id"`
	ApplicantName      string     `json:"applicant_name"`
	ApplicationNumber  string     `json:"application_number"`
	ProgramName        string     `json:"program_name"`
	AdmissionCycleName string     `json:"admission_cycle_name"`
	Status             string     `json:"status"`
	AdmissionDecision  string     `json:"admission_decision"`
	FeePaid            bool       `json:"first_semester_fee_paid"`
	FeePaymentDate     *time.Time `json:"first_semester_fee_payment_date"`
}

// NewApplicationSummaryResponseSlice converts applications into list rows.
func NewApplicationSummaryResponseSlice(apps []models.Application) []ApplicationSummaryResponse {
	out := make([]ApplicationSummaryResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, ApplicationSummaryResponse{
			ApplicationID:      app.ID,
			ApplicantName:      app.Applicant.FullName(),
			ApplicationNumber:  app.Applicant.ApplicationNumber,
			ProgramName:        app.Program.Name,
			AdmissionCycleName: app.AdmissionCycle.Name,
			Status:             string(app.Status),
			AdmissionDecision:  string(app.AdmissionDecision),
			FeePaid:            app.FirstSemesterFeePaid,
			FeePaymentDate:     app.FeePaymentDate,
		})
	}
	return out
}

// AdmissionCycleResponse describes an intake period.
type AdmissionCycleResponse struct {
	ID                   uint       `json:"id"`
	Name                 string     `json:"name"`
	AcademicYear         string     `json:"academic_year"`
	ApplicationStartDate time.Time  `json:"application_start_date"`
	ApplicationEndDate   time.Time  `json:"application_end_date"`
	SessionStartDate     time.Time  `json:"session_start_date"`
	ConfirmationDeadline *time.Time `json:"admission_confirmation_deadline,omitempty"`
	IsActive             bool       `json:"is_active"`
}

// NewAdmissionCycleResponseSlice converts cycles into DTOs.
func NewAdmissionCycleResponseSlice(cycles []models.AdmissionCycle) []AdmissionCycleResponse {
	out := make([]AdmissionCycleResponse, 0, len(cycles))
	for _, cycle := range cycles {
		out = append(out, AdmissionCycleResponse{
			ID:                   cycle.ID,
			Name:                 cycle.Name,
			AcademicYear:         cycle.AcademicYear,
			ApplicationStartDate: cycle.ApplicationStartDate,
			ApplicationEndDate:   cycle.ApplicationEndDate,
			SessionStartDate:     cycle.SessionStartDate,
			ConfirmationDeadline: cycle.ConfirmationDeadline,
			IsActive:             cycle.IsActive,
		})
	}
	return out
}
