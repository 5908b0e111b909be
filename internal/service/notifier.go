package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vivekjindal24/university-erp/internal/models"
)

// Email is a rendered outbound message. Notifier implementations only
// transport it; composition happens here so every backend sends the same
// content.
type Email struct {
	ToAddress string
	ToName    string
	Subject   string
	Body      string
}

// Notifier delivers admission emails. Delivery is best effort: the caller
// records the outcome but never fails the triggering operation on error.
type Notifier interface {
	SendAdmissionConfirmation(ctx context.Context, app models.Application) error
	SendRejection(ctx context.Context, app models.Application) error
	SendFeePaymentConfirmation(ctx context.Context, app models.Application, fee models.AdmissionFee) error
}

func admissionConfirmationEmail(app models.Application) Email {
	applicant := app.Applicant
	feeAmount := decimal.Zero
	if app.FirstSemesterFeeAmount.Valid {
		feeAmount = app.FirstSemesterFeeAmount.Decimal
	}

	paymentStatus := "PENDING"
	if app.FirstSemesterFeePaid {
		paymentStatus = "PAID"
	}

	admissionDate := "N/A"
	if app.DecisionDate != nil {
		admissionDate = app.DecisionDate.Format("January 2, 2006")
	}

	body := fmt.Sprintf(`Dear %s,

Congratulations! We are delighted to inform you that you have been ADMITTED to the %s program for the academic year %s.

ADMISSION DETAILS:
- Application Number: %s
- Program: %s
- Academic Year: %s
- Admission Date: %s

FIRST SEMESTER FEE:
- Amount: INR %s
- Payment Status: %s

IMPORTANT NEXT STEPS:
1. Download your provisional admission letter from the student portal
2. Pay the first semester fee to confirm your admission
3. Submit all required original documents for verification
4. Complete the admission formalities before the deadline

Session Start Date: %s

For any queries regarding your admission, please contact the Admission Office at admissions@university.edu.

Best regards,
Admission Office
`,
		applicant.FullName(),
		app.Program.Name,
		app.AdmissionCycle.AcademicYear,
		applicant.ApplicationNumber,
		app.Program.Name,
		app.AdmissionCycle.AcademicYear,
		admissionDate,
		feeAmount.StringFixed(2),
		paymentStatus,
		app.AdmissionCycle.SessionStartDate.Format("January 2, 2006"),
	)

	return Email{
		ToAddress: applicant.Email,
		ToName:    applicant.FullName(),
		Subject:   fmt.Sprintf("Admission Confirmation - %s", app.Program.Name),
		Body:      body,
	}
}

func rejectionEmail(app models.Application) Email {
	applicant := app.Applicant

	body := fmt.Sprintf(`Dear %s,

Thank you for your interest in the %s program for the academic year %s.

After careful consideration of your application (Application Number: %s), we regret to inform you that we are unable to offer you admission to this program at this time.

We received a large number of highly qualified applications this year, making the selection process extremely competitive. Please know that this decision does not reflect on your abilities or potential for success.

We encourage you to consider other programs that might be a good fit, or to apply again in a future admission cycle.

We wish you all the best in your academic endeavors.

Best regards,
Admission Office
`,
		applicant.FullName(),
		app.Program.Name,
		app.AdmissionCycle.AcademicYear,
		applicant.ApplicationNumber,
	)

	return Email{
		ToAddress: applicant.Email,
		ToName:    applicant.FullName(),
		Subject:   fmt.Sprintf("Admission Decision - %s", app.Program.Name),
		Body:      body,
	}
}

func feePaymentConfirmationEmail(app models.Application, fee models.AdmissionFee) Email {
	applicant := app.Applicant

	paymentDate := "N/A"
	if fee.PaymentDate != nil {
		paymentDate = fee.PaymentDate.Format("January 2, 2006 at 3:04 PM")
	}

	body := fmt.Sprintf(`Dear %s,

This email confirms that we have received your fee payment for the %s program.

PAYMENT DETAILS:
- Application Number: %s
- Program: %s
- Amount Paid: INR %s
- Transaction ID: %s
- Payment Date: %s
- Payment Method: %s
- Receipt Number: %s

Your admission is now CONFIRMED!

NEXT STEPS:
1. Download your official admission letter from the student portal
2. Report to the admission office with original documents
3. Complete the enrollment process before the session starts

Session Start Date: %s

Congratulations and welcome to our university!

Best regards,
Admission Office
`,
		applicant.FullName(),
		app.Program.Name,
		applicant.ApplicationNumber,
		app.Program.Name,
		fee.PaidAmount.StringFixed(2),
		fee.TransactionID,
		paymentDate,
		fee.PaymentMethod,
		fee.ReceiptNumber,
		app.AdmissionCycle.SessionStartDate.Format("January 2, 2006"),
	)

	return Email{
		ToAddress: applicant.Email,
		ToName:    applicant.FullName(),
		Subject:   fmt.Sprintf("Fee Payment Confirmation - %s", app.Program.Name),
		Body:      body,
	}
}

// LogNotifier writes outbound emails to the log instead of sending them.
// Used in development and tests.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs a logging notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "log_notifier").Logger()}
}

func (n *LogNotifier) log(email Email) error {
	n.logger.Info().
		Str("to", email.ToAddress).
		Str("subject", email.Subject).
		Msg("notification delivered to log")
	return nil
}

// SendAdmissionConfirmation logs the admission confirmation email.
func (n *LogNotifier) SendAdmissionConfirmation(_ context.Context, app models.Application) error {
	return n.log(admissionConfirmationEmail(app))
}

// SendRejection logs the rejection email.
func (n *LogNotifier) SendRejection(_ context.Context, app models.Application) error {
	return n.log(rejectionEmail(app))
}

// SendFeePaymentConfirmation logs the payment confirmation email.
func (n *LogNotifier) SendFeePaymentConfirmation(_ context.Context, app models.Application, fee models.AdmissionFee) error {
	return n.log(feePaymentConfirmationEmail(app, fee))
}
