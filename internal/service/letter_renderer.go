package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/vivekjindal24/university-erp/internal/models"
)

// LetterRenderer produces the PDF documents of the admission workflow.
// Rendering is synchronous and side-effect free: a failed render must
// leave no trace, so implementations only ever return bytes or an error.
type LetterRenderer interface {
	RenderAdmissionLetter(app models.Application) ([]byte, error)
	RenderFeeReceipt(app models.Application, fee models.AdmissionFee) ([]byte, error)
}

type pdfRenderer struct {
	universityName string
	now            func() time.Time
}

// NewPDFRenderer constructs the gofpdf-backed letter renderer.
func NewPDFRenderer(universityName string) LetterRenderer {
	return &pdfRenderer{
		universityName: universityName,
		now:            time.Now,
	}
}

func (r *pdfRenderer) RenderAdmissionLetter(app models.Application) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(0, 12, r.universityName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(139, 0, 0)
	pdf.CellFormat(0, 10, "PROVISIONAL ADMISSION LETTER", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(0, 0, 0)
	r.detailRows(pdf, [][2]string{
		{"Application Number:", app.Applicant.ApplicationNumber},
		{"Date:", r.now().Format("January 2, 2006")},
		{"Academic Year:", app.AdmissionCycle.AcademicYear},
		{"Program:", app.Program.Name},
		{"Department:", orDefault(app.Program.Department, "N/A")},
	})
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf("Dear Mr./Ms. %s,", app.Applicant.FullName()), "", "L", false)
	pdf.Ln(3)

	body := fmt.Sprintf(
		"We are pleased to inform you that you have been PROVISIONALLY ADMITTED to the %s program in the %s for the academic year %s.\n\n"+
			"This admission is provisional and subject to:\n"+
			"1. Verification of all submitted documents\n"+
			"2. Payment of first semester fees\n"+
			"3. Meeting all eligibility criteria\n"+
			"4. Completion of the admission formalities within the specified deadline",
		app.Program.Name,
		orDefault(app.Program.Department, "University"),
		app.AdmissionCycle.AcademicYear,
	)
	pdf.MultiCell(0, 6, body, "", "L", false)
	pdf.Ln(4)

	if app.FirstSemesterFeeAmount.Valid {
		paymentStatus := "PENDING"
		if app.FirstSemesterFeePaid {
			paymentStatus = "PAID"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, "First Semester Fee Details:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("Amount: INR %s", app.FirstSemesterFeeAmount.Decimal.StringFixed(2)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", paymentStatus), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	instructions := "Important Instructions:\n\n" +
		"1. This is a provisional admission letter. Final admission is subject to document verification and fee payment.\n" +
		"2. Please report to the admission office within 7 days of receiving this letter.\n" +
		"3. Bring all original documents for verification along with this letter.\n" +
		"4. Pay the first semester fees to confirm your admission.\n" +
		"5. Failure to complete the admission process within the deadline will result in cancellation of admission.\n\n" +
		"For any queries, please contact the Admission Office."
	pdf.MultiCell(0, 6, instructions, "", "L", false)
	pdf.Ln(14)

	r.signatureBlock(pdf)

	return r.output(pdf)
}

func (r *pdfRenderer) RenderFeeReceipt(app models.Application, fee models.AdmissionFee) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(0, 10, r.universityName, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 10, "FEE PAYMENT RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(0, 0, 0)
	r.detailRows(pdf, [][2]string{
		{"Receipt No:", orDefault(fee.ReceiptNumber, "N/A")},
		{"Date:", r.now().Format("January 2, 2006")},
		{"Student Name:", app.Applicant.FullName()},
		{"Application No:", app.Applicant.ApplicationNumber},
		{"Program:", app.Program.Name},
		{"Amount Paid:", fmt.Sprintf("INR %s", fee.PaidAmount.StringFixed(2))},
		{"Payment Method:", orDefault(fee.PaymentMethod, "N/A")},
		{"Transaction ID:", orDefault(fee.TransactionID, "N/A")},
	})
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Thank you for your payment!", "", 1, "L", false, 0, "")

	return r.output(pdf)
}

func (r *pdfRenderer) detailRows(pdf *gofpdf.Fpdf, rows [][2]string) {
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
}

func (r *pdfRenderer) signatureBlock(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, "_________________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 6, "_________________________", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(95, 6, "Admission Officer", "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 6, "Registrar", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Date: %s", r.now().Format("January 2, 2006")), "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 6, r.universityName, "", 1, "C", false, 0, "")
}

func (r *pdfRenderer) output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
