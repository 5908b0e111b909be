package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vivekjindal24/university-erp/internal/dto"
	"github.com/vivekjindal24/university-erp/internal/handler"
	"github.com/vivekjindal24/university-erp/internal/service"
)

type mockAdmissionService struct {
	admitActor   string
	admitReq     dto.AdmitRequest
	decision     dto.DecisionResponse
	decisionErr  error
	payment      dto.FeePaymentResponse
	paymentErr   error
	document     service.Document
	documentErr  error
	status       dto.ApplicationStatusResponse
	statusErr    error
	portal       dto.PortalStatusResponse
	portalErr    error
	applications []dto.ApplicationSummaryResponse
	cycles       []dto.AdmissionCycleResponse
}

func (m *mockAdmissionService) Admit(_ context.Context, _ uint, actor string, req dto.AdmitRequest) (dto.DecisionResponse, error) {
	m.admitActor = actor
	m.admitReq = req
	if m.decisionErr != nil {
		return dto.DecisionResponse{}, m.decisionErr
	}
	return m.decision, nil
}

func (m *mockAdmissionService) Reject(_ context.Context, _ uint, actor string) (dto.DecisionResponse, error) {
	m.admitActor = actor
	if m.decisionErr != nil {
		return dto.DecisionResponse{}, m.decisionErr
	}
	return m.decision, nil
}

func (m *mockAdmissionService) RecordFeePayment(_ context.Context, _ uint, _ dto.FeePaymentRequest) (dto.FeePaymentResponse, error) {
	if m.paymentErr != nil {
		return dto.FeePaymentResponse{}, m.paymentErr
	}
	return m.payment, nil
}

func (m *mockAdmissionService) GenerateLetter(_ context.Context, _ uint) (service.Document, error) {
	if m.documentErr != nil {
		return service.Document{}, m.documentErr
	}
	return m.document, nil
}

func (m *mockAdmissionService) RenderReceipt(_ context.Context, _ uint) (service.Document, error) {
	if m.documentErr != nil {
		return service.Document{}, m.documentErr
	}
	return m.document, nil
}

func (m *mockAdmissionService) CheckStatus(_ context.Context, _ uint) (dto.ApplicationStatusResponse, error) {
	if m.statusErr != nil {
		return dto.ApplicationStatusResponse{}, m.statusErr
	}
	return m.status, nil
}

func (m *mockAdmissionService) PortalStatus(_ context.Context, _ string) (dto.PortalStatusResponse, error) {
	if m.portalErr != nil {
		return dto.PortalStatusResponse{}, m.portalErr
	}
	return m.portal, nil
}

func (m *mockAdmissionService) ListApplications(_ context.Context) ([]dto.ApplicationSummaryResponse, error) {
	return m.applications, nil
}

func (m *mockAdmissionService) ListCycles(_ context.Context) ([]dto.AdmissionCycleResponse, error) {
	return m.cycles, nil
}

func newAdmissionApp(svc service.AdmissionService) *fiber.App {
	logger := zerolog.New(io.Discard)
	app := fiber.New()
	group := app.Group("/api/v1/admissions/applications")
	auth := func(c *fiber.Ctx) error {
		c.Locals("user_name", "registrar")
		return c.Next()
	}
	handler.NewAdmissionHandler(svc, logger).Register(group, auth)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestAdmissionHandler_AdmitSuccess(t *testing.T) {
	svc := &mockAdmissionService{decision: dto.DecisionResponse{
		ApplicationID:     7,
		AdmissionDecision: "admitted",
		EmailSent:         true,
	}}
	app := newAdmissionApp(svc)

	resp := postJSON(t, app, "/api/v1/admissions/applications/7/admit", dto.AdmitRequest{FirstSemesterFeeAmount: "75000.00"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                 `json:"success"`
		Data    dto.DecisionResponse `json:"data"`
		Message string               `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "applicant admitted successfully", response.Message)
	require.Equal(t, uint(7), response.Data.ApplicationID)
	require.Equal(t, "registrar", svc.admitActor)
	require.Equal(t, "75000.00", svc.admitReq.FirstSemesterFeeAmount)
}

func TestAdmissionHandler_AdmitInvalidID(t *testing.T) {
	app := newAdmissionApp(&mockAdmissionService{})

	resp := postJSON(t, app, "/api/v1/admissions/applications/0/admit", dto.AdmitRequest{FirstSemesterFeeAmount: "75000.00"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdmissionHandler_AdmitErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid amount", service.ErrInvalidAmount, fiber.StatusBadRequest},
		{"not found", service.ErrApplicationNotFound, fiber.StatusNotFound},
		{"already decided", service.ErrDecisionAlreadyMade, fiber.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockAdmissionService{decisionErr: tc.err}
			app := newAdmissionApp(svc)

			resp := postJSON(t, app, "/api/v1/admissions/applications/1/admit", dto.AdmitRequest{FirstSemesterFeeAmount: "75000.00"})
			require.Equal(t, tc.status, resp.StatusCode)

			var response struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &response)
			require.False(t, response.Success)
		})
	}
}

func TestAdmissionHandler_PayFeeErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not admitted", service.ErrNotAdmitted, fiber.StatusPreconditionFailed},
		{"already paid", service.ErrFeeAlreadyPaid, fiber.StatusConflict},
		{"duplicate transaction", service.ErrDuplicateTransaction, fiber.StatusConflict},
		{"partial persistence", service.ErrPartialPersistence, fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockAdmissionService{paymentErr: tc.err}
			app := newAdmissionApp(svc)

			resp := postJSON(t, app, "/api/v1/admissions/applications/1/pay-fee", dto.FeePaymentRequest{PaymentAmount: "75000.00"})
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAdmissionHandler_PayFeeSuccess(t *testing.T) {
	paidAt := time.Now()
	svc := &mockAdmissionService{payment: dto.FeePaymentResponse{
		ApplicationID: 3,
		FeePaid:       true,
		PaymentDate:   &paidAt,
		TransactionID: "TXN123",
		ReceiptNumber: "RCPT-3-ABCD1234",
		EmailSent:     true,
	}}
	app := newAdmissionApp(svc)

	resp := postJSON(t, app, "/api/v1/admissions/applications/3/pay-fee", dto.FeePaymentRequest{PaymentAmount: "75000.00", TransactionID: "TXN123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                   `json:"success"`
		Data    dto.FeePaymentResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Data.FeePaid)
	require.Equal(t, "RCPT-3-ABCD1234", response.Data.ReceiptNumber)
}

func TestAdmissionHandler_AdmissionLetterDownload(t *testing.T) {
	svc := &mockAdmissionService{document: service.Document{
		Filename: "admission_letter_APP2026001.pdf",
		Content:  []byte("%PDF-1.4 letter"),
	}}
	app := newAdmissionApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admissions/applications/1/admission-letter", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	require.Equal(t, `attachment; filename="admission_letter_APP2026001.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "%PDF-1.4 letter", string(body))
}

func TestAdmissionHandler_AdmissionLetterRenderFailure(t *testing.T) {
	svc := &mockAdmissionService{documentErr: service.ErrLetterRender}
	app := newAdmissionApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admissions/applications/1/admission-letter", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestAdmissionHandler_FeeReceiptRequiresPayment(t *testing.T) {
	svc := &mockAdmissionService{documentErr: service.ErrFeeNotPaid}
	app := newAdmissionApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admissions/applications/1/fee-receipt", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusPreconditionFailed, resp.StatusCode)
}
