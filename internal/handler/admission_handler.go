package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vivekjindal24/university-erp/internal/dto"
	"github.com/vivekjindal24/university-erp/internal/service"
	"github.com/vivekjindal24/university-erp/internal/utils"
)

// AdmissionHandler exposes the staff-only admission workflow operations:
// decisions, fee recording and document downloads.
type AdmissionHandler struct {
	service service.AdmissionService
	logger  zerolog.Logger
}

// NewAdmissionHandler constructs an admission handler.
func NewAdmissionHandler(service service.AdmissionService, logger zerolog.Logger) *AdmissionHandler {
	return &AdmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "admission_handler").Logger(),
	}
}

// Register wires the staff admission routes. The auth middleware is applied
// per route because the public status routes share the same path prefix.
func (h *AdmissionHandler) Register(router fiber.Router, auth fiber.Handler) {
	router.Post("/:id/admit", auth, h.admit)
	router.Post("/:id/reject", auth, h.reject)
	router.Post("/:id/pay-fee", auth, h.payFee)
	router.Get("/:id/admission-letter", auth, h.admissionLetter)
	router.Get("/:id/fee-receipt", auth, h.feeReceipt)
}

func (h *AdmissionHandler) admit(c *fiber.Ctx) error {
	applicationID, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	var payload dto.AdmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Admit(c.Context(), applicationID, staffActorFromContext(c), payload)
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "applicant admitted successfully", response)
}

func (h *AdmissionHandler) reject(c *fiber.Ctx) error {
	applicationID, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	response, err := h.service.Reject(c.Context(), applicationID, staffActorFromContext(c))
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "applicant rejected successfully", response)
}

func (h *AdmissionHandler) payFee(c *fiber.Ctx) error {
	applicationID, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	var payload dto.FeePaymentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RecordFeePayment(c.Context(), applicationID, payload)
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "fee payment recorded successfully", response)
}

func (h *AdmissionHandler) admissionLetter(c *fiber.Ctx) error {
	applicationID, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	document, err := h.service.GenerateLetter(c.Context(), applicationID)
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return sendPDF(c, document)
}

func (h *AdmissionHandler) feeReceipt(c *fiber.Ctx) error {
	applicationID, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	document, err := h.service.RenderReceipt(c.Context(), applicationID)
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return sendPDF(c, document)
}

func (h *AdmissionHandler) sendServiceError(c *fiber.Ctx, err error) error {
	return sendServiceError(c, requestLogger(h.logger, c), err)
}

func sendPDF(c *fiber.Ctx, document service.Document) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, document.Filename))
	return c.Send(document.Content)
}
