package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vivekjindal24/university-erp/internal/service"
	"github.com/vivekjindal24/university-erp/internal/utils"
)

// PortalHandler exposes the public read-only admission surface: status
// checks, the applicant portal projection and the intake listings.
type PortalHandler struct {
	service service.AdmissionService
	logger  zerolog.Logger
}

// NewPortalHandler constructs a portal handler.
func NewPortalHandler(service service.AdmissionService, logger zerolog.Logger) *PortalHandler {
	return &PortalHandler{
		service: service,
		logger:  logger.With().Str("component", "portal_handler").Logger(),
	}
}

// Register wires the public admission routes.
func (h *PortalHandler) Register(router fiber.Router) {
	router.Get("/cycles", h.listCycles)
	router.Get("/applications", h.listApplications)
	router.Get("/applications/:id/status", h.checkStatus)
	router.Get("/portal/:applicationNumber", h.portalStatus)
}

func (h *PortalHandler) listCycles(c *fiber.Ctx) error {
	cycles, err := h.service.ListCycles(c.Context())
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "admission cycles retrieved", cycles)
}

func (h *PortalHandler) listApplications(c *fiber.Ctx) error {
	applications, err := h.service.ListApplications(c.Context())
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "applications retrieved", applications)
}

func (h *PortalHandler) checkStatus(c *fiber.Ctx) error {
	applicationID, err := parseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	status, err := h.service.CheckStatus(c.Context(), applicationID)
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "admission status retrieved", status)
}

func (h *PortalHandler) portalStatus(c *fiber.Ctx) error {
	applicationNumber := strings.TrimSpace(c.Params("applicationNumber"))
	if applicationNumber == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "application number is required")
	}

	status, err := h.service.PortalStatus(c.Context(), applicationNumber)
	if err != nil {
		return h.sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "portal status retrieved", status)
}

func (h *PortalHandler) sendServiceError(c *fiber.Ctx, err error) error {
	return sendServiceError(c, requestLogger(h.logger, c), err)
}
