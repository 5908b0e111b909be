package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vivekjindal24/university-erp/internal/middleware"
	"github.com/vivekjindal24/university-erp/internal/service"
	"github.com/vivekjindal24/university-erp/internal/utils"
)

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id parameter %q", c.Params("id"))
	}
	return uint(id), nil
}

// staffActorFromContext resolves the acting staff member from the JWT
// claims bound by the auth middleware.
func staffActorFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_name"); v != nil {
		if name, ok := v.(string); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	if v := c.Locals("user_id"); v != nil {
		switch id := v.(type) {
		case uint:
			return fmt.Sprintf("staff:%d", id)
		case string:
			if strings.TrimSpace(id) != "" {
				return "staff:" + strings.TrimSpace(id)
			}
		}
	}
	return "staff"
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendServiceError maps the service error taxonomy onto HTTP statuses.
// Client mistakes keep their message; unexpected faults are logged and
// returned as an opaque 500.
func sendServiceError(c *fiber.Ctx, logger *zerolog.Logger, err error) error {
	switch {
	case isValidationError(err), errors.Is(err, service.ErrInvalidAmount):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrApplicationNotFound), errors.Is(err, service.ErrApplicantNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDecisionAlreadyMade), errors.Is(err, service.ErrFeeAlreadyPaid), errors.Is(err, service.ErrDuplicateTransaction):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotAdmitted), errors.Is(err, service.ErrFeeNotPaid):
		return utils.SendError(c, fiber.StatusPreconditionFailed, err.Error())
	case errors.Is(err, service.ErrLetterRender):
		logger.Error().Err(err).Msg("document rendering failed")
		return utils.SendError(c, fiber.StatusBadGateway, "document rendering failed")
	case errors.Is(err, service.ErrPartialPersistence):
		logger.Error().Err(err).Msg("fee ledger append failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "fee payment could not be recorded")
	default:
		logger.Error().Err(err).Msg("unexpected error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
