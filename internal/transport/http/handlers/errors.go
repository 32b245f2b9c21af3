package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/backend/internal/core/services"
	"github.com/taskpulse/backend/internal/transport/http/dto"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrTaskForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrTaskInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		msg = "internal server error"
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: msg})
}

func badRequest(c *fiber.Ctx, msg string, details ...string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, Details: details})
}
