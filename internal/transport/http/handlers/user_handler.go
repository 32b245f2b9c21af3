package handlers

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
	"github.com/taskpulse/backend/internal/transport/http/dto"
)

type UserHandler struct {
	repo   ports.UserRepository
	logger *logger.Logger
}

func NewUserHandler(repo ports.UserRepository, logger *logger.Logger) *UserHandler {
	return &UserHandler{repo: repo, logger: logger}
}

func (h *UserHandler) UpsertUser(c *fiber.Ctx) error {
	var req dto.UpsertUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return badRequest(c, "email is not a valid address")
	}

	user := &domain.User{ID: c.Params("id"), Email: email, Name: strings.TrimSpace(req.Name)}
	if err := h.repo.Upsert(c.UserContext(), user); err != nil {
		h.logger.Errorw("user_upsert_failed", "id", user.ID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.repo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(user)
}
