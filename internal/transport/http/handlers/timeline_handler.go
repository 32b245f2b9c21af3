package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/transport/http/dto"
	httpmw "github.com/taskpulse/backend/internal/transport/http/middleware"
)

type TimelineHandler struct {
	repo  ports.TimelineRepository
	tasks ports.TaskService
}

func NewTimelineHandler(repo ports.TimelineRepository, tasks ports.TaskService) *TimelineHandler {
	return &TimelineHandler{repo: repo, tasks: tasks}
}

// GetEvents is the admin listing; every query parameter is an optional filter.
func (h *TimelineHandler) GetEvents(c *fiber.Ctx) error {
	events, err := h.repo.List(c.UserContext(), ports.TimelineFilter{
		OwnerID:      c.Query("owner_id"),
		ResourceType: c.Query("resource_type"),
		ResourceID:   c.Query("resource_id"),
		Type:         c.Query("type"),
		Limit:        c.QueryInt("limit"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(events)
}

func (h *TimelineHandler) GetEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(c, "invalid event id")
	}
	event, err := h.repo.GetByID(c.UserContext(), uint(id))
	if err != nil {
		return writeError(c, err)
	}
	if event == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "timeline event not found"})
	}
	return c.JSON(event)
}

// GetTaskEvents lists the audit trail of one of the caller's tasks.
func (h *TimelineHandler) GetTaskEvents(c *fiber.Ctx) error {
	task, err := h.tasks.GetTask(c.UserContext(), c.Params("id"), httpmw.Owner(c))
	if err != nil {
		return writeError(c, err)
	}
	events, err := h.repo.List(c.UserContext(), ports.TimelineFilter{
		ResourceType: domain.ResourceTypeTask,
		ResourceID:   task.ID,
		Limit:        c.QueryInt("limit"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(events)
}
