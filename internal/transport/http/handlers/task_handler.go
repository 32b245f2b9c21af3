package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
	"github.com/taskpulse/backend/internal/transport/http/dto"
	httpmw "github.com/taskpulse/backend/internal/transport/http/middleware"
)

type TaskHandler struct {
	service ports.TaskService
	logger  *logger.Logger
}

func NewTaskHandler(service ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		return badRequest(c, "invalid request body")
	}
	priority, errs := req.Validate()
	if len(errs) > 0 {
		return badRequest(c, "validation failed", errs...)
	}

	task, err := h.service.CreateTask(c.UserContext(), ports.CreateTaskInput{
		OwnerID:     httpmw.Owner(c),
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Priority:    priority,
	})
	if err != nil {
		h.logger.Errorw("task_create_failed", "owner_id", httpmw.Owner(c), "error", err)
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTaskResponse(task))
}

func (h *TaskHandler) CreateRoadmap(c *fiber.Ctx) error {
	var req dto.CreateRoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return badRequest(c, "validation failed", errs...)
	}

	task, err := h.service.CreateRoadmapTask(c.UserContext(), ports.CreateRoadmapInput{
		OwnerID:   httpmw.Owner(c),
		Title:     req.Title,
		Domain:    req.Domain,
		Timeframe: req.Timeframe,
		Steps:     req.Steps,
	})
	if err != nil {
		h.logger.Errorw("roadmap_create_failed", "owner_id", httpmw.Owner(c), "error", err)
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTaskResponse(task))
}

func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	owner := httpmw.Owner(c)
	var (
		tasks []domain.Task
		err   error
	)
	if raw := c.Query("status"); raw != "" {
		status, perr := domain.ParseTaskStatus(raw)
		if perr != nil {
			return badRequest(c, perr.Error())
		}
		tasks, err = h.service.ListTasksByStatus(c.UserContext(), owner, status)
	} else {
		tasks, err = h.service.ListTasks(c.UserContext(), owner)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskListResponse(tasks))
}

func (h *TaskHandler) CountTasks(c *fiber.Ctx) error {
	status, err := domain.ParseTaskStatus(c.Query("status"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	count, err := h.service.CountTasksByStatus(c.UserContext(), httpmw.Owner(c), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountResponse{Status: string(status), Count: count})
}

func (h *TaskHandler) GetOverdue(c *fiber.Ctx) error {
	tasks, err := h.service.ListOverdue(c.UserContext(), httpmw.Owner(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskListResponse(tasks))
}

func (h *TaskHandler) GetUpcoming(c *fiber.Ctx) error {
	tasks, err := h.service.ListUpcoming(c.UserContext(), httpmw.Owner(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskListResponse(tasks))
}

func (h *TaskHandler) GetRoadmaps(c *fiber.Ctx) error {
	tasks, err := h.service.ListRoadmapTasks(c.UserContext(), httpmw.Owner(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskListResponse(tasks))
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	task, err := h.service.GetTask(c.UserContext(), c.Params("id"), httpmw.Owner(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskResponse(task))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	input := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if req.Priority != nil {
		p, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			return badRequest(c, err.Error())
		}
		input.Priority = &p
	}

	task, err := h.service.UpdateTask(c.UserContext(), c.Params("id"), httpmw.Owner(c), input)
	if err != nil {
		h.logger.Warnw("task_update_failed", "id", c.Params("id"), "error", err)
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	if err := h.service.DeleteTask(c.UserContext(), c.Params("id"), httpmw.Owner(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TaskHandler) CompleteTask(c *fiber.Ctx) error {
	task, err := h.service.CompleteTask(c.UserContext(), c.Params("id"), httpmw.Owner(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskResponse(task))
}

func (h *TaskHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		return badRequest(c, err.Error())
	}

	task, err := h.service.SetStatus(c.UserContext(), c.Params("id"), httpmw.Owner(c), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskResponse(task))
}
