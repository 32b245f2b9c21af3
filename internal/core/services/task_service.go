package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskpulse/backend/internal/clock"
	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
)

type TaskServiceConfig struct {
	Repository   ports.TaskRepository
	Upcoming     ports.UpcomingLister
	TimelineRepo ports.TimelineRepository
	Clock        clock.Clock
	Logger       *logger.Logger
	// Encode serialises roadmap payloads; json.Marshal when nil.
	Encode func(v any) ([]byte, error)
}

type taskService struct {
	repo     ports.TaskRepository
	upcoming ports.UpcomingLister
	timeline timelineRecorder
	clock    clock.Clock
	logger   *logger.Logger
	encode   func(v any) ([]byte, error)
}

func NewTaskService(cfg TaskServiceConfig) ports.TaskService {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	encode := cfg.Encode
	if encode == nil {
		encode = json.Marshal
	}
	return &taskService{
		repo:     cfg.Repository,
		upcoming: cfg.Upcoming,
		timeline: timelineRecorder{repo: cfg.TimelineRepo, logger: cfg.Logger},
		clock:    clk,
		logger:   cfg.Logger,
		encode:   encode,
	}
}

func (s *taskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	status := domain.TaskStatusPending
	if derived, ok := DeriveStatus(now, input.StartTime, input.EndTime); ok {
		status = derived
	}

	task := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     input.OwnerID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Priority:    input.Priority,
		Status:      status,
		TaskType:    domain.TaskTypeDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Errorw("failed to create task", "owner_id", input.OwnerID, "error", err)
		return nil, err
	}

	s.logger.Infow("task created", "id", task.ID, "owner_id", task.OwnerID, "status", task.Status)
	s.timeline.record(ctx, task, domain.EventTypeTaskCreated, domain.EventStatusSuccess, "task created", nil)
	return task, nil
}

func (s *taskService) validateCreate(input ports.CreateTaskInput) error {
	if strings.TrimSpace(input.OwnerID) == "" {
		return fmt.Errorf("%w: owner id is required", ErrTaskInvalidInput)
	}
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrTaskInvalidInput)
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end time are required", ErrTaskInvalidInput)
	}
	if !input.StartTime.Before(input.EndTime) {
		return ErrTaskInvalidWindow
	}
	if !input.Priority.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrTaskInvalidInput, domain.ErrInvalidPriority, input.Priority)
	}
	return nil
}

func (s *taskService) CreateRoadmapTask(ctx context.Context, input ports.CreateRoadmapInput) (*domain.Task, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrTaskInvalidInput)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrTaskInvalidInput)
	}

	steps := input.Steps
	if steps == nil {
		steps = []string{}
	}
	payload, err := s.encode(domain.RoadmapData{
		Domain:    input.Domain,
		Timeframe: input.Timeframe,
		Steps:     steps,
	})
	if err != nil {
		s.logger.Errorw("failed to encode roadmap", "owner_id", input.OwnerID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRoadmapEncoding, err)
	}

	now := s.clock.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     input.OwnerID,
		Title:       strings.TrimSpace(input.Title),
		Description: fmt.Sprintf("AI-generated learning roadmap for %s (%s)", input.Domain, input.Timeframe),
		StartTime:   now,
		EndTime:     ParseTimeframe(input.Timeframe, now),
		Priority:    domain.TaskPriorityMedium,
		Status:      domain.TaskStatusPending,
		TaskType:    domain.TaskTypeRoadmap,
		RoadmapData: string(payload),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Errorw("failed to create roadmap task", "owner_id", input.OwnerID, "error", err)
		return nil, err
	}

	s.logger.Infow("roadmap task created", "id", task.ID, "owner_id", task.OwnerID, "steps", len(steps), "end_time", task.EndTime)
	s.timeline.record(ctx, task, domain.EventTypeTaskCreated, domain.EventStatusSuccess, "roadmap task created",
		domain.JSONB{"domain": input.Domain, "timeframe": input.Timeframe})
	return task, nil
}

// loadOwned fetches a task and checks it belongs to ownerID.
func (s *taskService) loadOwned(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.OwnerID != ownerID {
		s.logger.Warnw("task owner mismatch", "id", taskID, "owner_id", task.OwnerID, "caller_id", ownerID)
		return nil, ErrTaskForbidden
	}
	return task, nil
}

func (s *taskService) GetTask(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	return s.loadOwned(ctx, taskID, ownerID)
}

func (s *taskService) UpdateTask(ctx context.Context, taskID, ownerID string, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.loadOwned(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	updated := *task
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", ErrTaskInvalidInput)
		}
		updated.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.StartTime != nil {
		updated.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		updated.EndTime = *input.EndTime
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, fmt.Errorf("%w: %w: %q", ErrTaskInvalidInput, domain.ErrInvalidPriority, *input.Priority)
		}
		updated.Priority = *input.Priority
	}
	if !updated.StartTime.Before(updated.EndTime) {
		return nil, ErrTaskInvalidWindow
	}

	// Status only moves through CompleteTask and SetStatus.
	updated.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, &updated); err != nil {
		s.logger.Errorw("failed to update task", "id", taskID, "error", err)
		return nil, err
	}

	s.logger.Infow("task updated", "id", taskID)
	s.timeline.record(ctx, &updated, domain.EventTypeTaskUpdated, domain.EventStatusSuccess, "task updated", nil)
	return &updated, nil
}

func (s *taskService) DeleteTask(ctx context.Context, taskID, ownerID string) error {
	task, err := s.loadOwned(ctx, taskID, ownerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, taskID); err != nil {
		s.logger.Errorw("failed to delete task", "id", taskID, "error", err)
		return err
	}
	s.logger.Infow("task deleted", "id", taskID, "owner_id", ownerID)
	s.timeline.record(ctx, task, domain.EventTypeTaskDeleted, domain.EventStatusSuccess, "task deleted", nil)
	return nil
}

func (s *taskService) CompleteTask(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	task, err := s.loadOwned(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now

	if err := s.repo.Update(ctx, task); err != nil {
		s.logger.Errorw("failed to complete task", "id", taskID, "error", err)
		return nil, err
	}

	s.logger.Infow("task completed", "id", taskID)
	s.timeline.record(ctx, task, domain.EventTypeTaskCompleted, domain.EventStatusSuccess, "task completed", nil)
	return task, nil
}

func (s *taskService) SetStatus(ctx context.Context, taskID, ownerID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrTaskInvalidInput, domain.ErrInvalidStatus, status)
	}
	task, err := s.loadOwned(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	previous := task.Status
	task.Status = status
	if status == domain.TaskStatusCompleted {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	task.UpdatedAt = now

	if err := s.repo.Update(ctx, task); err != nil {
		s.logger.Errorw("failed to set task status", "id", taskID, "status", status, "error", err)
		return nil, err
	}

	s.logger.Infow("task status changed", "id", taskID, "from", previous, "to", status)
	s.timeline.record(ctx, task, domain.EventTypeTaskStatusChanged, domain.EventStatusSuccess, "task status changed",
		domain.JSONB{"from": string(previous), "to": string(status)})
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *taskService) ListTasksByStatus(ctx context.Context, ownerID string, status domain.TaskStatus) ([]domain.Task, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrTaskInvalidInput, domain.ErrInvalidStatus, status)
	}
	return s.repo.ListByOwnerAndStatus(ctx, ownerID, status)
}

func (s *taskService) CountTasksByStatus(ctx context.Context, ownerID string, status domain.TaskStatus) (int64, error) {
	if !status.IsValid() {
		return 0, fmt.Errorf("%w: %w: %q", ErrTaskInvalidInput, domain.ErrInvalidStatus, status)
	}
	return s.repo.CountByOwnerAndStatus(ctx, ownerID, status)
}

// ListOverdue is a read-time filter; overdue is never stored as a status.
func (s *taskService) ListOverdue(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.repo.ListOverdue(ctx, ownerID, s.clock.Now())
}

func (s *taskService) ListUpcoming(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.upcoming.Upcoming(ctx, ownerID)
}

func (s *taskService) ListRoadmapTasks(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.repo.ListByOwnerAndType(ctx, ownerID, domain.TaskTypeRoadmap)
}
