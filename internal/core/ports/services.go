package ports

import (
	"context"
	"time"

	"github.com/taskpulse/backend/internal/domain"
)

type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	CreateRoadmapTask(ctx context.Context, input CreateRoadmapInput) (*domain.Task, error)
	GetTask(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	UpdateTask(ctx context.Context, taskID, ownerID string, input UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID, ownerID string) error
	CompleteTask(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	SetStatus(ctx context.Context, taskID, ownerID string, status domain.TaskStatus) (*domain.Task, error)

	ListTasks(ctx context.Context, ownerID string) ([]domain.Task, error)
	ListTasksByStatus(ctx context.Context, ownerID string, status domain.TaskStatus) ([]domain.Task, error)
	CountTasksByStatus(ctx context.Context, ownerID string, status domain.TaskStatus) (int64, error)
	ListOverdue(ctx context.Context, ownerID string) ([]domain.Task, error)
	ListUpcoming(ctx context.Context, ownerID string) ([]domain.Task, error)
	ListRoadmapTasks(ctx context.Context, ownerID string) ([]domain.Task, error)
}

type CreateTaskInput struct {
	OwnerID     string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Priority    domain.TaskPriority
}

// UpdateTaskInput carries the fields to change; nil fields are kept.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Priority    *domain.TaskPriority
}

type CreateRoadmapInput struct {
	OwnerID   string
	Title     string
	Domain    string
	Timeframe string
	Steps     []string
}

// UpcomingLister answers the due-window query for a single owner.
type UpcomingLister interface {
	Upcoming(ctx context.Context, ownerID string) ([]domain.Task, error)
}

// Notifier delivers a rendered message to a destination address.
type Notifier interface {
	Send(ctx context.Context, address, subject, body string) error
}
