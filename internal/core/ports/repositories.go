package ports

import (
	"context"
	"time"

	"github.com/taskpulse/backend/internal/domain"
)

// TaskRepository is the store adapter behind the lifecycle service and the
// reminder scan. Lookups return (nil, nil) when the record does not exist.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	// Update saves every column except reminder_sent, which only
	// ClaimReminder may change.
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error

	ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID string, status domain.TaskStatus) ([]domain.Task, error)
	CountByOwnerAndStatus(ctx context.Context, ownerID string, status domain.TaskStatus) (int64, error)
	ListByOwnerAndType(ctx context.Context, ownerID, taskType string) ([]domain.Task, error)
	// ListOverdue returns the owner's tasks ending before the given time
	// that are not COMPLETED.
	ListOverdue(ctx context.Context, ownerID string, before time.Time) ([]domain.Task, error)
	// ListDueWithin returns non-completed tasks with end_time in [start, end).
	ListDueWithin(ctx context.Context, start, end time.Time) ([]domain.Task, error)
	ListDueWithinForOwner(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Task, error)

	// ClaimReminder flips reminder_sent from false to true. It reports false
	// when the flag was already set or the task no longer exists.
	ClaimReminder(ctx context.Context, id string) (bool, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}

// TimelineFilter narrows a timeline listing; empty fields match everything.
type TimelineFilter struct {
	OwnerID      string
	ResourceType string
	ResourceID   string
	Type         string
	Limit        int
}

type TimelineRepository interface {
	Create(ctx context.Context, event *domain.TimelineEvent) error
	GetByID(ctx context.Context, id uint) (*domain.TimelineEvent, error)
	// List returns matching events, newest first.
	List(ctx context.Context, filter TimelineFilter) ([]domain.TimelineEvent, error)
	CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error)
}
