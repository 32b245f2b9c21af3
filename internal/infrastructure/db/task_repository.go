package db

import (
	"context"
	"errors"
	"time"

	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type taskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{db: db, log: log}
}

// toUTC pins every stored timestamp to UTC. SQLite compares times as text,
// so mixed offsets would break range queries.
func toUTC(task *domain.Task) {
	task.StartTime = task.StartTime.UTC()
	task.EndTime = task.EndTime.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	if task.CompletedAt != nil {
		at := task.CompletedAt.UTC()
		task.CompletedAt = &at
	}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	toUTC(task)
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Errorw("task_repo_create_failed", "owner_id", task.OwnerID, "error", err)
		return err
	}
	r.log.Infow("task_repo_create_ok", "id", task.ID, "owner_id", task.OwnerID)
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	// reminder_sent belongs to ClaimReminder; a stale copy must not reset it.
	// UpdateColumns keeps the caller's updated_at instead of gorm's clock.
	toUTC(task)
	err := r.db.WithContext(ctx).
		Model(task).
		Select("*").
		Omit("id", "created_at", "owner_id", "reminder_sent").
		UpdateColumns(task).Error
	if err != nil {
		r.log.Errorw("task_repo_update_failed", "id", task.ID, "error", err)
		return err
	}
	r.log.Infow("task_repo_update_ok", "id", task.ID)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Errorw("task_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{}).Error; err != nil {
		r.log.Errorw("task_repo_delete_failed", "id", id, "error", err)
		return err
	}
	r.log.Infow("task_repo_delete_ok", "id", id)
	return nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	r.log.Debugw("task_repo_list_ok", "owner_id", ownerID, "count", len(tasks))
	return tasks, nil
}

func (r *taskRepository) ListByOwnerAndStatus(ctx context.Context, ownerID string, status domain.TaskStatus) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Order("created_at desc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_by_status_failed", "owner_id", ownerID, "status", status, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CountByOwnerAndStatus(ctx context.Context, ownerID string, status domain.TaskStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&count).Error
	if err != nil {
		r.log.Errorw("task_repo_count_failed", "owner_id", ownerID, "status", status, "error", err)
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) ListByOwnerAndType(ctx context.Context, ownerID, taskType string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND task_type = ?", ownerID, taskType).
		Order("created_at desc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_by_type_failed", "owner_id", ownerID, "task_type", taskType, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListOverdue(ctx context.Context, ownerID string, before time.Time) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND end_time < ? AND status <> ?", ownerID, before.UTC(), domain.TaskStatusCompleted).
		Order("end_time asc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_overdue_failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListDueWithin(ctx context.Context, start, end time.Time) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("end_time >= ? AND end_time < ? AND status <> ?", start.UTC(), end.UTC(), domain.TaskStatusCompleted).
		Order("end_time asc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_due_failed", "start", start, "end", end, "error", err)
		return nil, err
	}
	r.log.Debugw("task_repo_list_due_ok", "count", len(tasks))
	return tasks, nil
}

func (r *taskRepository) ListDueWithinForOwner(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND end_time >= ? AND end_time < ? AND status <> ?", ownerID, start.UTC(), end.UTC(), domain.TaskStatusCompleted).
		Order("end_time asc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_upcoming_failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ClaimReminder(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		UpdateColumn("reminder_sent", true)
	if res.Error != nil {
		r.log.Errorw("task_repo_claim_reminder_failed", "id", id, "error", res.Error)
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
