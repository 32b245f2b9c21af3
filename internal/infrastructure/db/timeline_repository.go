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

const (
	defaultTimelineLimit = 50
	maxTimelineLimit     = 500
)

type timelineRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimelineRepository(db *gorm.DB, log *logger.Logger) ports.TimelineRepository {
	return &timelineRepository{db: db, log: log}
}

func (r *timelineRepository) Create(ctx context.Context, event *domain.TimelineEvent) error {
	event.CreatedAt = event.CreatedAt.UTC()
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.log.Errorw("timeline_repo_create_failed", "type", event.Type, "resource_id", event.ResourceID, "error", err)
		return err
	}
	r.log.Debugw("timeline_repo_create_ok", "id", event.ID, "type", event.Type, "resource_id", event.ResourceID)
	return nil
}

func (r *timelineRepository) GetByID(ctx context.Context, id uint) (*domain.TimelineEvent, error) {
	var event domain.TimelineEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Errorw("timeline_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &event, nil
}

func (r *timelineRepository) List(ctx context.Context, filter ports.TimelineFilter) ([]domain.TimelineEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTimelineLimit
	}
	if limit > maxTimelineLimit {
		limit = maxTimelineLimit
	}

	q := r.db.WithContext(ctx).Model(&domain.TimelineEvent{})
	if filter.OwnerID != "" {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.ResourceType != "" {
		q = q.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		q = q.Where("resource_id = ?", filter.ResourceID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var events []domain.TimelineEvent
	if err := q.Order("created_at desc, id desc").Limit(limit).Find(&events).Error; err != nil {
		r.log.Errorw("timeline_repo_list_failed", "filter", filter, "error", err)
		return nil, err
	}
	return events, nil
}

// CleanupOld deletes events created before now minus olderThan.
func (r *timelineRepository) CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", time.Now().UTC().Add(-olderThan)).
		Delete(&domain.TimelineEvent{})
	if res.Error != nil {
		r.log.Errorw("timeline_repo_cleanup_failed", "older_than", olderThan, "error", res.Error)
		return 0, res.Error
	}
	r.log.Infow("timeline_repo_cleanup_ok", "deleted", res.RowsAffected, "older_than", olderThan)
	return res.RowsAffected, nil
}
