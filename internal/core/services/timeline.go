package services

import (
	"context"

	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
)

// timelineRecorder writes audit events without ever failing the caller.
type timelineRecorder struct {
	repo   ports.TimelineRepository
	logger *logger.Logger
}

func (r timelineRecorder) record(ctx context.Context, task *domain.Task, eventType string, status domain.EventStatus, msg string, meta domain.JSONB) {
	if r.repo == nil {
		return
	}
	event := &domain.TimelineEvent{
		Type:         eventType,
		Status:       status,
		Message:      msg,
		Meta:         meta,
		OwnerID:      task.OwnerID,
		ResourceID:   task.ID,
		ResourceType: domain.ResourceTypeTask,
	}
	if err := r.repo.Create(ctx, event); err != nil {
		r.logger.Warnw("timeline_record_failed", "type", eventType, "task_id", task.ID, "error", err)
	}
}
