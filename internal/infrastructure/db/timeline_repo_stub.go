package db

import (
	"context"
	"time"

	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
)

// logOnlyTimeline stands in when features.enable_timeline is off: events go
// to the log and every listing is empty.
type logOnlyTimeline struct {
	log *logger.Logger
}

func NewTimelineRepoStub(log *logger.Logger) ports.TimelineRepository {
	return logOnlyTimeline{log: log}
}

func (t logOnlyTimeline) Create(_ context.Context, event *domain.TimelineEvent) error {
	t.log.Infow("timeline_event",
		"type", event.Type,
		"status", event.Status,
		"owner_id", event.OwnerID,
		"resource_id", event.ResourceID,
		"message", event.Message,
	)
	return nil
}

func (logOnlyTimeline) GetByID(context.Context, uint) (*domain.TimelineEvent, error) {
	return nil, nil
}

func (logOnlyTimeline) List(context.Context, ports.TimelineFilter) ([]domain.TimelineEvent, error) {
	return nil, nil
}

func (logOnlyTimeline) CleanupOld(context.Context, time.Duration) (int64, error) {
	return 0, nil
}
