package db

import (
	"fmt"

	"github.com/taskpulse/backend/internal/domain"
	"gorm.io/gorm"
)

// customIndexes cover the hot queries AutoMigrate cannot express. Each
// statement must stay valid on both PostgreSQL and SQLite.
var customIndexes = []struct {
	name string
	ddl  string
}{
	// owner listings, newest first
	{"idx_tasks_owner_created", `ON tasks (owner_id, created_at DESC)`},
	// reminder scan only touches tasks not yet reminded
	{"idx_tasks_due_unreminded", `ON tasks (end_time) WHERE reminder_sent = false`},
	{"idx_timeline_events_resource", `ON timeline_events (resource_type, resource_id)`},
	{"idx_timeline_events_owner_type", `ON timeline_events (owner_id, type, created_at DESC)`},
}

func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Task{}, &domain.User{}, &domain.TimelineEvent{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, idx := range customIndexes {
		stmt := "CREATE INDEX IF NOT EXISTS " + idx.name + " " + idx.ddl
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
