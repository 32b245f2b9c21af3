package services

import (
	"time"

	"github.com/taskpulse/backend/internal/domain"
)

// DeriveStatus maps the task window onto PENDING or ONGOING. Once the window
// has elapsed it reports ok=false and the caller keeps whatever status it had.
func DeriveStatus(now, start, end time.Time) (status domain.TaskStatus, ok bool) {
	switch {
	case now.Before(start):
		return domain.TaskStatusPending, true
	case now.Before(end):
		return domain.TaskStatusOngoing, true
	default:
		return "", false
	}
}
