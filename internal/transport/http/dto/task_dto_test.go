package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskpulse/backend/internal/domain"
)

func TestCreateTaskRequest_Validate(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	req := CreateTaskRequest{Title: "Read", StartTime: start, EndTime: start.Add(time.Hour), Priority: " high "}
	priority, errs := req.Validate()
	assert.Empty(t, errs)
	assert.Equal(t, domain.TaskPriorityHigh, priority)

	req.Priority = "URGENT"
	priority, errs = req.Validate()
	assert.Equal(t, []string{"priority must be one of: LOW, MEDIUM, HIGH"}, errs)
	assert.Empty(t, priority)

	_, errs = (&CreateTaskRequest{StartTime: start, EndTime: start}).Validate()
	assert.ElementsMatch(t, []string{"title is required", "end_time must be after start_time", "priority is required"}, errs)
}
