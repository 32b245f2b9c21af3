package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/taskpulse/backend/internal/domain"
)

type CreateTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Priority    string    `json:"priority"`
}

// Validate checks the request and returns the parsed priority, which is
// only meaningful when no errors are reported.
func (r *CreateTaskRequest) Validate() (domain.TaskPriority, []string) {
	var errors []string
	var priority domain.TaskPriority

	if strings.TrimSpace(r.Title) == "" {
		errors = append(errors, "title is required")
	}
	if r.StartTime.IsZero() {
		errors = append(errors, "start_time is required")
	}
	if r.EndTime.IsZero() {
		errors = append(errors, "end_time is required")
	}
	if !r.StartTime.IsZero() && !r.EndTime.IsZero() && !r.StartTime.Before(r.EndTime) {
		errors = append(errors, "end_time must be after start_time")
	}
	if r.Priority == "" {
		errors = append(errors, "priority is required")
	} else if p, err := domain.ParseTaskPriority(r.Priority); err != nil {
		errors = append(errors, "priority must be one of: LOW, MEDIUM, HIGH")
	} else {
		priority = p
	}

	return priority, errors
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type CreateRoadmapRequest struct {
	Title     string   `json:"title"`
	Domain    string   `json:"domain"`
	Timeframe string   `json:"timeframe"`
	Steps     []string `json:"steps"`
}

func (r *CreateRoadmapRequest) Validate() []string {
	var errors []string
	if strings.TrimSpace(r.Title) == "" {
		errors = append(errors, "title is required")
	}
	if strings.TrimSpace(r.Domain) == "" {
		errors = append(errors, "domain is required")
	}
	return errors
}

type TaskResponse struct {
	ID           string              `json:"id"`
	OwnerID      string              `json:"owner_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	StartTime    time.Time           `json:"start_time"`
	EndTime      time.Time           `json:"end_time"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	Priority     domain.TaskPriority `json:"priority"`
	Status       domain.TaskStatus   `json:"status"`
	TaskType     string              `json:"task_type"`
	ReminderSent bool                `json:"reminder_sent"`
	Roadmap      *domain.RoadmapData `json:"roadmap,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func NewTaskResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:           task.ID,
		OwnerID:      task.OwnerID,
		Title:        task.Title,
		Description:  task.Description,
		StartTime:    task.StartTime,
		EndTime:      task.EndTime,
		CompletedAt:  task.CompletedAt,
		Priority:     task.Priority,
		Status:       task.Status,
		TaskType:     task.TaskType,
		ReminderSent: task.ReminderSent,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
	if task.IsRoadmap() && task.RoadmapData != "" {
		var roadmap domain.RoadmapData
		if err := json.Unmarshal([]byte(task.RoadmapData), &roadmap); err == nil {
			resp.Roadmap = &roadmap
		}
	}
	return resp
}

func NewTaskListResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}

type UpsertUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
