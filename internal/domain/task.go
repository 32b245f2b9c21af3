package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusOngoing   TaskStatus = "ONGOING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusOngoing, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseTaskStatus accepts the status literal case-insensitively.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities LOW < MEDIUM < HIGH; unknown values rank 0.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	default:
		return 0
	}
}

func ParseTaskPriority(raw string) (TaskPriority, error) {
	p := TaskPriority(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

const (
	TaskTypeDefault = "TASK"
	TaskTypeRoadmap = "ROADMAP"
)

type Task struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID     string       `gorm:"size:64;not null;index" json:"owner_id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	StartTime   time.Time    `gorm:"not null" json:"start_time"`
	EndTime     time.Time    `gorm:"not null;index" json:"end_time"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Priority    TaskPriority `gorm:"size:10;not null;default:'MEDIUM'" json:"priority"`
	Status      TaskStatus   `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	TaskType    string       `gorm:"size:50;not null;default:'TASK';index" json:"task_type"`

	ReminderSent bool   `gorm:"not null;default:false" json:"reminder_sent"`
	RoadmapData  string `gorm:"type:text" json:"roadmap_data,omitempty"`
}

// RoadmapData is the payload stored on ROADMAP tasks.
type RoadmapData struct {
	Domain    string   `json:"domain"`
	Timeframe string   `json:"timeframe"`
	Steps     []string `json:"steps"`
}

func (t *Task) IsRoadmap() bool {
	return t.TaskType == TaskTypeRoadmap
}
