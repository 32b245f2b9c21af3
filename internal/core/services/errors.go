package services

import (
	"errors"
	"fmt"
)

// Task errors
var (
	ErrTaskNotFound      = errors.New("task: not found")
	ErrTaskInvalidInput  = errors.New("task: invalid input")
	ErrTaskInvalidWindow = fmt.Errorf("%w: end time must be after start time", ErrTaskInvalidInput)
	ErrTaskForbidden     = errors.New("task: caller does not own this task")
)

// Roadmap errors
var (
	ErrRoadmapEncoding = errors.New("roadmap: failed to encode payload")
)

// Reminder errors. These never leave the scan; they are logged and recorded
// on the timeline.
var (
	ErrReminderUserNotFound = errors.New("reminder: task owner has no contact record")
	ErrReminderDispatch     = errors.New("reminder: dispatch failed")
)
