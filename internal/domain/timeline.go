package domain

const ResourceTypeTask = "task"

// Task timeline event types
const (
	EventTypeTaskCreated       = "TASK_CREATED"
	EventTypeTaskUpdated       = "TASK_UPDATED"
	EventTypeTaskCompleted     = "TASK_COMPLETED"
	EventTypeTaskStatusChanged = "TASK_STATUS_CHANGED"
	EventTypeTaskDeleted       = "TASK_DELETED"
	EventTypeReminderSent      = "REMINDER_SENT"
	EventTypeReminderFailed    = "REMINDER_FAILED"
	EventTypeReminderSkipped   = "REMINDER_SKIPPED"
)
