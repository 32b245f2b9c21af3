package services

import (
	"fmt"
	"strings"

	"github.com/taskpulse/backend/internal/domain"
)

const reminderDueLayout = "Jan 02, 2006 at 03:04 PM"

type reminderTemplate struct {
	subjectPrefix string
	signature     string
}

func (t reminderTemplate) subject(task *domain.Task) string {
	return fmt.Sprintf("%s - Task Reminder: %s", t.subjectPrefix, task.Title)
}

func (t reminderTemplate) body(task *domain.Task) string {
	var b strings.Builder
	b.WriteString("Hi there!\n\n")
	fmt.Fprintf(&b, "This is a friendly reminder that your task '%s' is due soon.\n\n", task.Title)
	fmt.Fprintf(&b, "Due Date: %s\n", task.EndTime.Format(reminderDueLayout))
	fmt.Fprintf(&b, "Priority: %s\n\n", task.Priority)
	if task.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n\n", task.Description)
	}
	b.WriteString("Don't forget to complete it on time!\n\n")
	fmt.Fprintf(&b, "Best regards,\n%s", t.signature)
	return b.String()
}
