package notify

import (
	"context"
	"errors"

	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
)

// LogNotifier writes reminders to the log instead of delivering them.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Send(_ context.Context, address, subject, body string) error {
	n.logger.Infow("reminder_logged", "to", address, "subject", subject, "body", body)
	return nil
}

// Multi sends through every notifier and joins their errors.
type Multi []ports.Notifier

func (m Multi) Send(ctx context.Context, address, subject, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, address, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ ports.Notifier = (*Mailer)(nil)
	_ ports.Notifier = (*Hub)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
	_ ports.Notifier = Multi(nil)
)
