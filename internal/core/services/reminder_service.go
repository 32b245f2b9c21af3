package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskpulse/backend/internal/clock"
	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
)

const (
	DefaultReminderInterval = time.Hour
	DefaultReminderWindow   = 24 * time.Hour
)

type ReminderServiceConfig struct {
	TaskRepo      ports.TaskRepository
	UserRepo      ports.UserRepository
	Notifier      ports.Notifier
	TimelineRepo  ports.TimelineRepository
	Clock         clock.Clock
	Logger        *logger.Logger
	Interval      time.Duration
	Window        time.Duration
	RunOnStart    bool
	SubjectPrefix string
	Signature     string
}

// ScanReport summarises one ScanAndRemind pass.
type ScanReport struct {
	StartedAt time.Time `json:"started_at"`
	Due       int       `json:"due"`
	Sent      int       `json:"sent"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
}

// ReminderService finds tasks ending inside the due-soon window and sends
// each of them a single reminder.
type ReminderService struct {
	taskRepo   ports.TaskRepository
	userRepo   ports.UserRepository
	notifier   ports.Notifier
	timeline   timelineRecorder
	clock      clock.Clock
	logger     *logger.Logger
	interval   time.Duration
	window     time.Duration
	runOnStart bool
	template   reminderTemplate
}

func NewReminderService(cfg ReminderServiceConfig) *ReminderService {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	window := cfg.Window
	if window <= 0 {
		window = DefaultReminderWindow
	}
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "TaskPulse"
	}
	signature := cfg.Signature
	if signature == "" {
		signature = prefix + " Team"
	}
	return &ReminderService{
		taskRepo:   cfg.TaskRepo,
		userRepo:   cfg.UserRepo,
		notifier:   cfg.Notifier,
		timeline:   timelineRecorder{repo: cfg.TimelineRepo, logger: cfg.Logger},
		clock:      clk,
		logger:     cfg.Logger,
		interval:   interval,
		window:     window,
		runOnStart: cfg.RunOnStart,
		template:   reminderTemplate{subjectPrefix: prefix, signature: signature},
	}
}

// Run scans on every interval tick until ctx is cancelled. Scans run on this
// goroutine only, so a slow scan delays the next one instead of overlapping.
func (s *ReminderService) Run(ctx context.Context) error {
	s.logger.Infow("reminder_scheduler_started", "interval", s.interval, "window", s.window)
	if s.runOnStart {
		s.ScanAndRemind(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("reminder_scheduler_stopped")
			return nil
		case <-ticker.C:
			s.ScanAndRemind(ctx)
		}
	}
}

// ScanAndRemind runs one pass. Failures are contained per task and only
// show up in the log, the timeline and the returned report.
func (s *ReminderService) ScanAndRemind(ctx context.Context) ScanReport {
	now := s.clock.Now()
	report := ScanReport{StartedAt: now}

	tasks, err := s.taskRepo.ListDueWithin(ctx, now, now.Add(s.window))
	if err != nil {
		s.logger.Errorw("reminder_scan_query_failed", "error", err)
		return report
	}
	report.Due = len(tasks)

	for i := range tasks {
		task := &tasks[i]
		if task.ReminderSent {
			continue
		}
		switch err := s.remind(ctx, task); {
		case err == nil:
			report.Sent++
		case errors.Is(err, errReminderNotClaimed):
		case errors.Is(err, ErrReminderUserNotFound):
			report.Skipped++
		default:
			report.Failed++
		}
	}

	s.logger.Infow("reminder_scan_done",
		"due", report.Due,
		"sent", report.Sent,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	return report
}

var errReminderNotClaimed = errors.New("reminder: already claimed")

// remind claims the task's reminder and dispatches it. The claim is taken
// before sending and is never released, so a failed dispatch is not retried.
func (s *ReminderService) remind(ctx context.Context, task *domain.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("reminder_panic", "task_id", task.ID, "panic", r)
			err = fmt.Errorf("%w: panic: %v", ErrReminderDispatch, r)
		}
	}()

	claimed, err := s.taskRepo.ClaimReminder(ctx, task.ID)
	if err != nil {
		s.logger.Errorw("reminder_claim_failed", "task_id", task.ID, "error", err)
		return err
	}
	if !claimed {
		s.logger.Debugw("reminder_already_claimed", "task_id", task.ID)
		return errReminderNotClaimed
	}
	task.ReminderSent = true

	user, err := s.userRepo.GetByID(ctx, task.OwnerID)
	if err != nil || user == nil || user.Email == "" {
		s.logger.Warnw("reminder_owner_unresolved", "task_id", task.ID, "owner_id", task.OwnerID, "error", err)
		s.timeline.record(ctx, task, domain.EventTypeReminderSkipped, domain.EventStatusSkipped, "task owner could not be resolved", nil)
		return ErrReminderUserNotFound
	}

	if err := s.notifier.Send(ctx, user.Email, s.template.subject(task), s.template.body(task)); err != nil {
		s.logger.Errorw("reminder_dispatch_failed", "task_id", task.ID, "owner_id", task.OwnerID, "error", err)
		s.timeline.record(ctx, task, domain.EventTypeReminderFailed, domain.EventStatusFailed, err.Error(), nil)
		return fmt.Errorf("%w: %v", ErrReminderDispatch, err)
	}

	s.logger.Infow("reminder_sent", "task_id", task.ID, "owner_id", task.OwnerID, "end_time", task.EndTime)
	s.timeline.record(ctx, task, domain.EventTypeReminderSent, domain.EventStatusSuccess, "reminder sent",
		domain.JSONB{"recipient": user.Email})
	return nil
}

// Upcoming lists the owner's non-completed tasks due inside the window,
// regardless of whether a reminder went out.
func (s *ReminderService) Upcoming(ctx context.Context, ownerID string) ([]domain.Task, error) {
	now := s.clock.Now()
	return s.taskRepo.ListDueWithinForOwner(ctx, ownerID, now, now.Add(s.window))
}

var _ ports.UpcomingLister = (*ReminderService)(nil)
