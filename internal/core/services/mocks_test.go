package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
	"go.uber.org/zap/zaptest"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.Wrap(zaptest.NewLogger(t))
}

// memTaskRepo is an in-memory ports.TaskRepository.
type memTaskRepo struct {
	mu        sync.Mutex
	tasks     map[string]domain.Task
	claims    int
	failQuery error
	// beforeClaim runs inside ClaimReminder before the flag is checked.
	beforeClaim func(id string)
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]domain.Task)}
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[task.ID]
	if !ok {
		return errors.New("no such task")
	}
	saved := *task
	saved.ReminderSent = existing.ReminderSent
	r.tasks[task.ID] = saved
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) filter(keep func(domain.Task) bool) []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Task
	for _, task := range r.tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memTaskRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Task, error) {
	return r.filter(func(t domain.Task) bool { return t.OwnerID == ownerID }), nil
}

func (r *memTaskRepo) ListByOwnerAndStatus(_ context.Context, ownerID string, status domain.TaskStatus) ([]domain.Task, error) {
	return r.filter(func(t domain.Task) bool { return t.OwnerID == ownerID && t.Status == status }), nil
}

func (r *memTaskRepo) CountByOwnerAndStatus(ctx context.Context, ownerID string, status domain.TaskStatus) (int64, error) {
	tasks, _ := r.ListByOwnerAndStatus(ctx, ownerID, status)
	return int64(len(tasks)), nil
}

func (r *memTaskRepo) ListByOwnerAndType(_ context.Context, ownerID, taskType string) ([]domain.Task, error) {
	return r.filter(func(t domain.Task) bool { return t.OwnerID == ownerID && t.TaskType == taskType }), nil
}

func (r *memTaskRepo) ListOverdue(_ context.Context, ownerID string, before time.Time) ([]domain.Task, error) {
	return r.filter(func(t domain.Task) bool {
		return t.OwnerID == ownerID && t.EndTime.Before(before) && t.Status != domain.TaskStatusCompleted
	}), nil
}

func dueIn(t domain.Task, start, end time.Time) bool {
	return !t.EndTime.Before(start) && t.EndTime.Before(end) && t.Status != domain.TaskStatusCompleted
}

func (r *memTaskRepo) ListDueWithin(_ context.Context, start, end time.Time) ([]domain.Task, error) {
	if r.failQuery != nil {
		return nil, r.failQuery
	}
	return r.filter(func(t domain.Task) bool { return dueIn(t, start, end) }), nil
}

func (r *memTaskRepo) ListDueWithinForOwner(_ context.Context, ownerID string, start, end time.Time) ([]domain.Task, error) {
	return r.filter(func(t domain.Task) bool { return t.OwnerID == ownerID && dueIn(t, start, end) }), nil
}

func (r *memTaskRepo) ClaimReminder(_ context.Context, id string) (bool, error) {
	if r.beforeClaim != nil {
		r.beforeClaim(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.ReminderSent {
		return false, nil
	}
	task.ReminderSent = true
	r.tasks[id] = task
	r.claims++
	return true, nil
}

func (r *memTaskRepo) get(id string) domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks[id]
}

type memUserRepo struct {
	users map[string]domain.User
	err   error
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) Upsert(_ context.Context, user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

type sentMessage struct {
	Address, Subject, Body string
}

type recordingNotifier struct {
	mu     sync.Mutex
	sent   []sentMessage
	failOn map[string]error
}

func (n *recordingNotifier) Send(_ context.Context, address, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failOn[address]; err != nil {
		return err
	}
	n.sent = append(n.sent, sentMessage{address, subject, body})
	return nil
}

func (n *recordingNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type memTimeline struct {
	mu     sync.Mutex
	events []domain.TimelineEvent
}

func (m *memTimeline) Create(_ context.Context, event *domain.TimelineEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = uint(len(m.events) + 1)
	m.events = append(m.events, *event)
	return nil
}

func (m *memTimeline) GetByID(_ context.Context, id uint) (*domain.TimelineEvent, error) {
	return nil, nil
}

func (m *memTimeline) List(_ context.Context, _ ports.TimelineFilter) ([]domain.TimelineEvent, error) {
	return nil, nil
}

func (m *memTimeline) CleanupOld(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

func (m *memTimeline) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}
