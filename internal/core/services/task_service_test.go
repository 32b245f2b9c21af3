package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/backend/internal/clock"
	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/domain"
)

type taskFixture struct {
	repo     *memTaskRepo
	timeline *memTimeline
	clock    *clock.Manual
	svc      ports.TaskService
	reminder *ReminderService
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	f := &taskFixture{
		repo:     newMemTaskRepo(),
		timeline: &memTimeline{},
		clock:    clock.NewManual(time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)),
	}
	log := testLogger(t)
	f.reminder = NewReminderService(ReminderServiceConfig{
		TaskRepo: f.repo,
		UserRepo: &memUserRepo{users: map[string]domain.User{}},
		Notifier: &recordingNotifier{},
		Clock:    f.clock,
		Logger:   log,
	})
	f.svc = NewTaskService(TaskServiceConfig{
		Repository:   f.repo,
		Upcoming:     f.reminder,
		TimelineRepo: f.timeline,
		Clock:        f.clock,
		Logger:       log,
	})
	return f
}

func (f *taskFixture) create(t *testing.T, owner string, start, end time.Time) *domain.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), ports.CreateTaskInput{
		OwnerID:   owner,
		Title:     "Write report",
		StartTime: start,
		EndTime:   end,
		Priority:  domain.TaskPriorityHigh,
	})
	require.NoError(t, err)
	return task
}

func TestCreateTask_DerivesStatus(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()

	future := f.create(t, "alice", now.Add(time.Hour), now.Add(2*time.Hour))
	assert.Equal(t, domain.TaskStatusPending, future.Status)

	ongoing := f.create(t, "alice", now.Add(-time.Hour), now.Add(time.Hour))
	assert.Equal(t, domain.TaskStatusOngoing, ongoing.Status)

	past := f.create(t, "alice", now.Add(-3*time.Hour), now.Add(-time.Hour))
	assert.Equal(t, domain.TaskStatusPending, past.Status)

	assert.NotEmpty(t, ongoing.ID)
	assert.Equal(t, now, ongoing.CreatedAt)
	assert.Equal(t, domain.TaskTypeDefault, ongoing.TaskType)
	assert.False(t, ongoing.ReminderSent)
	assert.Nil(t, ongoing.CompletedAt)
	assert.Contains(t, f.timeline.types(), domain.EventTypeTaskCreated)
}

func TestCreateTask_Validation(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()
	valid := ports.CreateTaskInput{
		OwnerID:   "alice",
		Title:     "t",
		StartTime: now,
		EndTime:   now.Add(time.Hour),
		Priority:  domain.TaskPriorityLow,
	}

	tests := []struct {
		name   string
		mutate func(in *ports.CreateTaskInput)
		target error
	}{
		{"end before start", func(in *ports.CreateTaskInput) { in.EndTime = now.Add(-time.Hour) }, ErrTaskInvalidWindow},
		{"end equals start", func(in *ports.CreateTaskInput) { in.EndTime = now }, ErrTaskInvalidWindow},
		{"missing owner", func(in *ports.CreateTaskInput) { in.OwnerID = " " }, ErrTaskInvalidInput},
		{"missing title", func(in *ports.CreateTaskInput) { in.Title = "" }, ErrTaskInvalidInput},
		{"bad priority", func(in *ports.CreateTaskInput) { in.Priority = "URGENT" }, domain.ErrInvalidPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.svc.CreateTask(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, ErrTaskInvalidInput)
		})
	}
	assert.Empty(t, f.repo.tasks)
}

func TestUpdateTask_PreservesStatus(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()
	task := f.create(t, "alice", now.Add(time.Hour), now.Add(3*time.Hour))
	require.Equal(t, domain.TaskStatusPending, task.Status)

	// The window has started by now, but an edit must not re-derive.
	f.clock.Advance(2 * time.Hour)
	title := "Write final report"
	updated, err := f.svc.UpdateTask(context.Background(), task.ID, "alice", ports.UpdateTaskInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusPending, updated.Status)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, f.clock.Now(), updated.UpdatedAt)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.Equal(t, domain.TaskStatusPending, f.repo.get(task.ID).Status)
}

func TestUpdateTask_RevalidatesWindow(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()
	task := f.create(t, "alice", now.Add(time.Hour), now.Add(3*time.Hour))

	end := now
	_, err := f.svc.UpdateTask(context.Background(), task.ID, "alice", ports.UpdateTaskInput{EndTime: &end})
	assert.ErrorIs(t, err, ErrTaskInvalidWindow)

	bad := domain.TaskPriority("nope")
	_, err = f.svc.UpdateTask(context.Background(), task.ID, "alice", ports.UpdateTaskInput{Priority: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	assert.Equal(t, task.EndTime, f.repo.get(task.ID).EndTime)
}

func TestUpdateTask_OtherOwnerIsForbidden(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()
	task := f.create(t, "bob", now.Add(time.Hour), now.Add(2*time.Hour))

	title := "hijacked"
	_, err := f.svc.UpdateTask(context.Background(), task.ID, "alice", ports.UpdateTaskInput{Title: &title})
	assert.ErrorIs(t, err, ErrTaskForbidden)
	assert.Equal(t, "Write report", f.repo.get(task.ID).Title)

	_, err = f.svc.CompleteTask(context.Background(), task.ID, "alice")
	assert.ErrorIs(t, err, ErrTaskForbidden)

	assert.ErrorIs(t, f.svc.DeleteTask(context.Background(), task.ID, "alice"), ErrTaskForbidden)

	_, err = f.svc.GetTask(context.Background(), task.ID, "alice")
	assert.ErrorIs(t, err, ErrTaskForbidden)
}

func TestOperations_UnknownTask(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetTask(ctx, "missing", "alice")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = f.svc.CompleteTask(ctx, "missing", "alice")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = f.svc.SetStatus(ctx, "missing", "alice", domain.TaskStatusOngoing)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, f.svc.DeleteTask(ctx, "missing", "alice"), ErrTaskNotFound)
}

func TestCompleteTask_StampsEachCall(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()
	task := f.create(t, "alice", now.Add(-time.Hour), now.Add(time.Hour))

	first, err := f.svc.CompleteTask(context.Background(), task.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, domain.TaskStatusCompleted, first.Status)
	assert.Equal(t, now, *first.CompletedAt)

	later := f.clock.Advance(10 * time.Minute)
	second, err := f.svc.CompleteTask(context.Background(), task.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, later, *second.CompletedAt)
	assert.Equal(t, later, second.UpdatedAt)
}

func TestSetStatus(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()
	task := f.create(t, "alice", now.Add(time.Hour), now.Add(2*time.Hour))
	ctx := context.Background()

	done, err := f.svc.SetStatus(ctx, task.ID, "alice", domain.TaskStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	reopened, err := f.svc.SetStatus(ctx, task.ID, "alice", domain.TaskStatusOngoing)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusOngoing, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)

	_, err = f.svc.SetStatus(ctx, task.ID, "alice", "OVERDUE")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.ErrorIs(t, err, ErrTaskInvalidInput)

	assert.Contains(t, f.timeline.types(), domain.EventTypeTaskStatusChanged)
}

func TestDeleteTask_IsHard(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()
	task := f.create(t, "alice", now.Add(time.Hour), now.Add(2*time.Hour))

	require.NoError(t, f.svc.DeleteTask(context.Background(), task.ID, "alice"))
	_, err := f.svc.GetTask(context.Background(), task.ID, "alice")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestListings(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	overdue := f.create(t, "alice", now.Add(-5*time.Hour), now.Add(-time.Hour))
	f.clock.Advance(time.Second)
	finished := f.create(t, "alice", now.Add(-5*time.Hour), now.Add(-2*time.Hour))
	_, err := f.svc.CompleteTask(ctx, finished.ID, "alice")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	soon := f.create(t, "alice", now.Add(-time.Hour), now.Add(5*time.Hour))
	f.clock.Advance(time.Second)
	f.create(t, "alice", now.Add(time.Hour), now.Add(72*time.Hour))
	f.create(t, "bob", now.Add(-time.Hour), now.Add(2*time.Hour))

	all, err := f.svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "newest first")
	}

	late, err := f.svc.ListOverdue(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, overdue.ID, late[0].ID)
	assert.Equal(t, domain.TaskStatusPending, f.repo.get(overdue.ID).Status, "overdue is never stored")

	upcoming, err := f.svc.ListUpcoming(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ID, upcoming[0].ID)

	completed, err := f.svc.ListTasksByStatus(ctx, "alice", domain.TaskStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)

	count, err := f.svc.CountTasksByStatus(ctx, "alice", domain.TaskStatusOngoing)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = f.svc.CountTasksByStatus(ctx, "alice", "DONE")
	assert.ErrorIs(t, err, ErrTaskInvalidInput)
}

func TestCreateRoadmapTask(t *testing.T) {
	f := newTaskFixture(t)
	now := f.clock.Now()
	steps := []string{"Tour of Go", "Build a CLI", "Write a service"}

	task, err := f.svc.CreateRoadmapTask(context.Background(), ports.CreateRoadmapInput{
		OwnerID:   "alice",
		Title:     "Learn Go",
		Domain:    "backend",
		Timeframe: "6 months",
		Steps:     steps,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskTypeRoadmap, task.TaskType)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, now, task.StartTime)
	assert.Equal(t, now.AddDate(0, 6, 0), task.EndTime)
	assert.Equal(t, "AI-generated learning roadmap for backend (6 months)", task.Description)

	var data domain.RoadmapData
	require.NoError(t, json.Unmarshal([]byte(task.RoadmapData), &data))
	assert.Equal(t, domain.RoadmapData{Domain: "backend", Timeframe: "6 months", Steps: steps}, data)

	roadmaps, err := f.svc.ListRoadmapTasks(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, roadmaps, 1)
	assert.Equal(t, task.ID, roadmaps[0].ID)
}

func TestCreateRoadmapTask_EncodingFailure(t *testing.T) {
	f := newTaskFixture(t)
	svc := NewTaskService(TaskServiceConfig{
		Repository: f.repo,
		Upcoming:   f.reminder,
		Clock:      f.clock,
		Logger:     testLogger(t),
		Encode:     func(any) ([]byte, error) { return nil, errors.New("boom") },
	})

	_, err := svc.CreateRoadmapTask(context.Background(), ports.CreateRoadmapInput{
		OwnerID: "alice", Title: "Learn Go", Domain: "backend", Timeframe: "6 months",
	})
	assert.ErrorIs(t, err, ErrRoadmapEncoding)
	assert.Empty(t, f.repo.tasks)
}
