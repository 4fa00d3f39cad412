package task_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	due := value_objects.NewDueDate("2026-10-15")

	tsk, err := task.New("Report", "quarterly numbers", due, value_objects.PriorityHigh)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tsk.ID())
	assert.Equal(t, "Report", tsk.Title())
	assert.Equal(t, "quarterly numbers", tsk.Description())
	assert.Equal(t, due, tsk.DueDate())
	assert.Equal(t, value_objects.PriorityHigh, tsk.Priority())
	assert.Equal(t, task.StatusPending, tsk.Status())
	assert.False(t, tsk.IsDone())
	assert.Nil(t, tsk.CompletedAt())
}

func TestNew_EmitsCreatedEvent(t *testing.T) {
	tsk, err := task.New("Email", "", value_objects.NoDueDate, value_objects.PriorityLow)
	require.NoError(t, err)

	events := tsk.DomainEvents()
	require.Len(t, events, 1)

	created, ok := events[0].(task.TaskCreated)
	require.True(t, ok)
	assert.Equal(t, tsk.ID(), created.AggregateID())
	assert.Equal(t, task.RoutingKeyCreated, created.RoutingKey())
	assert.Equal(t, "Email", created.Title)
	assert.Equal(t, "low", created.Priority)
}

func TestNew_EmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		t.Run(title, func(t *testing.T) {
			_, err := task.New(title, "desc", value_objects.NoDueDate, value_objects.PriorityLow)

			require.Error(t, err)
			assert.ErrorIs(t, err, task.ErrEmptyTitle)

			var ve *task.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "title", ve.Field)
		})
	}
}

func TestNew_InvalidPriority(t *testing.T) {
	_, err := task.New("Title", "", value_objects.NoDueDate, value_objects.Priority(9))
	assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
}

func TestNew_TrimsTitle(t *testing.T) {
	tsk, err := task.New("  Test Task  ", "  notes ", value_objects.NoDueDate, value_objects.PriorityLow)

	require.NoError(t, err)
	assert.Equal(t, "Test Task", tsk.Title())
	assert.Equal(t, "notes", tsk.Description())
}

func TestTask_Complete(t *testing.T) {
	tsk, _ := task.New("Test", "", value_objects.NoDueDate, value_objects.PriorityLow)
	tsk.PullDomainEvents()

	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	tsk.Complete(at)

	assert.True(t, tsk.IsDone())
	assert.Equal(t, task.StatusDone, tsk.Status())
	require.NotNil(t, tsk.CompletedAt())
	assert.Equal(t, at, *tsk.CompletedAt())

	events := tsk.PullDomainEvents()
	require.Len(t, events, 1)
	completed, ok := events[0].(task.TaskCompleted)
	require.True(t, ok)
	assert.Equal(t, "Test", completed.Title)
	assert.Equal(t, task.RoutingKeyCompleted, completed.RoutingKey())
}

func TestTask_Complete_Idempotent(t *testing.T) {
	tsk, _ := task.New("Test", "", value_objects.NoDueDate, value_objects.PriorityLow)
	tsk.Complete(time.Now())
	first := tsk.State()
	tsk.PullDomainEvents()

	tsk.Complete(time.Now())

	assert.Equal(t, first, tsk.State())
	assert.Empty(t, tsk.DomainEvents())
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		due      value_objects.DueDate
		done     bool
		expected bool
	}{
		{"past and pending", value_objects.DueAt(now.Add(-time.Hour)), false, true},
		{"past and done", value_objects.DueAt(now.Add(-time.Hour)), true, false},
		{"future", value_objects.DueAt(now.Add(time.Hour)), false, false},
		{"exactly now", value_objects.DueAt(now), false, false},
		{"no due date", value_objects.NoDueDate, false, false},
		{"unparsable", value_objects.NewDueDate("Invalid Date"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsk, err := task.New("Test", "", tt.due, value_objects.PriorityMedium)
			require.NoError(t, err)
			if tt.done {
				tsk.Complete(time.Now())
			}
			assert.Equal(t, tt.expected, tsk.IsOverdue(now))
		})
	}
}

func TestRehydrate_RoundTripsState(t *testing.T) {
	completed := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	state := task.State{
		ID:          uuid.New(),
		Title:       "Stored",
		Description: "from disk",
		DueDate:     value_objects.NewDueDate("2026-10-20"),
		Priority:    value_objects.PriorityMedium,
		Status:      task.StatusDone,
		CreatedAt:   time.Date(2026, 9, 30, 8, 0, 0, 0, time.UTC),
		CompletedAt: &completed,
	}

	tsk, err := task.Rehydrate(state)

	require.NoError(t, err)
	assert.Equal(t, state, tsk.State())
	assert.Empty(t, tsk.DomainEvents())
}

func TestRehydrate_EmptyTitle(t *testing.T) {
	_, err := task.Rehydrate(task.State{ID: uuid.New(), Title: " "})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)
}

func TestTask_CloneIsIndependent(t *testing.T) {
	tsk, _ := task.New("Original", "", value_objects.NoDueDate, value_objects.PriorityHigh)

	clone := tsk.Clone()
	clone.Complete(time.Now())

	assert.Equal(t, tsk.ID(), clone.ID())
	assert.False(t, tsk.IsDone())
	assert.True(t, clone.IsDone())
}

func TestParseStatus(t *testing.T) {
	s, err := task.ParseStatus("DONE")
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, s)

	s, err = task.ParseStatus("terminee")
	assert.ErrorIs(t, err, task.ErrInvalidStatus)
	assert.Equal(t, task.StatusPending, s)
}

func TestIndexError(t *testing.T) {
	err := &task.IndexError{Index: 5, Len: 2}
	assert.Equal(t, "task index 5 out of range [0, 2)", err.Error())
}
