package persistence_test

import (
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasker/internal/tasks/domain/value_objects"
	"github.com/felixgeelhaar/tasker/internal/tasks/persistence"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dueDateComparer = cmp.Comparer(func(a, b value_objects.DueDate) bool { return a.Raw() == b.Raw() })

func states(tasks []*task.Task) []task.State {
	out := make([]task.State, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.State())
	}
	return out
}

func sampleTasks(t *testing.T) []*task.Task {
	t.Helper()
	report, err := task.New("Report", "quarterly", value_objects.NewDueDate("2026-10-15"), value_objects.PriorityHigh)
	require.NoError(t, err)
	email, err := task.New("Email", "", value_objects.NoDueDate, value_objects.PriorityLow)
	require.NoError(t, err)
	email.Complete(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))
	odd, err := task.New("Odd date", "kept as typed", value_objects.NewDueDate("Invalid Date"), value_objects.PriorityMedium)
	require.NoError(t, err)
	return []*task.Task{report, email, odd}
}

func warningsText(r persistence.Report) string {
	var parts []string
	for _, w := range r.Warnings {
		parts = append(parts, w.String())
	}
	return strings.Join(parts, "\n")
}

func TestRoundTrip(t *testing.T) {
	original := sampleTasks(t)

	data, err := persistence.Encode(original)
	require.NoError(t, err)
	decoded, report := persistence.Decode(data)

	if diff := cmp.Diff(states(original), states(decoded), dueDateComparer); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	// The only recovery is the unparsable due date, which is kept as text.
	require.Len(t, report.Warnings, 1, warningsText(report))
	assert.Equal(t, "dueDate", report.Warnings[0].Field)
}

func TestRoundTrip_Empty(t *testing.T) {
	data, err := persistence.Encode(nil)
	require.NoError(t, err)

	decoded, report := persistence.Decode(data)

	assert.Empty(t, decoded)
	assert.True(t, report.OK(), warningsText(report))
}

func TestEncode_Format(t *testing.T) {
	tsk, err := task.Rehydrate(task.State{
		ID:        uuid.MustParse("3f1c2c62-9f58-4a7e-9a55-9d0f4f1d6c01"),
		Title:     "Report",
		DueDate:   value_objects.NewDueDate("2026-10-15"),
		Priority:  value_objects.PriorityHigh,
		Status:    task.StatusPending,
		CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	data, err := persistence.Encode([]*task.Task{tsk})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"version": 1,
		"tasks": [{
			"id": "3f1c2c62-9f58-4a7e-9a55-9d0f4f1d6c01",
			"title": "Report",
			"description": "",
			"dueDate": "2026-10-15",
			"priority": "high",
			"status": "pending",
			"createdAt": "2026-10-01T09:00:00Z"
		}]
	}`, string(data))
}

func TestDecode_MalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"not json", "{tasks: oops"},
		{"scalar", `42`},
		{"string", `"tasks"`},
		{"object without tasks", `{"version":1}`},
		{"tasks not a list", `{"version":1,"tasks":{"a":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, report := persistence.Decode([]byte(tt.data))

			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)
			assert.False(t, report.OK())
		})
	}
}

func TestDecode_TolerantDefaults(t *testing.T) {
	data := `{"version":1,"tasks":[
		{"title":"  ", "priority":"urgent", "status":"archived", "dueDate":"soon"},
		{"id":"not-a-uuid", "title":"No priority"},
		"garbage",
		{"id":"3f1c2c62-9f58-4a7e-9a55-9d0f4f1d6c01", "title":"First", "priority":"medium", "status":"done"},
		{"id":"3f1c2c62-9f58-4a7e-9a55-9d0f4f1d6c01", "title":"Second", "priority":"low", "status":"pending", "description": 7}
	]}`

	tasks, report := persistence.Decode([]byte(data))

	require.Len(t, tasks, 4)

	assert.Equal(t, persistence.UntitledTask, tasks[0].Title())
	assert.Equal(t, value_objects.PriorityLow, tasks[0].Priority())
	assert.Equal(t, task.StatusPending, tasks[0].Status())
	assert.Equal(t, "soon", tasks[0].DueDate().Raw())
	assert.False(t, tasks[0].DueDate().IsValid())
	assert.NotEqual(t, uuid.Nil, tasks[0].ID())

	assert.Equal(t, "No priority", tasks[1].Title())
	assert.Equal(t, value_objects.PriorityLow, tasks[1].Priority())
	assert.Equal(t, task.StatusPending, tasks[1].Status())
	assert.False(t, tasks[1].DueDate().IsSet())

	assert.Equal(t, "First", tasks[2].Title())
	assert.True(t, tasks[2].IsDone())
	assert.Equal(t, "3f1c2c62-9f58-4a7e-9a55-9d0f4f1d6c01", tasks[2].ID().String())

	assert.Equal(t, "Second", tasks[3].Title())
	assert.Empty(t, tasks[3].Description())
	assert.NotEqual(t, tasks[2].ID(), tasks[3].ID())

	text := warningsText(report)
	assert.Contains(t, text, "task 2: record is a string, skipped")
	assert.Contains(t, text, "task 4: id: duplicate id")
	assert.Contains(t, text, `task 0: title: missing, using "Untitled task"`)
	assert.Contains(t, text, `task 0: priority: unknown priority "urgent"`)
	assert.Contains(t, text, `task 0: status: unknown status "archived"`)
	assert.Contains(t, text, "task 1: priority: missing, using low")
	assert.Contains(t, text, "task 4: description: expected text")
	assert.Contains(t, text, "schema:")
}

func TestDecode_BareList(t *testing.T) {
	data := `[{"id":"3f1c2c62-9f58-4a7e-9a55-9d0f4f1d6c01","title":"Legacy","priority":"high","status":"pending"}]`

	tasks, report := persistence.Decode([]byte(data))

	require.Len(t, tasks, 1)
	assert.Equal(t, "Legacy", tasks[0].Title())
	assert.Equal(t, value_objects.PriorityHigh, tasks[0].Priority())
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, -1, report.Warnings[0].Record)
}

func TestDecode_WidgetDocument(t *testing.T) {
	data := `[
		{"_titre":"Rapport","_description":"trimestriel","_dateEcheance":"15/10/2026","_priorite":"haute","_statut":"terminee"},
		{"_titre":"Courriel","_description":"","_dateEcheance":"Invalid Date","_priorite":"basse","_statut":"en_cours"}
	]`

	tasks, _ := persistence.Decode([]byte(data))

	require.Len(t, tasks, 2)
	assert.Equal(t, "Rapport", tasks[0].Title())
	assert.Equal(t, "trimestriel", tasks[0].Description())
	assert.Equal(t, value_objects.PriorityHigh, tasks[0].Priority())
	assert.True(t, tasks[0].IsDone())
	due, ok := tasks[0].DueDate().Time()
	require.True(t, ok)
	assert.Equal(t, time.October, due.Month())
	assert.Equal(t, 15, due.Day())

	assert.Equal(t, value_objects.PriorityLow, tasks[1].Priority())
	assert.False(t, tasks[1].IsDone())
	assert.Equal(t, "Invalid Date", tasks[1].DueDate().Raw())
}

func TestDecode_SchemaViolationIsOnlyAWarning(t *testing.T) {
	data := `{"version":1,"tasks":[{"id":"3f1c2c62-9f58-4a7e-9a55-9d0f4f1d6c01","title":"Ok","priority":"low","status":"pending","createdAt":"yesterday"}]}`

	tasks, report := persistence.Decode([]byte(data))

	require.Len(t, tasks, 1)
	assert.Equal(t, "Ok", tasks[0].Title())
	assert.Contains(t, warningsText(report), "schema: /tasks/0/createdAt")
}

func TestDecode_UnknownVersion(t *testing.T) {
	_, report := persistence.Decode([]byte(`{"version":2,"tasks":[]}`))
	assert.Contains(t, warningsText(report), "unsupported document version 2")
}

func TestWarning_String(t *testing.T) {
	assert.Equal(t, "document is empty", persistence.Warning{Record: -1, Message: "document is empty"}.String())
	assert.Equal(t, "task 3: title: missing", persistence.Warning{Record: 3, Field: "title", Message: "missing"}.String())
}
