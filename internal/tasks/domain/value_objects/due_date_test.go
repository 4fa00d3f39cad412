package value_objects_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/tasker/internal/tasks/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueDate_Layouts(t *testing.T) {
	tests := []struct {
		raw      string
		expected time.Time
	}{
		{"2026-10-15", time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local)},
		{"2026-10-15T14:30:00Z", time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)},
		{"2026-10-15T14:30", time.Date(2026, 10, 15, 14, 30, 0, 0, time.Local)},
		{"15/10/2026", time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d := value_objects.NewDueDate(tt.raw)
			got, ok := d.Time()
			require.True(t, ok)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
			assert.Equal(t, tt.raw, d.Raw())
		})
	}
}

func TestDueDate_InvalidKeepsRaw(t *testing.T) {
	d := value_objects.NewDueDate("Invalid Date")

	assert.True(t, d.IsSet())
	assert.False(t, d.IsValid())
	assert.Equal(t, "Invalid Date", d.Raw())
	assert.Equal(t, "Invalid Date", d.String())
	assert.False(t, d.Before(time.Now()))
}

func TestDueDate_Unset(t *testing.T) {
	d := value_objects.NewDueDate("   ")
	assert.False(t, d.IsSet())
	assert.False(t, d.IsValid())
	assert.Equal(t, value_objects.NoDueDate, d)
}

func TestParseDueDate(t *testing.T) {
	d, err := value_objects.ParseDueDate("2026-12-24")
	require.NoError(t, err)
	assert.Equal(t, "2026-12-24", d.String())

	d, err = value_objects.ParseDueDate("")
	require.NoError(t, err)
	assert.False(t, d.IsSet())

	_, err = value_objects.ParseDueDate("next tuesday-ish")
	assert.ErrorIs(t, err, value_objects.ErrInvalidDueDate)
}

func TestDueDate_Before(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	assert.True(t, value_objects.DueAt(now.Add(-time.Hour)).Before(now))
	assert.False(t, value_objects.DueAt(now).Before(now))
	assert.False(t, value_objects.DueAt(now.Add(time.Hour)).Before(now))
}

func TestDueOn_FormatsDateOnly(t *testing.T) {
	d := value_objects.DueOn(time.Date(2026, 3, 9, 17, 45, 0, 0, time.Local))
	assert.Equal(t, "2026-03-09", d.Raw())
	assert.Equal(t, "2026-03-09", d.String())
}

func TestDueDate_IsDateOnly(t *testing.T) {
	assert.True(t, value_objects.NewDueDate("2026-11-02").IsDateOnly())
	assert.True(t, value_objects.NewDueDate("02/11/2026").IsDateOnly())
	assert.False(t, value_objects.NewDueDate("2026-11-02T09:00:00Z").IsDateOnly())
	assert.False(t, value_objects.NewDueDate("soon").IsDateOnly())
	assert.False(t, value_objects.NoDueDate.IsDateOnly())
}
