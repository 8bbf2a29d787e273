package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewTask_Defaults(t *testing.T) {
	task := NewTask("Write report", CategoryWork, "2024-03-01", now)

	assert.Equal(t, StatusNotStarted, task.Status)
	assert.False(t, task.Completed)
	assert.False(t, task.Urgency)
	assert.False(t, task.Importance)
	assert.Empty(t, task.Dependencies)
	assert.NotNil(t, task.Dependencies)
	assert.Equal(t, now, task.CreatedAt)
	assert.Equal(t, now, task.UpdatedAt)
	assert.NoError(t, task.Validate())
}

func TestSetCompleted_KeepsStatusInStep(t *testing.T) {
	task := NewTask("a", CategoryWork, "2024-03-01", now)

	task.SetCompleted(true, now)
	assert.Equal(t, StatusCompleted, task.Status)

	task.SetCompleted(false, now)
	assert.Equal(t, StatusNotStarted, task.Status)

	task.SetStatus(StatusInProgress, now)
	task.SetCompleted(false, now)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.False(t, task.Completed)
}

func TestSetStatus_DerivesCompleted(t *testing.T) {
	task := NewTask("a", CategoryWork, "2024-03-01", now)

	task.SetStatus(StatusCompleted, now)
	assert.True(t, task.Completed)

	task.SetStatus(StatusOnHold, now)
	assert.False(t, task.Completed)
}

func TestValidate(t *testing.T) {
	base := NewTask("a", CategoryWork, "2024-03-01", now)
	base.ID = "t1"

	tests := []struct {
		name  string
		mut   func(*Task)
		field string
	}{
		{"empty title", func(t *Task) { t.Title = "  " }, "title"},
		{"bad date", func(t *Task) { t.Date = "03/01/2024" }, "date"},
		{"bad time", func(t *Task) { t.Time = "9am" }, "time"},
		{"bad category", func(t *Task) { t.Category = "Chores" }, "category"},
		{"status mismatch", func(t *Task) { t.Completed = true }, "completed"},
		{"minutes out of range", func(t *Task) { t.Duration = &Duration{Hours: 1, Minutes: 60} }, "duration.minutes"},
		{"zero interval", func(t *Task) { t.Recurrence = &Recurrence{Type: RecurrenceDaily} }, "recurrence.interval"},
		{"bad custom day", func(t *Task) {
			t.Recurrence = &Recurrence{Type: RecurrenceCustom, Interval: 1, CustomDays: []int{7}}
		}, "recurrence.customDays"},
		{"self dependency", func(t *Task) { t.Dependencies = []Dependency{{ID: "t1"}} }, "dependencies"},
		{"duplicate dependency", func(t *Task) { t.Dependencies = []Dependency{{ID: "x"}, {ID: "x"}} }, "dependencies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := base.Clone()
			tt.mut(&task)

			err := task.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestRecurrenceValidate_AcceptsUnknownType(t *testing.T) {
	assert.NoError(t, Recurrence{Type: "Yearly", Interval: 1}.Validate())
	assert.ErrorIs(t, Recurrence{Type: "Yearly"}.Validate(), ErrValidation)
}

func TestParseCategory(t *testing.T) {
	for _, in := range []string{"Personal Growth", "personal_growth", "PersonalGrowth", " personal-growth "} {
		c, err := ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, CategoryPersonalGrowth, c)
	}

	_, err := ParseCategory("chores")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClone_DoesNotShare(t *testing.T) {
	end := "2024-04-01"
	task := NewTask("a", CategoryWork, "2024-03-01", now)
	task.Tags = []string{"x"}
	task.Duration = &Duration{Hours: 1}
	task.Dependencies = []Dependency{{ID: "d", Title: "dep"}}
	task.Recurrence = &Recurrence{Type: RecurrenceCustom, Interval: 1, EndDate: &end, CustomDays: []int{1}}

	c := task.Clone()
	c.Tags[0] = "y"
	c.Duration.Hours = 5
	c.Dependencies[0].Completed = true
	c.Recurrence.CustomDays[0] = 3
	*c.Recurrence.EndDate = "2025-01-01"

	assert.Equal(t, "x", task.Tags[0])
	assert.Equal(t, 1, task.Duration.Hours)
	assert.False(t, task.Dependencies[0].Completed)
	assert.Equal(t, 1, task.Recurrence.CustomDays[0])
	assert.Equal(t, "2024-04-01", *task.Recurrence.EndDate)
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	start, err := ParseDate("2024-01-31")
	require.NoError(t, err)

	assert.Equal(t, "2024-02-29", FormatDate(AddMonths(start, 1)))
	assert.Equal(t, "2024-03-31", FormatDate(AddMonths(start, 2)))
	assert.Equal(t, "2024-04-30", FormatDate(AddMonths(start, 3)))
	assert.Equal(t, "2023-12-31", FormatDate(AddMonths(start, -1)))
}
