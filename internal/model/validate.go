package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field string
	Msg   string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (d Duration) Validate(field string) error {
	if d.Hours < 0 {
		return NewValidationError(field+".hours", "must not be negative")
	}
	if d.Minutes < 0 || d.Minutes > 59 {
		return NewValidationError(field+".minutes", "must be between 0 and 59")
	}
	return nil
}

// Validate checks interval, end date and weekdays. The type is not checked:
// the expander advances unrecognized types one day at a time.
func (r Recurrence) Validate() error {
	if r.Interval < 1 {
		return NewValidationError("recurrence.interval", "must be at least 1")
	}
	if r.EndDate != nil {
		if _, err := ParseDate(*r.EndDate); err != nil {
			return NewValidationError("recurrence.endDate", "must be YYYY-MM-DD")
		}
	}
	for _, d := range r.CustomDays {
		if d < 0 || d > 6 {
			return NewValidationError("recurrence.customDays", fmt.Sprintf("weekday %d out of range 0-6", d))
		}
	}
	return nil
}

// Validate checks the fields a stored task must satisfy.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	if _, err := ParseDate(t.Date); err != nil {
		return NewValidationError("date", "must be YYYY-MM-DD")
	}
	if t.Time != "" {
		if _, err := ParseClock(t.Time); err != nil {
			return NewValidationError("time", "must be HH:MM")
		}
	}
	if !t.Category.Valid() {
		return NewValidationError("category", fmt.Sprintf("unknown value %q", t.Category))
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", fmt.Sprintf("unknown value %q", t.Priority))
	}
	if !t.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("unknown value %q", t.Status))
	}
	if t.Completed != (t.Status == StatusCompleted) {
		return NewValidationError("completed", "must match status")
	}
	if t.Duration != nil {
		if err := t.Duration.Validate("duration"); err != nil {
			return err
		}
	}
	if t.ActualTimeSpent != nil {
		if err := t.ActualTimeSpent.Validate("actualTimeSpent"); err != nil {
			return err
		}
	}
	if t.Recurrence != nil {
		if err := t.Recurrence.Validate(); err != nil {
			return err
		}
	}
	seen := make(map[TaskID]bool, len(t.Dependencies))
	for _, d := range t.Dependencies {
		switch {
		case d.ID == "":
			return NewValidationError("dependencies", "dependency id must not be empty")
		case t.ID != "" && d.ID == t.ID:
			return NewValidationError("dependencies", "task cannot depend on itself")
		case seen[d.ID]:
			return NewValidationError("dependencies", fmt.Sprintf("duplicate dependency %q", d.ID))
		}
		seen[d.ID] = true
	}
	return nil
}
