package model

import (
	"slices"
	"time"
)

type TaskID string

type GroupID string

type Duration struct {
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

// TotalMinutes returns the duration flattened to minutes.
func (d Duration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

func (d Duration) IsZero() bool {
	return d.Hours == 0 && d.Minutes == 0
}

// Dependency is a cached copy of another task's id, title and completion.
// It is not a live reference: the store refreshes it when the target changes.
type Dependency struct {
	ID        TaskID `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Milestone struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"dueDate,omitempty"`
}

type Recurrence struct {
	Type       RecurrenceType `json:"type" yaml:"type"`
	Interval   int            `json:"interval" yaml:"interval"`
	EndDate    *string        `json:"endDate,omitempty" yaml:"end_date,omitempty"`
	CustomDays []int          `json:"customDays,omitempty" yaml:"custom_days,omitempty"`
}

type Task struct {
	ID          TaskID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`

	Category Category `json:"category"`
	Priority Priority `json:"priority"`
	Status   Status   `json:"status"`

	Completed       bool      `json:"completed"`
	Duration        *Duration `json:"duration,omitempty"`
	ActualTimeSpent *Duration `json:"actualTimeSpent,omitempty"`
	Urgency         bool      `json:"urgency"`
	Importance      bool      `json:"importance"`

	Milestones   []Milestone  `json:"milestones,omitempty"`
	Dependencies []Dependency `json:"dependencies"`
	Tags         []string     `json:"tags,omitempty"`
	Recurrence   *Recurrence  `json:"recurrence,omitempty"`
	TemplateID   string       `json:"templateId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTask returns a task with the construction defaults applied.
func NewTask(title string, category Category, date string, now time.Time) Task {
	return Task{
		Title:        title,
		Date:         date,
		Category:     category,
		Priority:     PriorityMedium,
		Status:       StatusNotStarted,
		Dependencies: []Dependency{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (t *Task) touch(now time.Time) {
	t.UpdatedAt = now
}

// SetCompleted flips completion and keeps Status in step with it.
// Clearing completion only resets Status when it was Completed.
func (t *Task) SetCompleted(done bool, now time.Time) {
	t.Completed = done
	if done {
		t.Status = StatusCompleted
	} else if t.Status == StatusCompleted || t.Status == "" {
		t.Status = StatusNotStarted
	}
	t.touch(now)
}

// SetStatus sets Status and derives Completed from it.
func (t *Task) SetStatus(s Status, now time.Time) {
	t.Status = s
	t.Completed = s == StatusCompleted
	t.touch(now)
}

func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// DependsOn reports whether t carries a dependency entry for id.
func (t *Task) DependsOn(id TaskID) bool {
	return slices.ContainsFunc(t.Dependencies, func(d Dependency) bool { return d.ID == id })
}

// Clone returns a deep copy so callers never share slices with the store.
func (t Task) Clone() Task {
	out := t
	if t.Duration != nil {
		d := *t.Duration
		out.Duration = &d
	}
	if t.ActualTimeSpent != nil {
		d := *t.ActualTimeSpent
		out.ActualTimeSpent = &d
	}
	if t.Milestones != nil {
		out.Milestones = make([]Milestone, len(t.Milestones))
		for i, m := range t.Milestones {
			if m.DueDate != nil {
				d := *m.DueDate
				m.DueDate = &d
			}
			out.Milestones[i] = m
		}
	}
	out.Dependencies = slices.Clone(t.Dependencies)
	if out.Dependencies == nil {
		out.Dependencies = []Dependency{}
	}
	out.Tags = slices.Clone(t.Tags)
	if t.Recurrence != nil {
		r := *t.Recurrence
		r.CustomDays = slices.Clone(t.Recurrence.CustomDays)
		if t.Recurrence.EndDate != nil {
			e := *t.Recurrence.EndDate
			r.EndDate = &e
		}
		out.Recurrence = &r
	}
	return out
}
