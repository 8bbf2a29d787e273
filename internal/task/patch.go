package task

import (
	"slices"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

// Patch represents a partial update.
// nil pointer => "no change"
// empty Time => clear; zero Duration / ActualTimeSpent => clear
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`

	Category  *model.Category `json:"category,omitempty"`
	Priority  *model.Priority `json:"priority,omitempty"`
	Status    *model.Status   `json:"status,omitempty"`
	Completed *bool           `json:"completed,omitempty"`

	Duration        *model.Duration `json:"duration,omitempty"`
	ActualTimeSpent *model.Duration `json:"actualTimeSpent,omitempty"`
	Urgency         *bool           `json:"urgency,omitempty"`
	Importance      *bool           `json:"importance,omitempty"`

	Tags         *[]string           `json:"tags,omitempty"`
	Dependencies *[]model.Dependency `json:"dependencies,omitempty"`
	Milestones   *[]model.Milestone  `json:"milestones,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

func applyPatch(t *model.Task, p Patch) error {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Time != nil {
		t.Time = *p.Time
	}

	if p.Category != nil {
		c, err := model.ParseCategory(string(*p.Category))
		if err != nil {
			return err
		}
		t.Category = c
	}
	if p.Priority != nil {
		pr, err := model.ParsePriority(string(*p.Priority))
		if err != nil {
			return err
		}
		t.Priority = pr
	}

	// completed and status are one fact; a patch naming both must agree
	var status *model.Status
	if p.Status != nil {
		st, err := model.ParseStatus(string(*p.Status))
		if err != nil {
			return err
		}
		status = &st
	}
	switch {
	case status != nil && p.Completed != nil && *p.Completed != (*status == model.StatusCompleted):
		return model.NewValidationError("completed", "conflicts with status")
	case status != nil:
		t.Status = *status
		t.Completed = *status == model.StatusCompleted
	case p.Completed != nil:
		t.Completed = *p.Completed
		if t.Completed {
			t.Status = model.StatusCompleted
		} else if t.Status == model.StatusCompleted {
			t.Status = model.StatusNotStarted
		}
	}

	if p.Duration != nil {
		if p.Duration.IsZero() {
			t.Duration = nil
		} else {
			d := *p.Duration
			t.Duration = &d
		}
	}
	if p.ActualTimeSpent != nil {
		if p.ActualTimeSpent.IsZero() {
			t.ActualTimeSpent = nil
		} else {
			d := *p.ActualTimeSpent
			t.ActualTimeSpent = &d
		}
	}
	if p.Urgency != nil {
		t.Urgency = *p.Urgency
	}
	if p.Importance != nil {
		t.Importance = *p.Importance
	}

	if p.Tags != nil {
		t.Tags = slices.Clone(*p.Tags)
	}
	if p.Dependencies != nil {
		t.Dependencies = slices.Clone(*p.Dependencies)
		if t.Dependencies == nil {
			t.Dependencies = []model.Dependency{}
		}
	}
	if p.Milestones != nil {
		t.Milestones = slices.Clone(*p.Milestones)
	}
	return nil
}

// normalizeTask canonicalizes enum spellings and nil slices.
// Values that do not parse are left for Validate to report.
func normalizeTask(t *model.Task) {
	if c, err := model.ParseCategory(string(t.Category)); err == nil {
		t.Category = c
	}
	if p, err := model.ParsePriority(string(t.Priority)); err == nil {
		t.Priority = p
	}
	if s, err := model.ParseStatus(string(t.Status)); err == nil {
		t.Status = s
	}
	if t.Recurrence != nil {
		if r, err := model.ParseRecurrenceType(string(t.Recurrence.Type)); err == nil {
			t.Recurrence.Type = r
		}
	}
	if t.Dependencies == nil {
		t.Dependencies = []model.Dependency{}
	}
}
