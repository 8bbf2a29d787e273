package analytics

import "github.com/BhaveshVarma1/Nirmaan/internal/model"

type Quadrant string

const (
	UrgentImportant       Quadrant = "urgentImportant"
	UrgentNotImportant    Quadrant = "urgentNotImportant"
	NotUrgentImportant    Quadrant = "notUrgentImportant"
	NotUrgentNotImportant Quadrant = "notUrgentNotImportant"
)

// Matrix is the Eisenhower partition of a task list. Each quadrant keeps the
// input order.
type Matrix struct {
	UrgentImportant       []model.Task `json:"urgentImportant"`
	UrgentNotImportant    []model.Task `json:"urgentNotImportant"`
	NotUrgentImportant    []model.Task `json:"notUrgentImportant"`
	NotUrgentNotImportant []model.Task `json:"notUrgentNotImportant"`
}

func quadrantOf(t model.Task) Quadrant {
	switch {
	case t.Urgency && t.Importance:
		return UrgentImportant
	case t.Urgency:
		return UrgentNotImportant
	case t.Importance:
		return NotUrgentImportant
	default:
		return NotUrgentNotImportant
	}
}

func Partition(tasks []model.Task) Matrix {
	m := Matrix{
		UrgentImportant:       []model.Task{},
		UrgentNotImportant:    []model.Task{},
		NotUrgentImportant:    []model.Task{},
		NotUrgentNotImportant: []model.Task{},
	}
	for _, t := range tasks {
		switch quadrantOf(t) {
		case UrgentImportant:
			m.UrgentImportant = append(m.UrgentImportant, t)
		case UrgentNotImportant:
			m.UrgentNotImportant = append(m.UrgentNotImportant, t)
		case NotUrgentImportant:
			m.NotUrgentImportant = append(m.NotUrgentImportant, t)
		default:
			m.NotUrgentNotImportant = append(m.NotUrgentNotImportant, t)
		}
	}
	return m
}
