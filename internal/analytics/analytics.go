// Package analytics summarizes a set of tasks.
package analytics

import (
	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

type MatrixCounts struct {
	UrgentImportant       int `json:"urgentImportant"`
	UrgentNotImportant    int `json:"urgentNotImportant"`
	NotUrgentImportant    int `json:"notUrgentImportant"`
	NotUrgentNotImportant int `json:"notUrgentNotImportant"`
}

type Summary struct {
	TotalTasks       int            `json:"totalTasks"`
	CompletedTasks   int            `json:"completedTasks"`
	CompletionRate   float64        `json:"completionRate"`
	TotalTimeSpent   model.Duration `json:"totalTimeSpent"`
	AverageTimeSpent model.Duration `json:"averageTimeSpent"`

	ByCategory map[model.Category]int `json:"byCategory"`
	ByPriority map[model.Priority]int `json:"byPriority"`
	ByStatus   map[model.Status]int   `json:"byStatus"`

	Matrix MatrixCounts `json:"matrix"`
}

// Compute builds a Summary. Every known category, priority and status has an
// entry, zero included. Average time spent is taken over all tasks, with
// minutes carried into hours.
func Compute(tasks []model.Task) Summary {
	s := Summary{
		TotalTasks: len(tasks),
		ByCategory: make(map[model.Category]int, len(model.Categories)),
		ByPriority: make(map[model.Priority]int, len(model.Priorities)),
		ByStatus:   make(map[model.Status]int, len(model.Statuses)),
	}
	for _, c := range model.Categories {
		s.ByCategory[c] = 0
	}
	for _, p := range model.Priorities {
		s.ByPriority[p] = 0
	}
	for _, st := range model.Statuses {
		s.ByStatus[st] = 0
	}

	minutes := 0
	for _, t := range tasks {
		if t.Completed {
			s.CompletedTasks++
		}
		if t.ActualTimeSpent != nil {
			minutes += t.ActualTimeSpent.TotalMinutes()
		}
		s.ByCategory[t.Category]++
		s.ByPriority[t.Priority]++
		s.ByStatus[t.Status]++

		switch quadrantOf(t) {
		case UrgentImportant:
			s.Matrix.UrgentImportant++
		case UrgentNotImportant:
			s.Matrix.UrgentNotImportant++
		case NotUrgentImportant:
			s.Matrix.NotUrgentImportant++
		default:
			s.Matrix.NotUrgentNotImportant++
		}
	}

	s.TotalTimeSpent = fromMinutes(minutes)
	if s.TotalTasks > 0 {
		s.CompletionRate = float64(s.CompletedTasks) / float64(s.TotalTasks) * 100
		s.AverageTimeSpent = fromMinutes(minutes / s.TotalTasks)
	}
	return s
}

func fromMinutes(m int) model.Duration {
	return model.Duration{Hours: m / 60, Minutes: m % 60}
}
