package task

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

type ListFilter struct {
	// Status:
	//   "" | "all" | "pending" | "completed" | "overdue" | "<status label>"
	Status string

	// Category and Priority match labels leniently; "" means any.
	Category string
	Priority string

	// Tag matches exactly.
	Tag string

	// From and To bound Date inclusively (YYYY-MM-DD).
	From string
	To   string

	// Query is a case-insensitive substring of title or description.
	Query string

	// Today anchors "overdue". Zero means the store clock.
	Today time.Time
}

// List returns every task matching filter, ordered by date, time and creation.
func (s *Store) List(filter ListFilter) ([]model.Task, error) {
	today := filter.Today
	if today.IsZero() {
		today = s.now()
	}
	todayStr := model.FormatDate(today)

	var (
		category model.Category
		priority model.Priority
		status   model.Status
	)
	if c := strings.TrimSpace(filter.Category); c != "" {
		v, err := model.ParseCategory(c)
		if err != nil {
			return nil, err
		}
		category = v
	}
	if p := strings.TrimSpace(filter.Priority); p != "" {
		v, err := model.ParsePriority(p)
		if err != nil {
			return nil, err
		}
		priority = v
	}
	mode := strings.ToLower(strings.TrimSpace(filter.Status))
	switch mode {
	case "", "all", "pending", "completed", "overdue":
	default:
		v, err := model.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		status = v
		mode = "status"
	}
	from, err := filterDate("from", filter.From)
	if err != nil {
		return nil, err
	}
	to, err := filterDate("to", filter.To)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	matches := func(t model.Task) bool {
		switch mode {
		case "pending":
			if t.Completed {
				return false
			}
		case "completed":
			if !t.Completed {
				return false
			}
		case "overdue":
			// YYYY-MM-DD compares lexicographically
			if t.Completed || t.Date >= todayStr {
				return false
			}
		case "status":
			if t.Status != status {
				return false
			}
		}
		if category != "" && t.Category != category {
			return false
		}
		if priority != "" && t.Priority != priority {
			return false
		}
		if filter.Tag != "" && !t.HasTag(filter.Tag) {
			return false
		}
		if from != "" && t.Date < from {
			return false
		}
		if to != "" && t.Date > to {
			return false
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			return false
		}
		return true
	}

	out := []model.Task{}
	for _, t := range s.AllTasks() {
		if matches(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, compareSchedule)
	return out, nil
}

// filterDate normalizes an optional date bound so it compares against task dates.
func filterDate(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return "", model.NewValidationError(field, "must be YYYY-MM-DD")
	}
	return model.FormatDate(d), nil
}

// compareSchedule orders by date, then time with untimed tasks last, then creation.
func compareSchedule(a, b model.Task) int {
	if c := cmp.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	switch {
	case a.Time == "" && b.Time != "":
		return 1
	case a.Time != "" && b.Time == "":
		return -1
	}
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

type Day struct {
	Date  string       `json:"date"`
	Tasks []model.Task `json:"tasks"`
}

// Week is the seven days starting on the Sunday on or before a date.
type Week struct {
	Start string `json:"start"`
	Days  [7]Day `json:"days"`
}

func (s *Store) Week(date string) (Week, error) {
	d, err := model.ParseDate(date)
	if err != nil {
		return Week{}, model.NewValidationError("date", "must be YYYY-MM-DD")
	}
	start := d.AddDate(0, 0, -int(d.Weekday()))
	end := start.AddDate(0, 0, 6)

	tasks, err := s.List(ListFilter{From: model.FormatDate(start), To: model.FormatDate(end)})
	if err != nil {
		return Week{}, err
	}

	w := Week{Start: model.FormatDate(start)}
	for i := range w.Days {
		w.Days[i] = Day{Date: model.FormatDate(start.AddDate(0, 0, i)), Tasks: []model.Task{}}
	}
	for _, t := range tasks {
		td, err := model.ParseDate(t.Date)
		if err != nil {
			continue
		}
		i := int(td.Sub(start).Hours() / 24)
		if i >= 0 && i < len(w.Days) {
			w.Days[i].Tasks = append(w.Days[i].Tasks, t)
		}
	}
	return w, nil
}
