package model

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryWork           Category = "Work"
	CategoryPersonalGrowth Category = "Personal Growth"
	CategoryLearning       Category = "Learning"
	CategoryHealth         Category = "Health"
	CategorySocial         Category = "Social"
	CategoryOther          Category = "Other"
)

var Categories = []Category{
	CategoryWork,
	CategoryPersonalGrowth,
	CategoryLearning,
	CategoryHealth,
	CategorySocial,
	CategoryOther,
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On Hold"
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold}

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "Daily"
	RecurrenceWeekly  RecurrenceType = "Weekly"
	RecurrenceMonthly RecurrenceType = "Monthly"
	RecurrenceCustom  RecurrenceType = "Custom"
)

var RecurrenceTypes = []RecurrenceType{RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom}

func (c Category) Valid() bool       { return contains(Categories, c) }
func (p Priority) Valid() bool       { return contains(Priorities, p) }
func (s Status) Valid() bool         { return contains(Statuses, s) }
func (r RecurrenceType) Valid() bool { return contains(RecurrenceTypes, r) }

// ParseCategory accepts the display label ("Personal Growth") as well as
// identifier spellings like "personal_growth" or "PersonalGrowth".
func ParseCategory(s string) (Category, error) {
	return parseEnum("category", s, Categories)
}

func ParsePriority(s string) (Priority, error) {
	return parseEnum("priority", s, Priorities)
}

func ParseStatus(s string) (Status, error) {
	return parseEnum("status", s, Statuses)
}

func ParseRecurrenceType(s string) (RecurrenceType, error) {
	return parseEnum("recurrence.type", s, RecurrenceTypes)
}

func parseEnum[T ~string](field, s string, all []T) (T, error) {
	want := fold(s)
	for _, v := range all {
		if fold(string(v)) == want {
			return v, nil
		}
	}
	var zero T
	return zero, NewValidationError(field, fmt.Sprintf("unknown value %q", s))
}

func fold(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

func contains[T comparable](all []T, v T) bool {
	for _, x := range all {
		if x == v {
			return true
		}
	}
	return false
}
