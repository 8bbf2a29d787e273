package task

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

const (
	icsDateLayout     = "20060102"
	icsDateTimeLayout = "20060102T150405"
)

var icsWeekdays = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// BuildTaskCalendarICS builds an iCalendar document for a single task.
func BuildTaskCalendarICS(t model.Task, now time.Time) (string, error) {
	return BuildCalendarICS([]model.Task{t}, now)
}

// BuildCalendarICS builds one VEVENT per task. Timed tasks start at their
// clock time (floating, no zone) and end after their duration when one is set;
// untimed tasks become all-day events.
func BuildCalendarICS(tasks []model.Task, now time.Time) (string, error) {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Nirmaan//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	for _, t := range tasks {
		ev, err := taskEvent(t, now)
		if err != nil {
			return "", err
		}
		lines = append(lines, ev...)
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n"), nil
}

func taskEvent(t model.Task, now time.Time) ([]string, error) {
	day, err := model.ParseDate(strings.TrimSpace(t.Date))
	if err != nil {
		return nil, model.NewValidationError("date", "task date must be YYYY-MM-DD")
	}

	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "Nirmaan Task"
	}
	uid := fmt.Sprintf("task-%s@nirmaan", strings.TrimSpace(string(t.ID)))
	if strings.TrimSpace(string(t.ID)) == "" {
		uid = fmt.Sprintf("task-export-%d@nirmaan", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeICSText(title),
	}

	if t.Time != "" {
		clock, err := model.ParseClock(t.Time)
		if err != nil {
			return nil, model.NewValidationError("time", "task time must be HH:MM")
		}
		start := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		lines = append(lines, "DTSTART:"+start.Format(icsDateTimeLayout))
		if t.Duration != nil && !t.Duration.IsZero() {
			end := start.Add(time.Duration(t.Duration.TotalMinutes()) * time.Minute)
			lines = append(lines, "DTEND:"+end.Format(icsDateTimeLayout))
		}
	} else {
		lines = append(lines,
			"DTSTART;VALUE=DATE:"+day.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+day.AddDate(0, 0, 1).Format(icsDateLayout),
		)
	}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	lines = append(lines, "CATEGORIES:"+escapeICSText(string(t.Category)))
	lines = append(lines, fmt.Sprintf("PRIORITY:%d", icsPriority(t.Priority)))
	if rrule := recurrenceToICSRRULE(t.Recurrence, t.Time != ""); rrule != "" {
		lines = append(lines, "RRULE:"+rrule)
	}
	return append(lines, "END:VEVENT"), nil
}

// icsPriority maps to RFC 5545 priorities: 1 highest, 9 lowest.
func icsPriority(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 1
	case model.PriorityLow:
		return 9
	default:
		return 5
	}
}

// recurrenceToICSRRULE renders a template's recurrence. Stored instances carry
// none. UNTIL is inclusive in RFC 5545, so it names the day before EndDate and
// matches DTSTART's value type.
func recurrenceToICSRRULE(rec *model.Recurrence, timed bool) string {
	if rec == nil {
		return ""
	}
	interval := rec.Interval
	if interval <= 0 {
		interval = 1
	}

	rule := fmt.Sprintf("FREQ=DAILY;INTERVAL=%d", interval)
	switch rec.Type {
	case model.RecurrenceWeekly:
		rule = fmt.Sprintf("FREQ=WEEKLY;INTERVAL=%d", interval)
	case model.RecurrenceMonthly:
		rule = fmt.Sprintf("FREQ=MONTHLY;INTERVAL=%d", interval)
	case model.RecurrenceCustom:
		days := slices.Clone(rec.CustomDays)
		slices.Sort(days)
		days = slices.Compact(days)
		by := make([]string, 0, len(days))
		for _, d := range days {
			if d >= 0 && d < len(icsWeekdays) {
				by = append(by, icsWeekdays[d])
			}
		}
		if len(by) > 0 {
			rule = fmt.Sprintf("FREQ=WEEKLY;INTERVAL=%d;BYDAY=%s", interval, strings.Join(by, ","))
		}
	}

	if rec.EndDate != nil {
		if end, err := model.ParseDate(*rec.EndDate); err == nil {
			last := end.AddDate(0, 0, -1)
			if timed {
				rule += ";UNTIL=" + last.Format(icsDateLayout) + "T235959"
			} else {
				rule += ";UNTIL=" + last.Format(icsDateLayout)
			}
		}
	}
	return rule
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
