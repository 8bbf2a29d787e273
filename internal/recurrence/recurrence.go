// Package recurrence materializes repeating tasks into dated instances.
package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

const (
	DefaultHorizonMonths = 3
	DefaultMaxInstances  = 1000
)

var (
	ErrNoRecurrence  = errors.New("task has no recurrence rule")
	ErrNoOccurrences = errors.New("recurrence produces no occurrences before its horizon")
)

type Options struct {
	// HorizonMonths bounds a series without an end date. Zero means DefaultHorizonMonths.
	HorizonMonths int
	// MaxInstances caps the number of generated instances. Zero means DefaultMaxInstances.
	MaxInstances int

	Now    func() time.Time
	NewID  func() model.TaskID
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.HorizonMonths <= 0 {
		o.HorizonMonths = DefaultHorizonMonths
	}
	if o.MaxInstances <= 0 {
		o.MaxInstances = DefaultMaxInstances
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = func() model.TaskID { return model.TaskID(uuid.NewString()) }
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Horizon returns the exclusive end of the series starting at start.
func Horizon(rule model.Recurrence, start time.Time, horizonMonths int) (time.Time, error) {
	if rule.EndDate != nil {
		end, err := model.ParseDate(*rule.EndDate)
		if err != nil {
			return time.Time{}, model.NewValidationError("recurrence.endDate", "must be YYYY-MM-DD")
		}
		return end, nil
	}
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	return model.AddMonths(model.Day(start), horizonMonths), nil
}

// Occurrences walks the series forward from start and returns every
// occurrence date strictly before the horizon, in ascending order.
func Occurrences(rule model.Recurrence, start time.Time, opts Options) ([]time.Time, error) {
	opts = opts.withDefaults()
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	start = model.Day(start)
	horizon, err := Horizon(rule, start, opts.HorizonMonths)
	if err != nil {
		return nil, err
	}
	horizon = model.Day(horizon)

	step := stepper(rule, start, opts.Logger)

	var out []time.Time
	for date, k := start, 1; date.Before(horizon); k++ {
		if len(out) == opts.MaxInstances {
			opts.Logger.Warn("recurrence truncated",
				zap.String("type", string(rule.Type)),
				zap.String("start", model.FormatDate(start)),
				zap.Int("max_instances", opts.MaxInstances),
			)
			break
		}
		out = append(out, date)
		date = step(date, k)
	}
	return out, nil
}

// stepper returns the function computing the k-th next date from the
// previous one. Monthly steps are computed from the series start so a
// clamped month end (Jan 31 -> Feb 29) does not drift the rest of the series.
func stepper(rule model.Recurrence, start time.Time, logger *zap.Logger) func(prev time.Time, k int) time.Time {
	interval := rule.Interval
	switch rule.Type {
	case model.RecurrenceDaily:
		return func(prev time.Time, _ int) time.Time { return prev.AddDate(0, 0, interval) }
	case model.RecurrenceWeekly:
		return func(prev time.Time, _ int) time.Time { return prev.AddDate(0, 0, 7*interval) }
	case model.RecurrenceMonthly:
		return func(_ time.Time, k int) time.Time { return model.AddMonths(start, k*interval) }
	case model.RecurrenceCustom:
		days := normalizeDays(rule.CustomDays)
		if len(days) == 0 {
			logger.Warn("custom recurrence without weekdays, falling back to daily",
				zap.String("start", model.FormatDate(start)))
			return func(prev time.Time, _ int) time.Time { return prev.AddDate(0, 0, 1) }
		}
		return func(prev time.Time, _ int) time.Time { return nextCustomDay(prev, days, interval) }
	default:
		logger.Warn("unknown recurrence type, falling back to daily", zap.String("type", string(rule.Type)))
		return func(prev time.Time, _ int) time.Time { return prev.AddDate(0, 0, 1) }
	}
}

// nextCustomDay advances to the next listed weekday after prev's weekday, or
// wraps to the first listed weekday of the following week. An interval above
// one skips that many weeks minus one on wrap.
func nextCustomDay(prev time.Time, days []int, interval int) time.Time {
	wd := int(prev.Weekday())
	for _, d := range days {
		if d > wd {
			return prev.AddDate(0, 0, d-wd)
		}
	}
	return prev.AddDate(0, 0, 7-wd+days[0]+7*(interval-1))
}

func normalizeDays(days []int) []int {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

// Expand produces the concrete instances of a recurring template. Instances
// get fresh ids and timestamps, start not completed, and carry no recurrence
// so they never trigger expansion themselves.
func Expand(template model.Task, opts Options) ([]model.Task, error) {
	opts = opts.withDefaults()
	if template.Recurrence == nil {
		return nil, ErrNoRecurrence
	}
	start, err := model.ParseDate(template.Date)
	if err != nil {
		return nil, model.NewValidationError("date", "must be YYYY-MM-DD")
	}

	dates, err := Occurrences(*template.Recurrence, start, opts)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: %w: start %s", model.ErrValidation, ErrNoOccurrences, template.Date)
	}

	now := opts.Now()
	out := make([]model.Task, 0, len(dates))
	for _, d := range dates {
		out = append(out, instance(template, d, opts.NewID(), now))
	}
	return out, nil
}

func instance(template model.Task, date time.Time, id model.TaskID, now time.Time) model.Task {
	t := template.Clone()
	t.ID = id
	t.Date = model.FormatDate(date)
	t.Status = model.StatusNotStarted
	t.Completed = false
	t.ActualTimeSpent = nil
	t.Recurrence = nil
	t.CreatedAt = now
	t.UpdatedAt = now
	return t
}
