package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/task"
)

// taskFlags holds the flags shared by "task add" and "expand".
type taskFlags struct {
	title       string
	description string
	date        string
	clock       string
	category    string
	priority    string
	tags        []string
	urgent      bool
	important   bool
	duration    string
	depends     []string

	repeat   string
	interval int
	until    string
	days     []int
}

func (tf *taskFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&tf.title, "title", "t", "", "task title")
	fs.StringVar(&tf.description, "description", "", "task description")
	fs.StringVarP(&tf.date, "date", "d", "", "date (YYYY-MM-DD, default today)")
	fs.StringVar(&tf.clock, "time", "", "time of day (HH:MM)")
	fs.StringVar(&tf.category, "category", string(model.CategoryOther), "category")
	fs.StringVarP(&tf.priority, "priority", "p", string(model.PriorityMedium), "priority (High, Medium, Low)")
	fs.StringSliceVar(&tf.tags, "tag", nil, "tag (repeatable)")
	fs.BoolVar(&tf.urgent, "urgent", false, "mark urgent")
	fs.BoolVar(&tf.important, "important", false, "mark important")
	fs.StringVar(&tf.duration, "duration", "", "planned duration, e.g. 1h30m")
	fs.StringSliceVar(&tf.depends, "depends-on", nil, "id of a task this one depends on (repeatable)")

	fs.StringVar(&tf.repeat, "repeat", "", "recurrence: daily, weekly, monthly or custom")
	fs.IntVar(&tf.interval, "interval", 1, "recurrence interval")
	fs.StringVar(&tf.until, "until", "", "series end, exclusive (YYYY-MM-DD)")
	fs.IntSliceVar(&tf.days, "days", nil, "weekdays for custom recurrence, 0=Sunday")
}

func (tf *taskFlags) build(now time.Time) (model.Task, error) {
	date := tf.date
	if date == "" {
		date = model.FormatDate(now)
	}
	t := model.NewTask(tf.title, model.Category(tf.category), date, now)
	t.Description = tf.description
	t.Time = tf.clock
	t.Priority = model.Priority(tf.priority)
	t.Tags = tf.tags
	t.Urgency = tf.urgent
	t.Importance = tf.important

	if tf.duration != "" {
		d, err := parseDuration(tf.duration)
		if err != nil {
			return model.Task{}, err
		}
		t.Duration = d
	}
	for _, id := range tf.depends {
		t.Dependencies = append(t.Dependencies, model.Dependency{ID: model.TaskID(id)})
	}

	if tf.repeat != "" {
		typ, err := model.ParseRecurrenceType(tf.repeat)
		if err != nil {
			return model.Task{}, err
		}
		rec := &model.Recurrence{Type: typ, Interval: tf.interval, CustomDays: tf.days}
		if tf.until != "" {
			until := tf.until
			rec.EndDate = &until
		}
		t.Recurrence = rec
	}
	return t, nil
}

// parseDuration converts a Go duration string into whole hours and minutes.
func parseDuration(s string) (*model.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d < 0 {
		return nil, model.NewValidationError("duration", fmt.Sprintf("invalid duration %q", s))
	}
	mins := int(d.Minutes())
	return &model.Duration{Hours: mins / 60, Minutes: mins % 60}, nil
}

func taskCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, list and change tasks",
	}
	cmd.AddCommand(
		taskAddCmd(f),
		taskListCmd(f),
		taskShowCmd(f),
		taskToggleCmd(f),
		taskUpdateCmd(f),
		taskDeleteCmd(f),
	)
	return cmd
}

func taskAddCmd(f *rootFlags) *cobra.Command {
	tf := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task, expanding it when --repeat is set",
		Example: `  nirmaan task add -t "Write report" --category Work -d 2024-03-01
  nirmaan task add -t "Standup" --category Work --repeat weekly --interval 1 --until 2024-06-30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), f, func(a *app) error {
				t, err := tf.build(time.Now())
				if err != nil {
					return err
				}
				out, err := a.store.AddTask(cmd.Context(), t)
				if err != nil {
					return err
				}
				if f.jsonOut {
					return printJSON(cmd.OutOrStdout(), out)
				}
				return printPlacements(cmd.OutOrStdout(), out)
			})
		},
	}
	tf.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskListCmd(f *rootFlags) *cobra.Command {
	var filter task.ListFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in schedule order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), f, func(a *app) error {
				tasks, err := a.store.List(filter)
				if err != nil {
					return err
				}
				if f.jsonOut {
					return printJSON(cmd.OutOrStdout(), tasks)
				}
				return printTasks(cmd.OutOrStdout(), tasks)
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&filter.Status, "status", "all", "all, pending, completed, overdue or a status label")
	fs.StringVar(&filter.Category, "category", "", "category")
	fs.StringVar(&filter.Priority, "priority", "", "priority")
	fs.StringVar(&filter.Tag, "tag", "", "tag")
	fs.StringVar(&filter.From, "from", "", "first date (YYYY-MM-DD)")
	fs.StringVar(&filter.To, "to", "", "last date (YYYY-MM-DD)")
	fs.StringVarP(&filter.Query, "query", "q", "", "substring of title or description")
	return cmd
}

func taskShowCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task with its group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), f, func(a *app) error {
				p, err := a.store.Task(model.TaskID(args[0]))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}
}

func taskToggleCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <group-id> <task-id>",
		Short: "Flip a task between completed and not started",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), f, func(a *app) error {
				t, err := a.store.ToggleTaskCompletion(cmd.Context(), model.GroupID(args[0]), model.TaskID(args[1]))
				if err != nil {
					return err
				}
				if f.jsonOut {
					return printJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s completed=%t status=%s\n", t.ID, t.Completed, t.Status)
				return nil
			})
		},
	}
}

func taskUpdateCmd(f *rootFlags) *cobra.Command {
	var (
		title, description, date, clock string
		category, priority, status      string
		duration, spent                 string
		tags, depends                   []string
		urgent, important, completed    bool
	)
	cmd := &cobra.Command{
		Use:   "update <group-id> <task-id>",
		Short: "Change fields of a task; only flags given are applied",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			var p task.Patch
			if fs.Changed("title") {
				p.Title = &title
			}
			if fs.Changed("description") {
				p.Description = &description
			}
			if fs.Changed("date") {
				p.Date = &date
			}
			if fs.Changed("time") {
				p.Time = &clock
			}
			if fs.Changed("category") {
				c := model.Category(category)
				p.Category = &c
			}
			if fs.Changed("priority") {
				pr := model.Priority(priority)
				p.Priority = &pr
			}
			if fs.Changed("status") {
				s := model.Status(status)
				p.Status = &s
			}
			if fs.Changed("completed") {
				p.Completed = &completed
			}
			if fs.Changed("urgent") {
				p.Urgency = &urgent
			}
			if fs.Changed("important") {
				p.Importance = &important
			}
			if fs.Changed("tag") {
				p.Tags = &tags
			}
			if fs.Changed("depends-on") {
				deps := make([]model.Dependency, 0, len(depends))
				for _, id := range depends {
					deps = append(deps, model.Dependency{ID: model.TaskID(id)})
				}
				p.Dependencies = &deps
			}
			for name, dst := range map[string]**model.Duration{"duration": &p.Duration, "spent": &p.ActualTimeSpent} {
				if !fs.Changed(name) {
					continue
				}
				raw, _ := fs.GetString(name)
				d := &model.Duration{}
				if raw != "" {
					var err error
					if d, err = parseDuration(raw); err != nil {
						return err
					}
				}
				*dst = d
			}
			if p.Empty() {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			return withStore(cmd.Context(), f, func(a *app) error {
				out, err := a.store.UpdateTask(cmd.Context(), model.GroupID(args[0]), model.TaskID(args[1]), p)
				if err != nil {
					return err
				}
				if f.jsonOut {
					return printJSON(cmd.OutOrStdout(), out)
				}
				return printPlacements(cmd.OutOrStdout(), []task.Placement{out})
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&title, "title", "t", "", "title")
	fs.StringVar(&description, "description", "", "description")
	fs.StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD); moves the task to another group")
	fs.StringVar(&clock, "time", "", "time of day (HH:MM); empty clears")
	fs.StringVar(&category, "category", "", "category; moves the task to another group")
	fs.StringVarP(&priority, "priority", "p", "", "priority")
	fs.StringVar(&status, "status", "", "status label")
	fs.BoolVar(&completed, "completed", false, "completed flag")
	fs.BoolVar(&urgent, "urgent", false, "urgency")
	fs.BoolVar(&important, "important", false, "importance")
	fs.StringSliceVar(&tags, "tag", nil, "replace tags (repeatable)")
	fs.StringSliceVar(&depends, "depends-on", nil, "replace dependencies (repeatable)")
	fs.StringVar(&duration, "duration", "", "planned duration, e.g. 45m; empty clears")
	fs.StringVar(&spent, "spent", "", "actual time spent, e.g. 1h; empty clears")
	return cmd
}

func taskDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group-id> <task-id>",
		Short: "Delete a task and drop references to it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), f, func(a *app) error {
				if err := a.store.DeleteTask(cmd.Context(), model.GroupID(args[0]), model.TaskID(args[1])); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[1])
				return nil
			})
		},
	}
}
