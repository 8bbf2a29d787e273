package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BhaveshVarma1/Nirmaan/internal/analytics"
	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/task"
)

func analyticsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Summarize completion and time spent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), f, func(a *app) error {
				s := analytics.Compute(a.store.AllTasks())
				if f.jsonOut {
					return printJSON(cmd.OutOrStdout(), s)
				}
				return printSummary(cmd.OutOrStdout(), s)
			})
		},
	}
}

func printSummary(w io.Writer, s analytics.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "tasks\t%d\n", s.TotalTasks)
	fmt.Fprintf(tw, "completed\t%d (%.1f%%)\n", s.CompletedTasks, s.CompletionRate)
	fmt.Fprintf(tw, "time spent\t%dh%02dm\n", s.TotalTimeSpent.Hours, s.TotalTimeSpent.Minutes)
	fmt.Fprintf(tw, "average\t%dh%02dm\n", s.AverageTimeSpent.Hours, s.AverageTimeSpent.Minutes)
	for _, c := range model.Categories {
		fmt.Fprintf(tw, "category %s\t%d\n", c, s.ByCategory[c])
	}
	for _, p := range model.Priorities {
		fmt.Fprintf(tw, "priority %s\t%d\n", p, s.ByPriority[p])
	}
	return tw.Flush()
}

func matrixCmd(f *rootFlags) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Sort tasks into urgency / importance quadrants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), f, func(a *app) error {
				tasks, err := a.store.List(task.ListFilter{Status: status})
				if err != nil {
					return err
				}
				m := analytics.Partition(tasks)
				if f.jsonOut {
					return printJSON(cmd.OutOrStdout(), m)
				}
				for _, q := range []struct {
					name  string
					tasks []model.Task
				}{
					{"urgent + important", m.UrgentImportant},
					{"not urgent + important", m.NotUrgentImportant},
					{"urgent + not important", m.UrgentNotImportant},
					{"not urgent + not important", m.NotUrgentNotImportant},
				} {
					fmt.Fprintf(cmd.OutOrStdout(), "== %s (%d)\n", q.name, len(q.tasks))
					for _, t := range q.tasks {
						fmt.Fprintf(cmd.OutOrStdout(), "  - %s %s\n", t.Date, t.Title)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "pending", "status filter")
	return cmd
}
