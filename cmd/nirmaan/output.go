package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/task"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTasks(w io.Writer, tasks []model.Task) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tCATEGORY\tPRIORITY\tSTATUS\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, orDash(t.Time), t.Category, t.Priority, t.Status, t.Title)
	}
	return tw.Flush()
}

func printPlacements(w io.Writer, ps []task.Placement) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tID\tDATE\tTITLE")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.GroupID, p.Task.ID, p.Task.Date, p.Task.Title)
	}
	return tw.Flush()
}

func printGroups(w io.Writer, groups []model.TaskGroup, expanded map[model.GroupID]bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tTASKS\tSHOWN")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\n", g.ID, g.Date, g.Category, len(g.Tasks), expanded[g.ID])
	}
	return tw.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
