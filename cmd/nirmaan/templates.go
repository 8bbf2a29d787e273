package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/template"
)

func templatesCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Manage the task template catalogue",
	}
	cmd.AddCommand(
		templatesListCmd(f),
		templatesAddCmd(f),
		templatesDeleteCmd(f),
		templatesUseCmd(f),
	)
	return cmd
}

func templatesListCmd(f *rootFlags) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates, optionally filtered by a search term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), f, func(a *app) error {
				ts := a.templates.List()
				if query != "" {
					ts = a.templates.Search(query)
				}
				if f.jsonOut {
					return printJSON(cmd.OutOrStdout(), ts)
				}
				return printTemplates(cmd.OutOrStdout(), ts)
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search term")
	return cmd
}

func printTemplates(w io.Writer, ts []template.Template) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRIORITY\tREPEATS")
	for _, t := range ts {
		repeats := "-"
		if t.Recurrence != nil {
			repeats = fmt.Sprintf("%s/%d", t.Recurrence.Type, t.Recurrence.Interval)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Category, t.Priority, repeats)
	}
	return tw.Flush()
}

func templatesAddCmd(f *rootFlags) *cobra.Command {
	tf := &taskFlags{}
	var id string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Save a template built from task flags",
		Example: `  nirmaan templates add --id run -t "Evening run" --category Health --duration 45m --repeat weekly`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.build(time.Now())
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), f, func(a *app) error {
				if a.cfg.Templates.Path == "" {
					return fmt.Errorf("templates.path is not configured")
				}
				saved, err := a.templates.Add(template.Template{
					ID:          id,
					Name:        t.Title,
					Description: t.Description,
					Category:    t.Category,
					Priority:    t.Priority,
					Duration:    t.Duration,
					Tags:        t.Tags,
					Urgency:     t.Urgency,
					Importance:  t.Importance,
					Recurrence:  t.Recurrence,
				})
				if err != nil {
					return err
				}
				if f.jsonOut {
					return printJSON(cmd.OutOrStdout(), saved)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "saved", saved.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "template id (default random)")
	tf.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func templatesDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Remove a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), f, func(a *app) error {
				if err := a.templates.Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
				return nil
			})
		},
	}
}

func templatesUseCmd(f *rootFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "use <template-id>",
		Short: "Create tasks from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), f, func(a *app) error {
				if date == "" {
					date = model.FormatDate(time.Now())
				}
				t, err := a.templates.Instantiate(args[0], date)
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
	cmd.Flags().StringVarP(&date, "date", "d", "", "date of the first task (default today)")
	return cmd
}
