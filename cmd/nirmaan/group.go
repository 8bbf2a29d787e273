package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

func groupCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Inspect and change task groups",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List groups in creation order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), f, func(a *app) error {
					groups := a.store.Groups()
					if f.jsonOut {
						return printJSON(cmd.OutOrStdout(), groups)
					}
					return printGroups(cmd.OutOrStdout(), groups, a.store.ExpandedGroups())
				})
			},
		},
		&cobra.Command{
			Use:   "toggle <group-id>",
			Short: "Show or hide a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), f, func(a *app) error {
					shown, err := a.store.ToggleTaskGroupVisibility(cmd.Context(), model.GroupID(args[0]))
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s shown=%t\n", args[0], shown)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <group-id>",
			Short: "Delete a group with all of its tasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), f, func(a *app) error {
					if err := a.store.DeleteGroup(cmd.Context(), model.GroupID(args[0])); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}
