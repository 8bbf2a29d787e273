package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/recurrence"
)

func expandCmd(f *rootFlags) *cobra.Command {
	tf := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Preview the instances a recurring task would produce",
		Long: `Expand a recurrence rule without storing anything.

Examples:
  nirmaan expand -t Gym --repeat custom --days 1,3,5 -d 2024-03-04 --until 2024-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tf.title == "" {
				tf.title = "preview"
			}
			t, err := tf.build(time.Now())
			if err != nil {
				return err
			}
			if t.Recurrence == nil {
				return model.NewValidationError("repeat", "is required")
			}

			cfg, logger, err := loadConfig(f)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			opts := cfg.RecurrenceOptions()
			opts.Logger = logger.Named("recurrence")

			out, err := recurrence.Expand(t, opts)
			if err != nil {
				return err
			}
			if f.jsonOut {
				return printJSON(cmd.OutOrStdout(), out)
			}
			return printTasks(cmd.OutOrStdout(), out)
		},
	}
	tf.bind(cmd.Flags())
	return cmd
}
