// Command nirmaan runs the task engine as an HTTP service and exposes its
// operations on the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var Version = "dev"

type rootFlags struct {
	configPath string
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "nirmaan",
		Short:         "Nirmaan - task groups, recurrence and dependencies",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "nirmaan.yaml", "config file (YAML, optional)")
	root.PersistentFlags().BoolVar(&f.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		serveCmd(f),
		taskCmd(f),
		groupCmd(f),
		expandCmd(f),
		exportCmd(f),
		analyticsCmd(f),
		matrixCmd(f),
		templatesCmd(f),
		backupCmd(f),
		restoreCmd(f),
		drillCmd(f),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
