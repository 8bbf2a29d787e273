package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BhaveshVarma1/Nirmaan/internal/ops"
	"github.com/BhaveshVarma1/Nirmaan/internal/storage"
)

func backupCmd(f *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory as .tar.gz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(f)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if out == "" {
				ts := time.Now().UTC().Format("20060102T150405Z")
				out = filepath.Join("backups", "nirmaan-"+ts+".tar.gz")
			}
			if err := ops.BackupDataDir(cfg.Storage.DataDir, out); err != nil {
				return err
			}
			logger.Info("backup written", zap.String("data_dir", cfg.Storage.DataDir), zap.String("archive", out))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "archive path (default backups/nirmaan-<ts>.tar.gz)")
	return cmd
}

func restoreCmd(f *rootFlags) *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Unpack a backup and verify its snapshot",
		Long: `Unpack a backup archive into --target-dir and check that the task
snapshot decodes with this build. Point storage.data_dir at the target
directory to use it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(f)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := ops.RestoreDataDir(archive, target); err != nil {
				return err
			}
			sc := cfg.StorageConfig()
			sc.DataDir = target
			st, err := ops.VerifySnapshot(cmd.Context(), sc, cfg.Storage.Key)
			if err != nil {
				return fmt.Errorf("restored snapshot is unusable: %w", err)
			}
			logger.Info("backup restored",
				zap.String("archive", archive),
				zap.String("target", target),
				zap.Int("groups", st.Groups),
				zap.Int("tasks", st.Tasks),
			)
			if f.jsonOut {
				return printJSON(cmd.OutOrStdout(), st)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s: %d groups, %d tasks\n", target, st.Groups, st.Tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "directory to restore into")
	_ = cmd.MarkFlagRequired("archive")
	return cmd
}

func drillCmd(f *rootFlags) *cobra.Command {
	var workDir string
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Back up, restore and compare the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(f)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cfg.StorageConfig().Backend == storage.BackendMemory {
				return fmt.Errorf("nothing to drill: storage backend is %s", storage.BackendMemory)
			}
			rep, err := ops.Drill(cmd.Context(), cfg.StorageConfig(), cfg.Storage.Key, workDir, time.Now())
			if err != nil {
				return err
			}
			logger.Info("drill passed", zap.String("digest", rep.Digest))
			if f.jsonOut {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "backup:", rep.Archive)
			fmt.Fprintln(cmd.OutOrStdout(), "restored:", rep.RestoreDir)
			fmt.Fprintln(cmd.OutOrStdout(), "digest:", rep.Digest)
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot: %d groups, %d tasks\n", rep.Snapshot.Groups, rep.Snapshot.Tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "directory for drill artifacts")
	return cmd
}
