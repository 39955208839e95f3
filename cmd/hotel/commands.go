package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"hotel/internal/report"
	"hotel/internal/stats"
)

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			return stats.New(a.hotel).Report().WriteText(cmd.OutOrStdout())
		},
	}
}

func newExportCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the Excel report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			if out == "" {
				out = filepath.Join(a.cfg.Storage.DataDir, report.GenerateFilename(a.hotel.Name, time.Now()))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := report.WriteFile(a.hotel, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <data_dir>/<hotel>_<date>.xlsx)")
	return cmd
}

func newBackupCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the stored data now",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			dir, err := a.backups.PerformBackup(a.store)
			if err != nil {
				return err
			}
			if dir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to back up.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", dir)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hotel %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
