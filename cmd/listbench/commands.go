package main

import (
	"errors"
	"fmt"

	logs "github.com/danmuck/smplog"
	"github.com/spf13/cobra"

	"github.com/danmuck/sorted_list/cmd/internal/logcfg"
	"github.com/danmuck/sorted_list/src/oplog"
	"github.com/danmuck/sorted_list/src/sorted_list"
	"github.com/danmuck/sorted_list/src/workload"
)

func newRootCmd() *cobra.Command {
	var logConfig string

	root := &cobra.Command{
		Use:   "listbench",
		Short: "Concurrent sorted list workload with an asynchronous operation log",
		Long: `listbench runs worker goroutines that insert, delete and search random
values in one shared sorted list, logging every requested operation to a
plain text file through a dedicated logger goroutine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logs.Configure(logcfg.Load(logConfig))
		},
	}
	root.PersistentFlags().StringVar(&logConfig, "log-config", "", "smplog TOML config for console output")

	root.AddCommand(newRunCmd(), newVerifyCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := defaultRunOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the workload and append every operation to the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return executeRun(cfg)
		},
	}
	opts.bind(cmd.Flags())
	return cmd
}

func executeRun(cfg workload.Config) error {
	list := sorted_list.New()
	summary, runErr := workload.Run(cfg, list)
	printSummary(summary)

	if cfg.SummaryPath != "" {
		if err := summary.WriteTOML(cfg.SummaryPath); err != nil {
			return errors.Join(runErr, err)
		}
		logs.Printf("Summary written to %s\n", cfg.SummaryPath)
	}
	return runErr
}

type verifyOptions struct {
	LogPath     string
	SummaryPath string
	Workers     int
	Iterations  int
}

func newVerifyCmd() *cobra.Command {
	opts := verifyOptions{LogPath: workload.DefaultLogPath}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that an operation log holds every worker's entries",
		Long: `verify reads an operation log back and checks it has exactly
--iterations entries for each of --workers workers. Both counts can be taken
from a summary written by "run --summary".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeVerify(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.LogPath, LOG_PATH_FLAG, "l", opts.LogPath, "operation log to check")
	cmd.Flags().StringVar(&opts.SummaryPath, SUMMARY_FLAG, "", "take workers and iterations from this run summary")
	cmd.Flags().IntVarP(&opts.Workers, WORKERS_FLAG, "w", workload.DefaultWorkers, "expected number of workers")
	cmd.Flags().IntVarP(&opts.Iterations, ITERATIONS_FLAG, "n", workload.DefaultIterations, "expected entries per worker")
	return cmd
}

func executeVerify(cmd *cobra.Command, opts verifyOptions) error {
	if opts.SummaryPath != "" {
		summary, err := workload.ReadSummary(opts.SummaryPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed(WORKERS_FLAG) {
			opts.Workers = summary.Config.Workers
		}
		if !cmd.Flags().Changed(ITERATIONS_FLAG) {
			opts.Iterations = summary.Config.Iterations
		}
		if !cmd.Flags().Changed(LOG_PATH_FLAG) {
			opts.LogPath = summary.Config.LogPath
		}
	}

	report, err := oplog.Audit(opts.LogPath)
	if err != nil {
		return err
	}
	printAudit(opts.LogPath, report)

	if err := report.Check(opts.Workers, opts.Iterations); err != nil {
		return fmt.Errorf("log %s is incomplete: %w", opts.LogPath, err)
	}
	logs.Infof("log %s verified: %d worker(s) x %d entries", opts.LogPath, opts.Workers, opts.Iterations)
	return nil
}
