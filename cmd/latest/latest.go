// Package latest implements the latest command: the full selection and
// publish pipeline over the raw data tree.
package latest

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/maddyp86/congress/cmd/common"
	"github.com/maddyp86/congress/internal/pipeline"
)

// Command returns the latest command for use in the root command.
func Command() *cobra.Command {
	var (
		dataRoot   string
		outputRoot string
		dryRun     bool
		schedule   string
	)

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Select and publish the latest text version per bill",
		Long: `Runs the full pipeline: synthesize missing descriptors, discover and
classify candidate versions, select one winner per bill, and publish the
winners into the output tree via an atomic swap.

With --schedule the pipeline re-runs on the given cron expression until
interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			paths := deps.Config.GetPathsConfig()
			if dataRoot == "" {
				dataRoot = paths.DataRoot
			}
			if outputRoot == "" {
				outputRoot = paths.OutputRoot
			}

			pipe := pipeline.New(dataRoot, outputRoot, dryRun, deps.Logger)

			if schedule != "" {
				return runScheduled(cmd, pipe, schedule, deps)
			}

			summary, err := pipe.Run()
			printSummary(summary)
			return err
		},
	}

	cmd.Flags().StringVar(&dataRoot, "data-root", "", "raw data tree root (overrides config)")
	cmd.Flags().StringVar(&outputRoot, "output-root", "", "published tree root (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "select winners but do not publish")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression; re-run the pipeline on this schedule")

	return cmd
}

// runScheduled re-runs the pipeline on a cron schedule until the process
// is interrupted. Individual run failures are logged, not fatal: the
// next tick retries against fresher data.
func runScheduled(cmd *cobra.Command, pipe *pipeline.Pipeline, schedule string, deps common.CommandDeps) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := cron.New()
	_, err := runner.AddFunc(schedule, func() {
		summary, runErr := pipe.Run()
		printSummary(summary)
		if runErr != nil {
			deps.Logger.Error("Scheduled run failed", "error", runErr)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	deps.Logger.Info("Scheduler started", "schedule", schedule)
	runner.Start()
	<-ctx.Done()
	deps.Logger.Info("Shutdown signal received")

	stopCtx := runner.Stop()
	<-stopCtx.Done()
	return nil
}

// printSummary renders the per-stage counts.
func printSummary(summary *pipeline.Summary) {
	if summary == nil {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Stage", "Metric", "Count"})
	t.AppendRows([]table.Row{
		{"synthesize", "version dirs scanned", summary.Synth.Scanned},
		{"synthesize", "descriptors written", summary.Synth.Synthesized},
		{"synthesize", "failed", summary.Synth.Failed},
		{"discover", "descriptors found", summary.Discover.Discovered},
		{"discover", "classified", summary.Discover.Classified},
		{"discover", "skipped (layout)", summary.Discover.SkippedLayout},
		{"discover", "malformed descriptors", summary.Discover.Malformed},
		{"discover", "unknown dates", summary.Discover.UnknownDate},
		{"select", "bills picked", summary.Picked},
	})
	t.AppendFooter(table.Row{"", "published", summary.Published})
	t.Render()
}
