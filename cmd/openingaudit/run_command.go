package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"openingaudit/internal/config"
	"openingaudit/internal/logging"
	"openingaudit/internal/reconcile"
	"openingaudit/internal/runlock"
	"openingaudit/internal/tables"
)

type runSummary struct {
	RunID        string         `json:"run_id"`
	DryRun       bool           `json:"dry_run"`
	Table        string         `json:"table"`
	Titles       int            `json:"titles"`
	Rows         int            `json:"rows"`
	Anomalies    int            `json:"anomalies"`
	StatusCounts map[string]int `json:"status_counts"`
	DurationMS   int64          `json:"duration_ms"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile the input tables and rebuild the results table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *tables.Store, logger *slog.Logger) error {
				summary, err := executeRun(cmd, cfg, store, logger, dryRun)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, summary)
				}
				printRunSummary(cmd, summary)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the report without writing the results table")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")
	return cmd
}

func executeRun(cmd *cobra.Command, cfg *config.Config, store *tables.Store, base *slog.Logger, dryRun bool) (runSummary, error) {
	started := time.Now()
	runID := uuid.NewString()
	runCtx := logging.ContextWithRunID(cmd.Context(), runID)
	logger := logging.WithContext(runCtx, logging.NewComponentLogger(base, "run"))
	table := cfg.Tables.Results

	if !dryRun {
		lock, err := runlock.Acquire(cfg.Paths.StateDir, table, logger)
		if err != nil {
			return runSummary{}, err
		}
		defer func() { _ = lock.Release() }()
	}

	logger.Info("run started", logging.String(logging.FieldTable, table), logging.Bool("dry_run", dryRun))

	input, err := store.LoadInput(runCtx)
	if err != nil {
		return runSummary{}, err
	}
	engine := reconcile.NewEngine(analysisOptions(cfg), logger)
	report, err := engine.Run(input)
	if err != nil {
		return runSummary{}, fmt.Errorf("reconcile: %w", err)
	}

	if !dryRun {
		if err := store.WriteReport(runCtx, report); err != nil {
			return runSummary{}, err
		}
	}

	summary := runSummary{
		RunID:        runID,
		DryRun:       dryRun,
		Table:        table,
		Titles:       len(input.Titles),
		Rows:         len(report.Rows),
		Anomalies:    len(report.Anomalies()),
		StatusCounts: report.StatusCounts(),
		DurationMS:   time.Since(started).Milliseconds(),
	}
	logger.Info("run finished",
		logging.Int("rows", summary.Rows),
		logging.Int("anomalies", summary.Anomalies),
		logging.Duration("duration", time.Since(started)),
	)
	return summary, nil
}

func printRunSummary(cmd *cobra.Command, summary runSummary) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Reconciliation", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, summary.RunID, colorize))
	fmt.Fprintln(out, renderStatusLine("Titles", statusInfo, strconv.Itoa(summary.Titles), colorize))

	anomalyKind := statusOK
	if summary.Anomalies > 0 {
		anomalyKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Anomalies", anomalyKind, strconv.Itoa(summary.Anomalies), colorize))

	if summary.DryRun {
		fmt.Fprintln(out, renderStatusLine("Results", statusInfo, fmt.Sprintf("dry run, %d rows not written", summary.Rows), colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Results", statusOK, fmt.Sprintf("%d rows written to %s", summary.Rows, summary.Table), colorize))
	}

	if len(summary.StatusCounts) == 0 {
		return
	}
	statuses := make([]string, 0, len(summary.StatusCounts))
	for status := range summary.StatusCounts {
		statuses = append(statuses, status)
	}
	slices.Sort(statuses)
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, []string{statusLabel(status), strconv.Itoa(summary.StatusCounts[status])})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Status", "Rows"}, rows, []columnAlignment{alignLeft, alignRight}))
}
