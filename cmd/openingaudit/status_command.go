package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"openingaudit/internal/logging"
	"openingaudit/internal/preflight"
	"openingaudit/internal/tables"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that a run can proceed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			// A broken database is reported as a failed check rather than an error.
			store, openErr := tables.Open(cfg, logger)
			if openErr == nil {
				defer store.Close()
			} else {
				logging.WarnWithContext(logger, "database unavailable", "status_database_unavailable",
					logging.Error(openErr),
					logging.String(logging.FieldErrorHint, "check paths.database or delete a database with an old schema"),
				)
			}
			results := preflight.RunAll(cmd.Context(), cfg, store)

			if jsonOutput {
				return writeJSON(cmd, results)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Status", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Database", databaseKind(openErr), databaseDetail(store, openErr), colorize))
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit check results as JSON")
	return cmd
}

func databaseKind(openErr error) statusKind {
	if openErr != nil {
		return statusError
	}
	return statusOK
}

func databaseDetail(store *tables.Store, openErr error) string {
	if openErr != nil {
		return openErr.Error()
	}
	return store.Path()
}
