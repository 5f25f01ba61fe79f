package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"openingaudit/internal/config"
	"openingaudit/internal/overrides"
	"openingaudit/internal/tables"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load input tables from files",
	}
	importCmd.AddCommand(newImportCSVCommand(ctx))
	importCmd.AddCommand(newImportOverridesCommand(ctx))
	return importCmd
}

func newImportCSVCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "csv <series|episodes|errors|offsets|overrides> <file>",
		Short: "Replace an input table with the rows of a CSV file",
		Long: "Replace an input table with the rows of a CSV file. The first line must name the columns;\n" +
			"columns are matched by name and missing optional columns are left empty. Use - to read stdin.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *tables.Store, _ *slog.Logger) error {
				table, err := tables.LookupInput(cfg.Tables, args[0])
				if err != nil {
					return err
				}
				reader, closeFn, err := openInput(cmd, args[1])
				if err != nil {
					return err
				}
				defer closeFn()

				count, err := store.ImportCSV(cmd.Context(), table.Name, table.Fields, reader)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows into %s\n", count, table.Name)
				return nil
			})
		},
	}
}

func newImportOverridesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "overrides <file>",
		Short: "Replace the overrides table with a YAML or JSON overrides file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *tables.Store, logger *slog.Logger) error {
				path := strings.TrimSpace(args[0])
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("overrides file: %w", err)
				}
				parsed, err := overrides.Load(path, logger)
				if err != nil {
					return err
				}
				if err := store.ReplaceOverrides(cmd.Context(), parsed); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d overrides into %s\n", len(parsed), cfg.Tables.Overrides)
				return nil
			})
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored tables to files",
	}
	exportCmd.AddCommand(newExportOverridesCommand(ctx))
	return exportCmd
}

func newExportOverridesCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Write the overrides table as a YAML overrides file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *tables.Store, _ *slog.Logger) error {
				stored, err := store.LoadOverrides(cmd.Context())
				if err != nil {
					return err
				}
				data, err := overrides.Marshal(stored)
				if err != nil {
					return err
				}
				target := strings.TrimSpace(outputPath)
				if target == "" || target == "-" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(target, data, 0o644); err != nil {
					return fmt.Errorf("write overrides: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d overrides to %s\n", len(stored), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (defaults to stdout)")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	path = strings.TrimSpace(path)
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return file, func() { _ = file.Close() }, nil
}
