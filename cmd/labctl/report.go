package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
)

// NewExportReportCommand creates the export-report command.
func NewExportReportCommand(rootOpts *RootOptions, open opener) *cobra.Command {
	var outDir, account string

	cmd := &cobra.Command{
		Use:       "export-report <weekly|monthly|yearly>",
		Short:     "Write the period ledger workbook to disk",
		Example:   "  labctl export-report monthly --as lab-admin --out ./reports",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(reports.Weekly), string(reports.Monthly), string(reports.Yearly)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := reports.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown report period %q", args[0])
			}

			rt, err := open(cmd.Context(), rootOpts.Verbose)
			if err != nil {
				return err
			}
			defer rt.Close()

			// Exports run as a real admin or head account so the usual role check applies.
			operator, err := rt.Services.Identity().Authenticate(cmd.Context(), account)
			if err != nil {
				return err
			}

			report, err := rt.Services.Report().Excel(cmd.Context(), operator, kind)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", outDir, err)
			}
			path := filepath.Join(outDir, report.FileName)
			if err := os.WriteFile(path, report.Content, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			if report.ArchiveKey != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "archived as %s\n", report.ArchiveKey)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&account, "as", "", "admin or head account to export as")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}
