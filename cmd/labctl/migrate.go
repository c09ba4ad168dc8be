package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/lab-reservation-service/pkg"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions, open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), rootOpts.Verbose)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := pkg.Migrate(rt.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
