package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
)

type createStaffOptions struct {
	Account string
	Name    string
	Role    string
	Contact string
}

// NewCreateStaffCommand creates the create-staff command. Staff accounts
// cannot self-register.
func NewCreateStaffCommand(rootOpts *RootOptions, open opener) *cobra.Command {
	opts := &createStaffOptions{}

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Provision an admin or head account",
		Example: `  labctl create-staff --account lab-admin --name "Lab Admin" --role admin
  labctl create-staff --account zhang --name Zhang --role head --contact zhang@example.edu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), rootOpts.Verbose)
			if err != nil {
				return err
			}
			defer rt.Close()

			req := &services.CreateStaffRequest{
				Account: opts.Account,
				Name:    opts.Name,
				Role:    models.UserRole(opts.Role),
			}
			if opts.Contact != "" {
				req.Contact = &opts.Contact
			}

			user, err := rt.Services.Identity().CreateStaff(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (id %d)\n", user.Role, user.Account, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Account, "account", "", "identity provider user name")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Role, "role", string(models.RoleAdmin), "admin or head")
	cmd.Flags().StringVar(&opts.Contact, "contact", "", "optional contact")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
