package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// commandAdmin seeds railway admins. Self-registration never grants that role.
func commandAdmin(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage railway admin accounts",
	}

	var name, email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an active railway admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			s, err := wire(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer s.Close()

			u, err := s.auth.CreateAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			cmd.Printf("created railway admin %d <%s>\n", u.ID, u.Email)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "Railway Admin", "display name")
	create.Flags().StringVar(&email, "email", "", "login email")
	create.Flags().StringVar(&password, "password", "", "initial password (8-72 characters)")
	cmd.AddCommand(create)
	return cmd
}
