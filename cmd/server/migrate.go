package main

import (
	"fmt"

	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/spf13/cobra"
)

func commandMigrate(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}
	for _, direction := range []string{"up", "down", "status"} {
		cmd.AddCommand(&cobra.Command{
			Use:   direction,
			Short: fmt.Sprintf("Run goose %s against the configured database", direction),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := bootstrap(*configPath)
				if err != nil {
					return err
				}
				return repository.Migrate(cmd.Context(), cfg.Postgres, log, direction)
			},
		})
	}
	return cmd
}
