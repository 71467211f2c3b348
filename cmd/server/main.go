package main

import (
	"context"
	"fmt"
	"os"

	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const description = "Station vendor licensing API"

func commandRoot() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "server",
		Short:         description,
		SilenceUsage:  true,
		SilenceErrors: true,
		// With no subcommand the server starts, matching the container entrypoint.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")

	root.AddCommand(commandServe(&configPath))
	root.AddCommand(commandMigrate(&configPath))
	root.AddCommand(commandAdmin(&configPath))
	return root
}

// bootstrap loads config and builds the process logger, shared by every subcommand.
func bootstrap(path string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config loading failed: %w", err)
	}
	if cfg.Logger.ServiceName == "" {
		cfg.Logger.ServiceName = cfg.App.Name
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("logger initialization failed: %w", err)
	}
	return cfg, appLogger, nil
}

func main() {
	if err := commandRoot().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
