package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"volunteerHub/internal/config"
	"volunteerHub/internal/logger"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ctl",
		Short: "volunteerHub operator tool",
		Long:  `Operator commands for volunteerHub: schema migrations and elevated account seeding.`,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default ./config.yml when present)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedAdminsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Development); err != nil {
		return nil, err
	}
	return cfg, nil
}

// requirePostgres rejects configs whose writes would land in a throwaway
// in-memory store.
func requirePostgres(cfg *config.Config, command string) error {
	if cfg.Repository.Type != config.RepositoryPostgres {
		return fmt.Errorf("%s needs the postgres repository, config has %q", command, cfg.Repository.Type)
	}
	return nil
}
