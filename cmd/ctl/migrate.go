package main

import (
	"github.com/spf13/cobra"

	"volunteerHub/internal/repository/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL()
			if err != nil {
				return err
			}
			return postgres.MigrateUp(url)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL()
			if err != nil {
				return err
			}
			return postgres.MigrateDown(url)
		},
	})

	return cmd
}

func databaseURL() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if err := requirePostgres(cfg, "migrate"); err != nil {
		return "", err
	}
	return cfg.Database.URL, nil
}
