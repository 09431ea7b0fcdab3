package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"volunteerHub/internal/app"
	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/volunteer"
	"volunteerHub/internal/service"
)

type adminSeed struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Role     string   `yaml:"role"`
	Phone    string   `yaml:"phone"`
	CNIC     string   `yaml:"cnic"`
	City     string   `yaml:"city"`
	Area     string   `yaml:"area"`
	Domains  []string `yaml:"domains"`
}

type seedFile struct {
	Admins []adminSeed `yaml:"admins"`
}

type accountCreator interface {
	CreateAccount(ctx context.Context, in service.RegisterInput, role volunteer.Role) (uuid.UUID, error)
}

func parseSeedFile(r io.Reader) ([]adminSeed, error) {
	var file seedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	for i, a := range file.Admins {
		role, err := volunteer.ParseRole(a.Role)
		if err != nil {
			return nil, fmt.Errorf("admin #%d (%s): %w", i+1, a.Email, err)
		}
		if !role.IsElevated() {
			return nil, fmt.Errorf("admin #%d (%s): role %q is not elevated", i+1, a.Email, role)
		}
	}
	return file.Admins, nil
}

// seedAdmins creates every account and skips emails that already exist.
func seedAdmins(ctx context.Context, creator accountCreator, admins []adminSeed) (created, skipped int, err error) {
	for _, a := range admins {
		_, err := creator.CreateAccount(ctx, service.RegisterInput{
			Name:     a.Name,
			Email:    a.Email,
			Phone:    a.Phone,
			CNIC:     a.CNIC,
			City:     a.City,
			Area:     a.Area,
			Domains:  a.Domains,
			Password: a.Password,
		}, volunteer.Role(a.Role))

		switch {
		case err == nil:
			created++
		case service.HasCode(err, service.CodeConflict):
			logger.Info("Seed: account exists, skipping", zap.String("email", a.Email))
			skipped++
		default:
			return created, skipped, fmt.Errorf("create %s: %w", a.Email, err)
		}
	}
	return created, skipped, nil
}

func seedAdminsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-admins",
		Short: "Create Domain Head and Super Admin accounts from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			admins, err := parseSeedFile(f)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg, "seed-admins"); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := app.New(cfg).Init(ctx)
			if err != nil {
				return err
			}
			defer a.Shutdown(context.Background())

			created, skipped, err := seedAdmins(ctx, a.Volunteers(), admins)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", created, skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "admins.yml", "YAML file with an admins list")
	return cmd
}
