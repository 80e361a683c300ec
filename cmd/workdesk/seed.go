// cmd/workdesk/seed.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gurkanbulca/workdesk/internal/api"
	"github.com/gurkanbulca/workdesk/internal/seed"
	"github.com/gurkanbulca/workdesk/pkg/auth"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data (skipped when the account already exists)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fixture := seed.Demo()
			if path, _ := cmd.Flags().GetString("file"); path != "" {
				if fixture, err = seed.LoadFile(path); err != nil {
					return err
				}
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			tokens := auth.NewTokenManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
				cfg.JWT.AccessTokenDuration, cfg.JWT.RefreshTokenDuration)
			passwords := auth.NewPasswordManagerWithCost(cfg.Security.BcryptCost, cfg.PasswordPolicy())
			services := api.NewServices(db, tokens, passwords, loc)

			result, err := seed.NewSeeder(services.Auth, services.Clients, services.Projects, services.Tasks).
				Seed(cmd.Context(), fixture)
			if err != nil {
				return err
			}
			if result.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "Seed skipped: account already exists.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seed completed: %d clients, %d projects, %d tasks created.\n",
				result.Clients, result.Projects, result.Tasks)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "YAML fixture to load instead of the built-in demo")
	return cmd
}
