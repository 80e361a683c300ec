// cmd/workdesk/migrate.go
package main

import (
	"log"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			log.Println("[INFO] Running database migrations...")
			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			log.Println("[INFO] Migrations completed successfully")
			return nil
		},
	}
}
