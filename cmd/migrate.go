package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/kunmmi/whisper/internal/config"
	"github.com/kunmmi/whisper/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.DBDSN == "" {
			return fmt.Errorf("DB_DSN must be set")
		}

		db, err := database.ConnectMySQL(cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Println("migration complete")
		return nil
	},
}
