package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.LoadSettings()

		pool, err := store.NewPool(settings)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		if err := store.Migrate(context.Background(), pool); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
		fmt.Println("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
