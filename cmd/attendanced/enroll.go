package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/internal/store"
)

var enrollName string

var enrollCmd = &cobra.Command{
	Use:   "enroll <employee-id> <image-file>",
	Short: "Enroll an employee from an image file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnroll(args[0], args[1])
	},
}

func init() {
	enrollCmd.Flags().StringVar(&enrollName, "name", "", "Display name (defaults to the employee id)")
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(employeeID, imagePath string) error {
	logger := newLogger()
	settings := config.LoadSettings()

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("reading image file: %w", err)
	}

	pool, err := store.NewPool(settings)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	pipeline, _, err := buildPipeline(settings, store.NewEnrolledRepository(pool), store.NewAttendanceRepository(pool), logger)
	if err != nil {
		return err
	}
	defer pipeline.Detector.Close()

	name := enrollName
	if name == "" {
		name = employeeID
	}

	identity, err := pipeline.Enroll(ctx, employeeID, name, image)
	if err != nil {
		return fmt.Errorf("enrolling %s: %w", employeeID, err)
	}

	fmt.Printf("enrolled %s (%s), embedding dimension %d\n", identity.IdentityID, identity.DisplayName, len(identity.Embedding))
	return nil
}
