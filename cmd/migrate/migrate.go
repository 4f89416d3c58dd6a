package migrate

import (
	"fmt"

	"github.com/gonz247/commentgenerator/cmd/migration/initialize"
	"github.com/gonz247/commentgenerator/cmd/migration/seed"
	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/app"
	"github.com/gonz247/commentgenerator/internal/database"
	"github.com/gonz247/commentgenerator/internal/logger"

	"github.com/spf13/cobra"
)

// Command creates the migrate command with up, down and status subcommands.
func Command(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(ctx.Config, func(db database.DB) error {
				if err := db.Rollback(steps); err != nil {
					return err
				}
				return db.FlushAllCaches()
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert, 0 for all")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(ctx.Config, func(db database.DB) error {
					applied, err := initialize.InitializeTables(db, logger.New("migrate"))
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", len(applied))
					return nil
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "List applied migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(ctx.Config, func(db database.DB) error {
					applied, err := db.MigrationStatus()
					if err != nil {
						return err
					}
					for _, id := range applied {
						fmt.Fprintln(cmd.OutOrStdout(), id)
					}
					return nil
				})
			},
		},
	)

	return cmd
}

// SeedCommand creates the seed command, which stores demo assessments.
func SeedCommand(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store demo assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewWithConfig(ctx.Config)
			if err != nil {
				return err
			}
			defer application.Close()

			seeded, err := seed.Seed(cmd.Context(), application, logger.New("seed"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d assessments seeded\n", seeded)
			return nil
		},
	}
}

func withDatabase(config config.Config, fn func(db database.DB) error) error {
	db, err := database.New(config)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
