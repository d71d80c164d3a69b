package main

import (
	"finishline/internal/app/dsn"
	"finishline/internal/app/repository"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			repo, err := repository.New(dsn.FromEnv())
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Migrate(); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Database migration completed successfully")
			return nil
		},
	}
}
