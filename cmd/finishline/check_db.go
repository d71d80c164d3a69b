package main

import (
	"fmt"

	"finishline/internal/app/converter"
	"finishline/internal/app/dsn"
	"finishline/internal/app/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newCheckDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-db",
		Short: "Ping the database and list WBS elements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			repo, err := repository.New(dsn.FromEnv())
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			if err := repo.Ping(ctx); err != nil {
				return err
			}

			elements, err := repo.ListWBSElements(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "WBS elements in database:")
			for _, e := range elements {
				fmt.Fprintf(out, "%s  %-40s %s\n", e.Number(), e.Name, converter.Status(e.Status))
			}
			return nil
		},
	}
}
