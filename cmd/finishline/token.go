package main

import (
	"fmt"
	"time"

	"finishline/internal/app/config"
	"finishline/internal/app/middleware"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var userID uint
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a session token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			token, err := middleware.GenerateAccessToken(cfg.JWT, userID, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user", 0, "user id to put in the token")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
