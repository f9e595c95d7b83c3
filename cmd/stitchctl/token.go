package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/welldanyogia/stitchdesk-backend/internal/auth"
	"github.com/welldanyogia/stitchdesk-backend/internal/validator"
)

func newIssueTokenCmd() *cobra.Command {
	var secret, userID, email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret = envOr(secret, "JWT_SECRET")
			if err := requireFlag("secret", secret); err != nil {
				return err
			}
			user, err := validator.ParseID(userID)
			if err != nil {
				return err
			}

			token, err := auth.Issue(secret, user, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default $JWT_SECRET)")
	cmd.Flags().StringVar(&userID, "user", "", "auth user id placed in the sub claim")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
