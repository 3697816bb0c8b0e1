package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"inknote/internal/auth"
)

func newTokenCmd(e *env) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the HTTP API",
		Long: `Issue a bearer token signed with the configured API secret (INKNOTE_API_SECRET).

Examples:
  inknote token                     # never expires
  inknote token --ttl 24h --sub ci`,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.Issue([]byte(e.cfg.APISecret), subject, ttl, time.Now())
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "cli", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, 0 for no expiry")
	return cmd
}
