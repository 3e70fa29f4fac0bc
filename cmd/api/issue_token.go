package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/osca-api/internal/service"
	"github.com/noah-isme/osca-api/pkg/config"
)

func issueTokenCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Mint a session token for a user with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user-id required")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			codec, err := service.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			token, claims, err := codec.Issue(userID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"token":      token,
				"user_id":    claims.UserID,
				"expires_at": claims.ExpiresAt.Time,
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id carried by the token")
	return cmd
}
