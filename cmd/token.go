// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
	"github.com/canonical/notes-service/pkg/authentication"
)

var (
	tokenSecret   string
	tokenUserID   string
	tokenEmail    string
	tokenRole     string
	tokenTenantID string
	tokenLifetime time.Duration
)

// tokenCmd signs a token locally for development and testing. The secret must
// match the server's JWT_SECRET or the token will be rejected.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a development access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenSecret == "" {
			tokenSecret = os.Getenv("JWT_SECRET")
		}
		if tokenSecret == "" {
			log.Fatal("Either --secret or the JWT_SECRET environment variable must be provided")
		}
		if !types.ValidRole(tokenRole) {
			return fmt.Errorf("invalid role %q: must be %s or %s", tokenRole, types.RoleAdmin, types.RoleMember)
		}

		codec := authentication.NewTokenCodec(
			[]byte(tokenSecret),
			tokenLifetime,
			tracing.NewNoopTracer(),
			monitoring.NewNoopMonitor(),
			logging.NewNoopLogger(),
		)

		token, err := codec.IssueToken(context.Background(), &types.Principal{
			UserID:   tokenUserID,
			Email:    tokenEmail,
			Role:     tokenRole,
			TenantID: tokenTenantID,
		})
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User ID claim")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", types.RoleMember, "Role claim (admin or member)")
	tokenCmd.Flags().StringVar(&tokenTenantID, "tenant-id", "", "Tenant ID claim")
	tokenCmd.Flags().DurationVar(&tokenLifetime, "lifetime", 24*time.Hour, "Token lifetime")

	_ = tokenCmd.MarkFlagRequired("user-id")
	_ = tokenCmd.MarkFlagRequired("tenant-id")
}
