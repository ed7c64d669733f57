// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/notes-service/internal/config"
	"github.com/canonical/notes-service/internal/db"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/storage"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
	"github.com/canonical/notes-service/pkg/authentication"
)

// seedCmd provisions the demo tenants and accounts used for local
// development. Safe to run repeatedly: existing rows are left untouched.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo tenants and users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedUser struct {
	email string
	role  string
}

type seedTenant struct {
	name  string
	slug  string
	users []seedUser
}

var seedData = []seedTenant{
	{
		name: "Acme", slug: "acme",
		users: []seedUser{
			{email: "admin@acme.test", role: types.RoleAdmin},
			{email: "user@acme.test", role: types.RoleMember},
		},
	},
	{
		name: "Globex", slug: "globex",
		users: []seedUser{
			{email: "admin@globex.test", role: types.RoleAdmin},
			{email: "user@globex.test", role: types.RoleMember},
		},
	},
}

// All demo accounts share this well-known password.
const seedPassword = "password"

func seed(ctx context.Context) error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		return fmt.Errorf("issues with environment sourcing: %w", err)
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor()

	dbClient, err := db.NewDBClient(db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
	}, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %w", err)
	}
	defer dbClient.Close()

	s := storage.NewStorage(dbClient, tracer, monitor, logger)

	hash, err := authentication.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, st := range seedData {
		tenant, err := s.GetTenantBySlug(ctx, st.slug)
		if errors.Is(err, storage.ErrNotFound) {
			tenant, err = s.CreateTenant(ctx, &types.Tenant{
				Name:         st.name,
				Slug:         st.slug,
				Subscription: types.SubscriptionFree,
				NoteLimit:    types.DefaultNoteLimit,
			})
		}
		if err != nil {
			return fmt.Errorf("failed to seed tenant %s: %w", st.slug, err)
		}

		for _, su := range st.users {
			_, err := s.CreateUser(ctx, &types.User{
				Email:        su.email,
				PasswordHash: hash,
				Role:         su.role,
				TenantID:     tenant.ID,
			})
			if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
				return fmt.Errorf("failed to seed user %s: %w", su.email, err)
			}
		}

		logger.Infof("seeded tenant %s (%s)", st.name, tenant.ID)
	}

	fmt.Printf("Seeded %d tenants; all accounts use password %q\n", len(seedData), seedPassword)
	return nil
}
