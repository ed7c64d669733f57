// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/notes-service/pkg/authentication"
	"github.com/canonical/notes-service/pkg/tenant"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage the authenticated tenant",
}

var loginCmd = &cobra.Command{
	Use:   "login [email] [password]",
	Short: "Log in and print an access token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp authentication.LoginResponse
		req := authentication.LoginRequest{Email: args[0], Password: args[1]}
		if err := newAPIClient().do(cmd.Context(), http.MethodPost, "/auth/login", req, &resp); err != nil {
			return fmt.Errorf("failed to log in: %w", err)
		}

		fmt.Println(resp.Token)
		return nil
	},
}

var showTenantCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show tenant details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp tenant.TenantResponse
		if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/tenants/"+args[0], nil, &resp); err != nil {
			return fmt.Errorf("failed to get tenant: %w", err)
		}

		t := resp.Tenant
		fmt.Printf("ID: %s\n", t.ID)
		fmt.Printf("Name: %s\n", t.Name)
		fmt.Printf("Slug: %s\n", t.Slug)
		fmt.Printf("Subscription: %s\n", t.Subscription)
		if t.Unlimited() {
			fmt.Println("Note limit: unlimited")
		} else {
			fmt.Printf("Note limit: %d\n", t.NoteLimit)
		}
		return nil
	},
}

var upgradeTenantCmd = &cobra.Command{
	Use:   "upgrade [slug]",
	Short: "Upgrade a tenant to the pro subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp tenant.TenantResponse
		if err := newAPIClient().do(cmd.Context(), http.MethodPost, "/tenants/"+args[0]+"/upgrade", nil, &resp); err != nil {
			return fmt.Errorf("failed to upgrade tenant: %w", err)
		}

		fmt.Printf("Tenant %s upgraded: subscription=%s\n", resp.Tenant.Slug, resp.Tenant.Subscription)
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage tenant users",
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List users for the authenticated tenant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp tenant.UsersResponse
		if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/tenants/users", nil, &resp); err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "USER_ID\tEMAIL\tROLE")
		for _, u := range resp.Users {
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Email, u.Role)
		}
		w.Flush()
		return nil
	},
}

var inviteUserCmd = &cobra.Command{
	Use:   "invite [email] [role]",
	Short: "Invite a user to the authenticated tenant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp tenant.InviteUserResponse
		req := tenant.InviteUserRequest{Email: args[0], Role: args[1]}
		if err := newAPIClient().do(cmd.Context(), http.MethodPost, "/tenants/invite", req, &resp); err != nil {
			return fmt.Errorf("failed to invite user: %w", err)
		}

		fmt.Printf("User invited: %s\n", resp.User.Email)
		fmt.Printf("One-time password: %s\n", resp.TempPassword)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	rootCmd.AddCommand(loginCmd)

	tenantCmd.AddCommand(showTenantCmd)
	tenantCmd.AddCommand(upgradeTenantCmd)
	tenantCmd.AddCommand(usersCmd)

	usersCmd.AddCommand(listUsersCmd)
	usersCmd.AddCommand(inviteUserCmd)
}
