// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	SubscriptionFree = "free"
	SubscriptionPro  = "pro"

	// UnlimitedNotes is the note_limit sentinel for pro tenants.
	UnlimitedNotes = -1

	// DefaultNoteLimit is the free tier quota.
	DefaultNoteLimit = 3
)

// ValidRole reports whether role is one of the supported roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

// Principal is the authenticated identity attached to a request. It is
// carried as an explicit context value, decoded from the identity assertion
// on every request; there is no server side session.
type Principal struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenantId"`
}

type Tenant struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Slug         string    `db:"slug" json:"slug"`
	Subscription string    `db:"subscription" json:"subscription"`
	NoteLimit    int       `db:"note_limit" json:"noteLimit"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Unlimited reports whether the tenant has no note quota.
func (t *Tenant) Unlimited() bool {
	return t.NoteLimit == UnlimitedNotes
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	TenantID     string    `db:"tenant_id" json:"tenantId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type Note struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	TenantID  string    `db:"tenant_id" json:"tenantId"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
