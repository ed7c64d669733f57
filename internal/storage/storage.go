// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/canonical/notes-service/internal/db"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
)

var _ StorageInterface = (*Storage)(nil)

const (
	tenantColumns = "id, name, slug, subscription, note_limit, created_at, updated_at"
	userColumns   = "id, email, password_hash, role, tenant_id, created_at, updated_at"
	noteColumns   = "id, title, content, tenant_id, created_by, created_at, updated_at"
)

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func (s *Storage) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTenant")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant ID: %w", err)
	}

	subscription := t.Subscription
	if subscription == "" {
		subscription = types.SubscriptionFree
	}
	noteLimit := t.NoteLimit
	if noteLimit == 0 {
		noteLimit = types.DefaultNoteLimit
	}

	var newTenant types.Tenant
	err = s.db.Statement(ctx).
		Insert("tenants").
		Columns("id", "name", "slug", "subscription", "note_limit").
		Values(id.String(), t.Name, t.Slug, subscription, noteLimit).
		Suffix("RETURNING " + tenantColumns).
		QueryRowContext(ctx).
		Scan(&newTenant.ID, &newTenant.Name, &newTenant.Slug, &newTenant.Subscription, &newTenant.NoteLimit, &newTenant.CreatedAt, &newTenant.UpdatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}

	return &newTenant, nil
}

func (s *Storage) GetTenantByID(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByID")
	defer span.End()

	return s.getTenant(ctx, sq.Eq{"id": id})
}

func (s *Storage) GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantBySlug")
	defer span.End()

	return s.getTenant(ctx, sq.Eq{"slug": slug})
}

func (s *Storage) getTenant(ctx context.Context, pred sq.Eq) (*types.Tenant, error) {
	var t types.Tenant
	err := s.db.Statement(ctx).
		Select("id", "name", "slug", "subscription", "note_limit", "created_at", "updated_at").
		From("tenants").
		Where(pred).
		QueryRowContext(ctx).
		Scan(&t.ID, &t.Name, &t.Slug, &t.Subscription, &t.NoteLimit, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &t, nil
}

// UpgradeTenant flips the tenant to the pro subscription with an unlimited
// note quota. Repeating the call is a no-op with the same result.
func (s *Storage) UpgradeTenant(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpgradeTenant")
	defer span.End()

	var t types.Tenant
	err := s.db.Statement(ctx).
		Update("tenants").
		Set("subscription", types.SubscriptionPro).
		Set("note_limit", types.UnlimitedNotes).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + tenantColumns).
		QueryRowContext(ctx).
		Scan(&t.ID, &t.Name, &t.Slug, &t.Subscription, &t.NoteLimit, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to upgrade tenant: %w", err)
	}

	return &t, nil
}

func (s *Storage) CreateUser(ctx context.Context, u *types.User) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateUser")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	var newUser types.User
	err = s.db.Statement(ctx).
		Insert("users").
		Columns("id", "email", "password_hash", "role", "tenant_id").
		Values(id.String(), u.Email, u.PasswordHash, u.Role, u.TenantID).
		Suffix("RETURNING " + userColumns).
		QueryRowContext(ctx).
		Scan(&newUser.ID, &newUser.Email, &newUser.PasswordHash, &newUser.Role, &newUser.TenantID, &newUser.CreatedAt, &newUser.UpdatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &newUser, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetUserByEmail")
	defer span.End()

	return s.getUser(ctx, sq.Eq{"email": email})
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetUserByID")
	defer span.End()

	return s.getUser(ctx, sq.Eq{"id": id})
}

func (s *Storage) getUser(ctx context.Context, pred sq.Eq) (*types.User, error) {
	var u types.User
	err := s.db.Statement(ctx).
		Select("id", "email", "password_hash", "role", "tenant_id", "created_at", "updated_at").
		From("users").
		Where(pred).
		QueryRowContext(ctx).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.TenantID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (s *Storage) ListUsersByTenantID(ctx context.Context, tenantID string) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListUsersByTenantID")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("id", "email", "password_hash", "role", "tenant_id", "created_at", "updated_at").
		From("users").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("created_at DESC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*types.User
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.TenantID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}

func (s *Storage) CreateNote(ctx context.Context, n *types.Note) (*types.Note, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateNote")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate note ID: %w", err)
	}

	var newNote types.Note
	err = s.db.Statement(ctx).
		Insert("notes").
		Columns("id", "title", "content", "tenant_id", "created_by").
		Values(id.String(), n.Title, n.Content, n.TenantID, n.CreatedBy).
		Suffix("RETURNING " + noteColumns).
		QueryRowContext(ctx).
		Scan(&newNote.ID, &newNote.Title, &newNote.Content, &newNote.TenantID, &newNote.CreatedBy, &newNote.CreatedAt, &newNote.UpdatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	return &newNote, nil
}

// GetNote fetches a note scoped to the given tenant. A note id that exists
// under a different tenant is indistinguishable from a missing one.
func (s *Storage) GetNote(ctx context.Context, tenantID, id string) (*types.Note, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetNote")
	defer span.End()

	var n types.Note
	err := s.db.Statement(ctx).
		Select("id", "title", "content", "tenant_id", "created_by", "created_at", "updated_at").
		From("notes").
		Where(sq.Eq{"id": id, "tenant_id": tenantID}).
		QueryRowContext(ctx).
		Scan(&n.ID, &n.Title, &n.Content, &n.TenantID, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &n, nil
}

func (s *Storage) ListNotesByTenantID(ctx context.Context, tenantID string) ([]*types.Note, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListNotesByTenantID")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("id", "title", "content", "tenant_id", "created_by", "created_at", "updated_at").
		From("notes").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("created_at DESC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*types.Note
	for rows.Next() {
		var n types.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.TenantID, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notes, nil
}

// UpdateNote applies a partial update; nil fields are left untouched.
func (s *Storage) UpdateNote(ctx context.Context, tenantID, id string, title, content *string) (*types.Note, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateNote")
	defer span.End()

	if title == nil && content == nil {
		return s.GetNote(ctx, tenantID, id)
	}

	query := s.db.Statement(ctx).
		Update("notes").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "tenant_id": tenantID})

	if title != nil {
		query = query.Set("title", *title)
	}
	if content != nil {
		query = query.Set("content", *content)
	}

	var n types.Note
	err := query.
		Suffix("RETURNING " + noteColumns).
		QueryRowContext(ctx).
		Scan(&n.ID, &n.Title, &n.Content, &n.TenantID, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return &n, nil
}

func (s *Storage) DeleteNote(ctx context.Context, tenantID, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteNote")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("notes").
		Where(sq.Eq{"id": id, "tenant_id": tenantID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) CountNotesByTenantID(ctx context.Context, tenantID string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CountNotesByTenantID")
	defer span.End()

	var count int
	err := s.db.Statement(ctx).
		Select("COUNT(*)").
		From("notes").
		Where(sq.Eq{"tenant_id": tenantID}).
		QueryRowContext(ctx).
		Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}

	return count, nil
}
