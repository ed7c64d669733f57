// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/notes-service/internal/db"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/storage"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
	"github.com/canonical/notes-service/pkg/authentication"
)

// stubStorage serves a single tenant with one user and one note, enough to
// walk a request through the full middleware chain.
type stubStorage struct {
	tenant *types.Tenant
	user   *types.User
	note   *types.Note
}

var _ storage.StorageInterface = (*stubStorage)(nil)

func newStubStorage() *stubStorage {
	return &stubStorage{
		tenant: &types.Tenant{ID: "tenant-1", Name: "Acme", Slug: "acme", Subscription: types.SubscriptionFree, NoteLimit: types.DefaultNoteLimit},
		user:   &types.User{ID: "user-1", Email: "admin@acme.test", Role: types.RoleAdmin, TenantID: "tenant-1"},
		note:   &types.Note{ID: "note-1", Title: "title", Content: "content", TenantID: "tenant-1", CreatedBy: "user-1"},
	}
}

func (s *stubStorage) CreateTenant(_ context.Context, t *types.Tenant) (*types.Tenant, error) {
	return t, nil
}

func (s *stubStorage) GetTenantByID(context.Context, string) (*types.Tenant, error) {
	return s.tenant, nil
}

func (s *stubStorage) GetTenantBySlug(context.Context, string) (*types.Tenant, error) {
	return s.tenant, nil
}

func (s *stubStorage) UpgradeTenant(context.Context, string) (*types.Tenant, error) {
	return s.tenant, nil
}

func (s *stubStorage) CreateUser(_ context.Context, u *types.User) (*types.User, error) {
	return u, nil
}

func (s *stubStorage) GetUserByEmail(context.Context, string) (*types.User, error) {
	return s.user, nil
}

func (s *stubStorage) GetUserByID(context.Context, string) (*types.User, error) {
	return s.user, nil
}

func (s *stubStorage) ListUsersByTenantID(context.Context, string) ([]*types.User, error) {
	return []*types.User{s.user}, nil
}

func (s *stubStorage) CreateNote(_ context.Context, n *types.Note) (*types.Note, error) {
	return n, nil
}

func (s *stubStorage) GetNote(context.Context, string, string) (*types.Note, error) {
	return s.note, nil
}

func (s *stubStorage) ListNotesByTenantID(context.Context, string) ([]*types.Note, error) {
	return []*types.Note{s.note}, nil
}

func (s *stubStorage) UpdateNote(context.Context, string, string, *string, *string) (*types.Note, error) {
	return s.note, nil
}

func (s *stubStorage) DeleteNote(context.Context, string, string) error {
	return nil
}

func (s *stubStorage) CountNotesByTenantID(context.Context, string) (int, error) {
	return 1, nil
}

// stubDBClient runs transaction callbacks directly, with no database behind
// them.
type stubDBClient struct{}

var _ db.DBClientInterface = (*stubDBClient)(nil)

func (c *stubDBClient) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder
}

func (c *stubDBClient) TxStatement(context.Context) (db.TxInterface, sq.StatementBuilderType, error) {
	return nil, sq.StatementBuilder, nil
}

func (c *stubDBClient) BeginTx(ctx context.Context) (context.Context, db.TxInterface, error) {
	return ctx, nil, nil
}

func (c *stubDBClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (c *stubDBClient) Close() {}

func newTestRouter() http.Handler {
	return NewRouter(
		RouterConfig{
			TokenSecret:   []byte("test-secret"),
			TokenLifetime: time.Hour,
			CORSOrigins:   []string{"*"},
		},
		newStubStorage(),
		&stubDBClient{},
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func issueTestToken(t *testing.T) string {
	t.Helper()

	codec := authentication.NewTokenCodec([]byte("test-secret"), time.Hour, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
	token, err := codec.IssueToken(context.Background(), &types.Principal{
		UserID:   "user-1",
		Email:    "admin@acme.test",
		Role:     types.RoleAdmin,
		TenantID: "tenant-1",
	})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func TestRouter_StatusIsPublic(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v0/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_NotesRequireToken(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/notes", "/notes/note-1", "/tenants/acme", "/tenants/users"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected status 401, got %d", path, rec.Code)
		}
	}
}

func TestRouter_AuthenticatedNoteFlow(t *testing.T) {
	router := newTestRouter()
	token := issueTestToken(t)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Notes []*types.Note `json:"notes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Notes) != 1 {
		t.Errorf("expected 1 note, got %d", len(body.Notes))
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/notes", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard allow-origin, got %q", got)
	}
}

func TestRouter_LoginIsPublic(t *testing.T) {
	router := newTestRouter()

	// Stub storage knows a single user; whatever password we send will fail
	// bcrypt, which still proves the route is reachable without a token.
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code == http.StatusUnauthorized {
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode error body: %v", err)
		}
		if body.Error == "No token provided" {
			t.Error("login must not sit behind the authentication middleware")
		}
	}
}
