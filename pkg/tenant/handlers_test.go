// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chi "github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/notes-service/internal/errs"
	httptypes "github.com/canonical/notes-service/internal/http/types"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
	"github.com/canonical/notes-service/pkg/authentication"
)

func newTestAPI(t *testing.T) (*API, *MockServiceInterface) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := NewMockServiceInterface(ctrl)
	auth := authentication.NewMiddleware(
		authentication.NewMockTokenCodecInterface(ctrl),
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
	api := NewAPI(mockService, auth, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
	return api, mockService
}

func serveWithPrincipal(api *API, principal *types.Principal, req *http.Request) *httptest.ResponseRecorder {
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	if principal != nil {
		req = req.WithContext(authentication.WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAPI_GetTenant(t *testing.T) {
	principal := &types.Principal{UserID: "user-2", Email: "user@acme.test", Role: types.RoleMember, TenantID: "tenant-1"}

	testCases := []struct {
		name           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "member can read own tenant",
			setupMocks: func(mockService *MockServiceInterface) {
				mockService.EXPECT().GetTenantBySlug(gomock.Any(), principal, "acme").Return(acmeTenant(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "cross tenant slug",
			setupMocks: func(mockService *MockServiceInterface) {
				mockService.EXPECT().GetTenantBySlug(gomock.Any(), principal, "acme").Return(nil, errs.ErrAccessDenied)
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "Access denied",
		},
		{
			name: "unknown slug",
			setupMocks: func(mockService *MockServiceInterface) {
				mockService.EXPECT().GetTenantBySlug(gomock.Any(), principal, "acme").Return(nil, errs.ErrTenantNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Tenant not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api, mockService := newTestAPI(t)
			tc.setupMocks(mockService)

			rec := serveWithPrincipal(api, principal, httptest.NewRequest(http.MethodGet, "/tenants/acme", nil))

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
			if tc.expectedError != "" {
				var body httptypes.ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if body.Error != tc.expectedError {
					t.Errorf("expected error %q, got %q", tc.expectedError, body.Error)
				}
			}
		})
	}
}

func TestAPI_UpgradeTenant(t *testing.T) {
	admin := adminPrincipal()
	member := &types.Principal{UserID: "user-2", Email: "user@acme.test", Role: types.RoleMember, TenantID: "tenant-1"}
	upgraded := &types.Tenant{ID: "tenant-1", Name: "Acme", Slug: "acme", Subscription: types.SubscriptionPro, NoteLimit: types.UnlimitedNotes}

	t.Run("admin upgrades", func(t *testing.T) {
		api, mockService := newTestAPI(t)
		mockService.EXPECT().UpgradeTenant(gomock.Any(), admin, "acme").Return(upgraded, nil)

		rec := serveWithPrincipal(api, admin, httptest.NewRequest(http.MethodPost, "/tenants/acme/upgrade", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var body TenantResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Tenant == nil || body.Tenant.Subscription != types.SubscriptionPro {
			t.Errorf("expected pro tenant, got %+v", body.Tenant)
		}
	})

	t.Run("member is rejected before the service runs", func(t *testing.T) {
		api, _ := newTestAPI(t)

		rec := serveWithPrincipal(api, member, httptest.NewRequest(http.MethodPost, "/tenants/acme/upgrade", nil))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", rec.Code)
		}
		var body httptypes.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode error body: %v", err)
		}
		if body.Error != "Insufficient permissions" {
			t.Errorf("expected error %q, got %q", "Insufficient permissions", body.Error)
		}
	})
}

func TestAPI_InviteUser(t *testing.T) {
	admin := adminPrincipal()
	invited := &types.User{ID: "user-3", Email: "new@acme.test", Role: types.RoleMember, TenantID: "tenant-1"}

	testCases := []struct {
		name           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			body: `{"email":"new@acme.test","role":"member"}`,
			setupMocks: func(mockService *MockServiceInterface) {
				mockService.EXPECT().InviteUser(gomock.Any(), admin, "new@acme.test", "member").Return(invited, "one-time-secret", nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing role",
			body:           `{"email":"new@acme.test"}`,
			setupMocks:     func(mockService *MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Email and role are required",
		},
		{
			name: "invalid role",
			body: `{"email":"new@acme.test","role":"superadmin"}`,
			setupMocks: func(mockService *MockServiceInterface) {
				mockService.EXPECT().InviteUser(gomock.Any(), admin, "new@acme.test", "superadmin").
					Return(nil, "", errs.New(errs.ErrorTypeValidation, "Invalid role. Must be admin or member"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid role. Must be admin or member",
		},
		{
			name: "duplicate email",
			body: `{"email":"existing@acme.test","role":"member"}`,
			setupMocks: func(mockService *MockServiceInterface) {
				mockService.EXPECT().InviteUser(gomock.Any(), admin, "existing@acme.test", "member").Return(nil, "", errs.ErrUserExists)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "User already exists",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api, mockService := newTestAPI(t)
			tc.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodPost, "/tenants/invite", strings.NewReader(tc.body))
			rec := serveWithPrincipal(api, admin, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, rec.Code)
			}

			if tc.expectedError != "" {
				var body httptypes.ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if body.Error != tc.expectedError {
					t.Errorf("expected error %q, got %q", tc.expectedError, body.Error)
				}
				return
			}

			var body InviteUserResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.User == nil || body.User.ID != invited.ID {
				t.Errorf("expected user %s, got %+v", invited.ID, body.User)
			}
			if body.TempPassword != "one-time-secret" {
				t.Errorf("expected one-time password in response, got %q", body.TempPassword)
			}
		})
	}
}

func TestAPI_ListUsers(t *testing.T) {
	admin := adminPrincipal()
	member := &types.Principal{UserID: "user-2", Email: "user@acme.test", Role: types.RoleMember, TenantID: "tenant-1"}

	t.Run("admin lists tenant users", func(t *testing.T) {
		api, mockService := newTestAPI(t)
		mockService.EXPECT().ListUsers(gomock.Any(), admin).Return([]*types.User{{ID: "user-1"}, {ID: "user-2"}}, nil)

		rec := serveWithPrincipal(api, admin, httptest.NewRequest(http.MethodGet, "/tenants/users", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var body UsersResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(body.Users) != 2 {
			t.Errorf("expected 2 users, got %d", len(body.Users))
		}
	})

	t.Run("member is rejected", func(t *testing.T) {
		api, _ := newTestAPI(t)

		rec := serveWithPrincipal(api, member, httptest.NewRequest(http.MethodGet, "/tenants/users", nil))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status 403, got %d", rec.Code)
		}
	})

	// /tenants/users must not be swallowed by the /tenants/{slug} route.
	t.Run("route precedence over slug", func(t *testing.T) {
		api, mockService := newTestAPI(t)
		mockService.EXPECT().ListUsers(gomock.Any(), admin).Return([]*types.User{}, nil)

		rec := serveWithPrincipal(api, admin, httptest.NewRequest(http.MethodGet, "/tenants/users", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var body UsersResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	})
}
