// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	httptypes "github.com/canonical/notes-service/internal/http/types"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
)

func newTestMiddleware(codec TokenCodecInterface) *Middleware {
	return NewMiddleware(codec, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
}

func TestMiddleware_Authenticate(t *testing.T) {
	principal := &types.Principal{UserID: "user-1", Email: "admin@acme.test", Role: types.RoleAdmin, TenantID: "tenant-1"}

	testCases := []struct {
		name           string
		authorization  string
		setupMocks     func(*MockTokenCodecInterface)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing header",
			authorization:  "",
			setupMocks:     func(mockCodec *MockTokenCodecInterface) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "No token provided",
		},
		{
			name:           "wrong scheme",
			authorization:  "Basic dXNlcjpwYXNz",
			setupMocks:     func(mockCodec *MockTokenCodecInterface) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "No token provided",
		},
		{
			name:          "invalid token",
			authorization: "Bearer bad-token",
			setupMocks: func(mockCodec *MockTokenCodecInterface) {
				mockCodec.EXPECT().VerifyToken(gomock.Any(), "bad-token").Return(nil, errors.New("token malformed"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
		{
			name:          "valid token",
			authorization: "Bearer good-token",
			setupMocks: func(mockCodec *MockTokenCodecInterface) {
				mockCodec.EXPECT().VerifyToken(gomock.Any(), "good-token").Return(principal, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCodec := NewMockTokenCodecInterface(ctrl)
			tc.setupMocks(mockCodec)

			var gotPrincipal *types.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPrincipal, _ = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := newTestMiddleware(mockCodec).Authenticate()(next)

			req := httptest.NewRequest(http.MethodGet, "/notes", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, rec.Code)
			}

			if tc.expectedStatus == http.StatusOK {
				if gotPrincipal == nil || gotPrincipal.UserID != principal.UserID {
					t.Errorf("expected principal %s in context, got %+v", principal.UserID, gotPrincipal)
				}
				return
			}

			var body httptypes.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Error != tc.expectedError {
				t.Errorf("expected error %q, got %q", tc.expectedError, body.Error)
			}
		})
	}
}

func TestMiddleware_RequireRole(t *testing.T) {
	testCases := []struct {
		name           string
		principal      *types.Principal
		requiredRole   string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "admin passes admin gate",
			principal:      &types.Principal{UserID: "user-1", Role: types.RoleAdmin, TenantID: "tenant-1"},
			requiredRole:   types.RoleAdmin,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "member rejected by admin gate",
			principal:      &types.Principal{UserID: "user-2", Role: types.RoleMember, TenantID: "tenant-1"},
			requiredRole:   types.RoleAdmin,
			expectedStatus: http.StatusForbidden,
			expectedError:  "Insufficient permissions",
		},
		{
			name:           "missing principal",
			principal:      nil,
			requiredRole:   types.RoleAdmin,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := newTestMiddleware(NewMockTokenCodecInterface(ctrl)).RequireRole(tc.requiredRole)(next)

			req := httptest.NewRequest(http.MethodPost, "/tenants/invite", nil)
			if tc.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), tc.principal))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

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
