// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/notes-service/internal/errs"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/storage"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
)

func TestService_Login(t *testing.T) {
	hash, err := HashPassword("password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := &types.User{
		ID:           "user-1",
		Email:        "admin@acme.test",
		PasswordHash: hash,
		Role:         types.RoleAdmin,
		TenantID:     "tenant-1",
	}
	dbErr := errors.New("db error")

	testCases := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(*MockStorageInterface, *MockTokenCodecInterface)
		expectedToken string
		expectedErr   error
	}{
		{
			name:     "success",
			email:    "admin@acme.test",
			password: "password",
			setupMocks: func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockStorage.EXPECT().GetUserByEmail(gomock.Any(), "admin@acme.test").Return(user, nil)
				mockCodec.EXPECT().IssueToken(gomock.Any(), &types.Principal{
					UserID:   user.ID,
					Email:    user.Email,
					Role:     user.Role,
					TenantID: user.TenantID,
				}).Return("signed-token", nil)
			},
			expectedToken: "signed-token",
		},
		{
			name:     "email is normalized before lookup",
			email:    "  Admin@Acme.Test ",
			password: "password",
			setupMocks: func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockStorage.EXPECT().GetUserByEmail(gomock.Any(), "admin@acme.test").Return(user, nil)
				mockCodec.EXPECT().IssueToken(gomock.Any(), gomock.Any()).Return("signed-token", nil)
			},
			expectedToken: "signed-token",
		},
		{
			name:     "unknown email",
			email:    "nobody@acme.test",
			password: "password",
			setupMocks: func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockStorage.EXPECT().GetUserByEmail(gomock.Any(), "nobody@acme.test").Return(nil, storage.ErrNotFound)
			},
			expectedErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "admin@acme.test",
			password: "wrong-password",
			setupMocks: func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockStorage.EXPECT().GetUserByEmail(gomock.Any(), "admin@acme.test").Return(user, nil)
			},
			expectedErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "storage error",
			email:    "admin@acme.test",
			password: "password",
			setupMocks: func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockStorage.EXPECT().GetUserByEmail(gomock.Any(), "admin@acme.test").Return(nil, dbErr)
			},
			expectedErr: dbErr,
		},
		{
			name:     "token issuance error",
			email:    "admin@acme.test",
			password: "password",
			setupMocks: func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockStorage.EXPECT().GetUserByEmail(gomock.Any(), "admin@acme.test").Return(user, nil)
				mockCodec.EXPECT().IssueToken(gomock.Any(), gomock.Any()).Return("", errors.New("signing error"))
			},
			expectedErr: errors.New("signing error"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockCodec := NewMockTokenCodecInterface(ctrl)

			s := NewService(mockStorage, mockCodec, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())

			tc.setupMocks(mockStorage, mockCodec)

			token, gotUser, err := s.Login(context.Background(), tc.email, tc.password)

			if tc.expectedErr != nil {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if errors.Is(tc.expectedErr, errs.ErrInvalidCredentials) && !errors.Is(err, errs.ErrInvalidCredentials) {
					t.Errorf("expected invalid credentials error, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tc.expectedToken {
				t.Errorf("expected token %s, got %s", tc.expectedToken, token)
			}
			if gotUser == nil || gotUser.ID != user.ID {
				t.Errorf("expected user %s, got %+v", user.ID, gotUser)
			}
		})
	}
}

// Unknown email and wrong password must produce the same error so the login
// response does not reveal which emails are registered.
func TestService_Login_UnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := HashPassword("password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user := &types.User{ID: "user-1", Email: "admin@acme.test", PasswordHash: hash, Role: types.RoleAdmin, TenantID: "tenant-1"}

	mockStorage := NewMockStorageInterface(ctrl)
	mockCodec := NewMockTokenCodecInterface(ctrl)
	s := NewService(mockStorage, mockCodec, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())

	mockStorage.EXPECT().GetUserByEmail(gomock.Any(), "nobody@acme.test").Return(nil, storage.ErrNotFound)
	_, _, unknownErr := s.Login(context.Background(), "nobody@acme.test", "password")

	mockStorage.EXPECT().GetUserByEmail(gomock.Any(), "admin@acme.test").Return(user, nil)
	_, _, wrongErr := s.Login(context.Background(), "admin@acme.test", "wrong-password")

	if unknownErr == nil || wrongErr == nil {
		t.Fatal("expected both logins to fail")
	}
	if errs.Message(unknownErr) != errs.Message(wrongErr) {
		t.Errorf("expected identical messages, got %q and %q", errs.Message(unknownErr), errs.Message(wrongErr))
	}
}
