// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/notes-service/internal/errs"
)

func TestStatusOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", errs.New(errs.ErrorTypeValidation, "bad input"), http.StatusBadRequest},
		{"unauthenticated", errs.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", errs.ErrForbidden, http.StatusForbidden},
		{"quota", errs.ErrNoteLimitReached, http.StatusForbidden},
		{"not found", errs.ErrNoteNotFound, http.StatusNotFound},
		{"conflict", errs.ErrUserExists, http.StatusConflict},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusOf(tc.err); got != tc.expected {
				t.Errorf("expected status %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("quota error sets the limit flag", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if err := WriteError(rec, errs.ErrNoteLimitReached); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", rec.Code)
		}

		var body ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if !body.LimitReached {
			t.Error("expected limitReached to be true")
		}
		if body.Error != "Note limit reached. Please upgrade to Pro plan." {
			t.Errorf("unexpected message %q", body.Error)
		}
	})

	t.Run("untyped error never leaks detail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if err := WriteError(rec, errors.New("pq: column does not exist")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}

		var body ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Error != "Internal server error" {
			t.Errorf("expected generic message, got %q", body.Error)
		}
		if body.LimitReached {
			t.Error("expected limitReached to be omitted")
		}
	})
}
