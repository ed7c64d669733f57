// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package types maps domain errors and payloads onto the JSON wire format.
package types

import (
	"encoding/json"
	"net/http"

	"github.com/canonical/notes-service/internal/errs"
)

// ErrorResponse is the body returned for every failed request.
// LimitReached is the machine readable quota flag the UI keys the upgrade
// prompt on; it is omitted for every other error class.
type ErrorResponse struct {
	Error        string `json:"error"`
	LimitReached bool   `json:"limitReached,omitempty"`
}

// StatusOf maps an error to its HTTP status code. Errors outside the
// taxonomy are treated as internal.
func StatusOf(err error) int {
	switch errs.TypeOf(err) {
	case errs.ErrorTypeValidation:
		return http.StatusBadRequest
	case errs.ErrorTypeUnauthenticated:
		return http.StatusUnauthorized
	case errs.ErrorTypeForbidden, errs.ErrorTypeQuotaExceeded:
		return http.StatusForbidden
	case errs.ErrorTypeNotFound:
		return http.StatusNotFound
	case errs.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes the JSON error body for err with the mapped status code.
func WriteError(w http.ResponseWriter, err error) error {
	body := ErrorResponse{
		Error:        errs.Message(err),
		LimitReached: errs.IsQuotaExceeded(err),
	}
	return WriteJSON(w, StatusOf(err), body)
}
