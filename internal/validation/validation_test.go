// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&loginPayload{Email: "admin@acme.test", Password: "password"}))

	err := Validate(&loginPayload{Email: "admin@acme.test"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Password")

	err = Validate(&loginPayload{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Password")
}
