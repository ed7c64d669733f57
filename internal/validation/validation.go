// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validate checks the struct tags on payload and returns a single error
// naming the offending fields, decoupled from any storage concern.
func Validate(payload interface{}) error {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verr validator.ValidationErrors
	ok := false
	if verr, ok = err.(validator.ValidationErrors); !ok {
		return err
	}

	fields := make([]string, 0, len(verr))
	for _, fe := range verr {
		fields = append(fields, fe.Field())
	}

	return fmt.Errorf("invalid or missing fields: %s", strings.Join(fields, ", "))
}
