// Package models defines the core data structures of the meal planner:
// pantry ingredients, recipes, shopping items, profiles, accounts and
// subscriptions.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is shared by every package that checks user input.
var validate = validator.New(validator.WithRequiredStructEnabled())

// NewID returns a fresh time-ordered identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ValidationError reports user input that was rejected before any state
// was written. Fields lists the offending field names.
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation failed: %v", e.Err)
	}
	return fmt.Sprintf("validation failed on %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks v against its `validate` struct tags and returns a
// *ValidationError when any rule fails.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Err: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields, Err: err}
}

// Invalid builds a *ValidationError for a single field.
func Invalid(field, reason string) error {
	return &ValidationError{Fields: []string{field}, Err: errors.New(reason)}
}
