package validation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/sgacorrect/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.errors)
}

// Int parses raw as a base-10 integer. An empty (or blank) raw value yields
// def; an unparsable one records an error and yields def.
func (v *Validator) Int(field, raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.AddError(field, fmt.Sprintf("must be an integer (got %q)", raw))
		return def
	}
	return n
}

// Bool parses raw as a boolean. An empty raw value yields def.
func (v *Validator) Bool(field, raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		v.AddError(field, fmt.Sprintf("must be true or false (got %q)", raw))
		return def
	}
	return b
}

// Duration parses raw as a time.Duration ("90s", "2h"). A bare integer is
// taken as seconds. An empty raw value yields def.
func (v *Validator) Duration(field, raw string, def time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		v.AddError(field, fmt.Sprintf("must be a duration such as 30m or 2h (got %q)", raw))
		return def
	}
	return d
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// Min checks if a number meets minimum value.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.AddError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return v
}

// OneOf checks if a value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	if slices.Contains(allowed, value) {
		return v
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// fieldsError folds field errors into one INVALID_PARAMETER error. A single
// failure keeps its field as the "field" detail.
func fieldsError(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.WithDetail("fields", fields)
	if len(fields) == 1 {
		appErr.WithDetail("field", fields[0].Field)
	}
	return appErr
}
