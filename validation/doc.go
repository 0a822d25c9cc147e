// Package validation provides input validation for resolved configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report failures as a
// single INVALID_PARAMETER *errors.AppError whose "fields" detail lists
// every offending field.
//
// # Struct Tag Validation
//
//	type Plan struct {
//	    Threads int `json:"threads" validate:"gte=1"`
//	}
//	err := validation.Validate(plan)
//
// # Programmatic Validation
//
//	v := validation.New()
//	threads := v.Int("threads", raw, 1)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
