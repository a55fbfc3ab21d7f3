package core

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"courier/internal/types"
)

// Validator wraps go-playground/validator. Struct tags drive the rules;
// failures are translated into validation AppErrors with one detail entry per
// offending field.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator using struct field JSON names in error
// output.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v, logger: logger}
}

// ValidateStruct checks the struct against its validate tags. The returned
// error is a validation AppError whose details map each failing field to its
// failed rule; an email rule failure gets its own code so clients can tell a
// bad address from a missing field.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"value is not validatable", err)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return types.NewAppError(types.ErrCodeValidationInvalidBody,
			"request validation failed", err)
	}

	details := make(map[string]any, len(fieldErrs))
	code := types.ErrCodeValidationInvalidBody
	allRequired := true
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
		if fe.Tag() == "email" && len(fieldErrs) == 1 {
			code = types.ErrCodeValidationInvalidEmail
		}
		if fe.Tag() != "required" {
			allRequired = false
		}
	}
	if allRequired {
		code = types.ErrCodeValidationMissingField
	}

	return types.NewAppErrorWithDetails(code, "request validation failed", err, details)
}
