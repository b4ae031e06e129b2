package core

import (
	"github.com/go-playground/validator/v10"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// Validator wraps go-playground/validator for request payload validation.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator using struct tag validation rules.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateStruct validates dst against its struct tags, translating the first
// failure into a 400 AppError naming the offending field.
func (v *Validator) ValidateStruct(dst interface{}) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		e := types.NewAppError(
			types.ErrCodeValidationMissingField,
			"invalid value for field "+fe.Field(),
			err,
		)
		return e.WithDetails(map[string]any{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}

	return types.NewAppError(types.ErrCodeValidationInvalidBody, "invalid request payload", err)
}
