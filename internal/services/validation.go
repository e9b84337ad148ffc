package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"shopify-app-api/internal/models"
)

// newValidator returns a validator with the shopdomain tag registered
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("shopdomain", func(fl validator.FieldLevel) bool {
		return models.IsValidShopDomain(fl.Field().String())
	})
	return v
}

// validateRequest maps validation failures onto the service error taxonomy.
// A missing field wins over a malformed one.
func validateRequest(v *validator.Validate, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for _, fe := range validationErrors {
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %s", ErrMissingParameter, fe.Field())
		}
	}
	for _, fe := range validationErrors {
		if fe.Tag() == "shopdomain" {
			return fmt.Errorf("%w: %v", ErrInvalidTenant, fe.Value())
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
