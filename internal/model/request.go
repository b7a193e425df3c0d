package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// GenerationRequest describes one suggestion generation call.
type GenerationRequest struct {
	JobTitle    string   `validate:"required"`
	Category    Category `validate:"required"`
	Count       int      `validate:"gt=0"`
	Temperature float64  `validate:"gte=0,lte=1"`
}

// Validate checks the category first, so an unknown category always surfaces
// as InvalidCategoryError, then the remaining field constraints.
// JobTitle is trimmed in place.
func (r *GenerationRequest) Validate() error {
	if !r.Category.Valid() {
		return &InvalidCategoryError{Value: string(r.Category)}
	}
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid generation request: %w", err)
	}
	return nil
}
