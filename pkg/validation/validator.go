package validation

import "github.com/go-playground/validator/v10"

// Validator adapts go-playground/validator to echo's Validator interface
type Validator struct {
	validate *validator.Validate
}

// New creates a request validator
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks the struct tags of the bound request
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
