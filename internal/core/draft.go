package core

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks the draft against its field constraints before any
// create request is issued.
func (d ProductDraft) Validate() error {
	return validate.Struct(d)
}
