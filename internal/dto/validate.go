package dto

import "github.com/go-playground/validator/v10"

// Validate is the shared request validator. Handlers run inbound DTOs through
// it before touching any store.
var Validate = validator.New()
