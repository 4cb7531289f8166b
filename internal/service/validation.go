// internal/service/validation.go
package service

import "github.com/go-playground/validator/v10"

// validate checks service inputs; util.DescribeValidation renders its errors.
var validate = validator.New(validator.WithRequiredStructEnabled())
