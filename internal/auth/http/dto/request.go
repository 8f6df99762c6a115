// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/bizdata/internal/validation"
)

// RequestOTPRequest asks for a login code to be emailed.
type RequestOTPRequest struct {
	Email string `json:"email"`
}

// Validate checks if the request OTP request is valid.
func (r *RequestOTPRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			validation.Length(3, 254),
			customValidation.Email,
		),
	)
}

// VerifyOTPRequest exchanges an emailed code for a session token.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate checks if the verify OTP request is valid.
func (r *VerifyOTPRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			validation.Length(3, 254),
			customValidation.Email,
		),
		validation.Field(&r.Code,
			validation.Required,
			customValidation.OTPCode,
		),
	)
}

// CreateAPIKeyRequest contains the parameters for minting an API key.
type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

// Validate checks if the create API key request is valid.
func (r *CreateAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
	)
}
