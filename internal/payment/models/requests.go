package models

import (
	"strings"

	"cosmonumero/internal/numerology"
	dErrors "cosmonumero/pkg/domain-errors"
)

const maxNameLength = 200

// FormData is the customer form shared by checkout and reading requests.
type FormData struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`

	parsedBirthDate numerology.BirthDate
}

func (f *FormData) Normalize() {
	if f == nil {
		return
	}
	f.FullName = strings.Join(strings.Fields(f.FullName), " ")
	f.BirthDate = strings.TrimSpace(f.BirthDate)
}

// Follows validation order: Size -> Required -> Syntax.
func (f *FormData) Validate() error {
	if f == nil {
		return dErrors.New(dErrors.CodeBadRequest, "formData is required")
	}
	if len(f.FullName) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "fullName must be 200 characters or less")
	}
	if f.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "fullName is required")
	}
	if !numerology.HasLetters(f.FullName) {
		return dErrors.New(dErrors.CodeValidation, "fullName must contain latin letters")
	}
	if f.BirthDate == "" {
		return dErrors.New(dErrors.CodeValidation, "birthDate is required")
	}
	bd, err := numerology.ParseBirthDate(f.BirthDate)
	if err != nil {
		return err
	}
	f.parsedBirthDate = bd
	return nil
}

// ParsedBirthDate is populated by Validate.
func (f *FormData) ParsedBirthDate() numerology.BirthDate {
	return f.parsedBirthDate
}

// CreateCheckoutRequest is the body of POST /checkout.
type CreateCheckoutRequest struct {
	FormData    FormData `json:"formData"`
	Description string   `json:"description,omitempty"`
	// Amount is informational; the configured price is always charged.
	Amount *float64 `json:"amount,omitempty"`
}

func (r *CreateCheckoutRequest) Normalize() {
	if r == nil {
		return
	}
	r.FormData.Normalize()
	r.Description = strings.TrimSpace(r.Description)
}

func (r *CreateCheckoutRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Description) > 200 {
		return dErrors.New(dErrors.CodeValidation, "description must be 200 characters or less")
	}
	if r.Amount != nil && *r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	return r.FormData.Validate()
}

// VerifyPaymentRequest is the body of POST /checkout/verify.
type VerifyPaymentRequest struct {
	PaymentID         string `json:"paymentId"`
	ExternalReference string `json:"externalReference"`
}

func (r *VerifyPaymentRequest) Normalize() {
	if r == nil {
		return
	}
	r.PaymentID = strings.TrimSpace(r.PaymentID)
	r.ExternalReference = strings.TrimSpace(r.ExternalReference)
}

func (r *VerifyPaymentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.PaymentID) > 64 || len(r.ExternalReference) > 64 {
		return dErrors.New(dErrors.CodeValidation, "identifier is too long")
	}
	if r.PaymentID == "" {
		return dErrors.New(dErrors.CodeValidation, "paymentId is required")
	}
	if !isDigits(r.PaymentID) {
		return dErrors.New(dErrors.CodeValidation, "paymentId must be numeric")
	}
	if r.ExternalReference == "" {
		return dErrors.New(dErrors.CodeValidation, "externalReference is required")
	}
	return nil
}
