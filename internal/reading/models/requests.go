package models

import (
	"strings"

	paymentModels "cosmonumero/internal/payment/models"
	dErrors "cosmonumero/pkg/domain-errors"
	"cosmonumero/pkg/email"
)

const maxPhoneLength = 32

// PreviewRequest is the body of POST /readings/preview.
type PreviewRequest struct {
	FormData paymentModels.FormData `json:"formData"`
}

func (r *PreviewRequest) Normalize() {
	if r == nil {
		return
	}
	r.FormData.Normalize()
}

func (r *PreviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return r.FormData.Validate()
}

// GenerateRequest is the body of POST /readings. FormData is optional; when
// present it must describe the paid checkout.
type GenerateRequest struct {
	FormData *paymentModels.FormData `json:"formData,omitempty"`
}

func (r *GenerateRequest) Normalize() {
	if r == nil {
		return
	}
	r.FormData.Normalize()
}

func (r *GenerateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.FormData == nil {
		return nil
	}
	return r.FormData.Validate()
}

// Subject returns the form as a reading subject, or nil when none was sent.
func (r *GenerateRequest) Subject() *Subject {
	if r == nil || r.FormData == nil {
		return nil
	}
	return &Subject{FullName: r.FormData.FullName, BirthDate: r.FormData.ParsedBirthDate()}
}

// ContactData is where a report should be sent.
type ContactData struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// DeliverRequest is the body of POST /readings/email.
type DeliverRequest struct {
	ContactData ContactData `json:"contactData"`
}

func (r *DeliverRequest) Normalize() {
	if r == nil {
		return
	}
	r.ContactData.Email = email.Normalize(r.ContactData.Email)
	r.ContactData.Phone = strings.TrimSpace(r.ContactData.Phone)
}

// Follows validation order: Size -> Required -> Syntax.
func (r *DeliverRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.ContactData.Phone) > maxPhoneLength {
		return dErrors.New(dErrors.CodeValidation, "phone must be 32 characters or less")
	}
	if err := email.Validate(r.ContactData.Email); err != nil {
		return err
	}
	for _, c := range r.ContactData.Phone {
		if !strings.ContainsRune("0123456789+()- ", c) {
			return dErrors.New(dErrors.CodeValidation, "phone is invalid")
		}
	}
	return nil
}
