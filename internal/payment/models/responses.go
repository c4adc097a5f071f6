package models

import "time"

// CheckoutResponse is the body returned by POST /checkout.
type CheckoutResponse struct {
	PreferenceID      string `json:"preferenceId"`
	InitPoint         string `json:"initPoint"`
	ExternalReference string `json:"externalReference"`
}

func FromCheckoutResult(r *CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		PreferenceID:      r.PreferenceID,
		InitPoint:         r.InitPoint,
		ExternalReference: r.ExternalReference,
	}
}

// VerifyResponse is the body returned by POST /checkout/verify.
type VerifyResponse struct {
	PaymentID       string     `json:"paymentId"`
	Status          Status     `json:"status"`
	PaymentApproved bool       `json:"paymentApproved"`
	Source          string     `json:"source"`
	AccessToken     string     `json:"accessToken,omitempty"`
	TokenExpiresAt  *time.Time `json:"tokenExpiresAt,omitempty"`
}

func FromVerifyResult(r *VerifyResult) VerifyResponse {
	resp := VerifyResponse{
		PaymentID:       r.PaymentID,
		Status:          r.Status,
		PaymentApproved: r.Approved,
		Source:          r.Source,
		AccessToken:     r.AccessToken,
	}
	if !r.TokenExpiresAt.IsZero() {
		exp := r.TokenExpiresAt
		resp.TokenExpiresAt = &exp
	}
	return resp
}

// PublicConfig is served at GET /config for the checkout page.
type PublicConfig struct {
	PublicKey   string  `json:"mpPublicKey"`
	BaseURL     string  `json:"mpBaseUrl"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Preview     bool    `json:"previewEnabled"`
}
