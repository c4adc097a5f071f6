package models

import (
	"time"

	"cosmonumero/internal/numerology"
)

// Status is the normalized payment state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusUnknown  Status = "unknown"
)

// ParseGatewayStatus maps a Mercado Pago payment status onto Status.
func ParseGatewayStatus(raw string) Status {
	switch raw {
	case "approved":
		return StatusApproved
	case "pending", "in_process", "in_mediation", "authorized":
		return StatusPending
	case "rejected", "cancelled", "refunded", "charged_back":
		return StatusRejected
	default:
		return StatusUnknown
	}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusUnknown:
		return true
	}
	return false
}

// Transaction is one checkout attempt, created pending and approved at most once.
type Transaction struct {
	ID                string
	ExternalReference string
	PreferenceID      string
	PaymentID         string
	CustomerName      string
	BirthDate         numerology.BirthDate
	AmountCents       int64
	Currency          string
	Description       string
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t *Transaction) IsApproved() bool {
	return t != nil && t.Status == StatusApproved
}

// SessionRequest is what the gateway needs to open a hosted checkout.
type SessionRequest struct {
	Title             string
	AmountCents       int64
	Currency          string
	PayerName         string
	BirthDate         string
	ExternalReference string
}

// Session is an opened hosted checkout.
type Session struct {
	ID          string
	RedirectURL string
}

// Payment is the gateway's view of one payment.
type Payment struct {
	ID                string
	Status            Status
	RawStatus         string
	StatusDetail      string
	ExternalReference string
	AmountCents       int64
}

// CachedStatus is the fast-path record of a checkout's last known status.
type CachedStatus struct {
	PaymentID string    `json:"payment_id"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckoutRequest is the service input for opening a checkout.
type CheckoutRequest struct {
	FullName    string
	BirthDate   numerology.BirthDate
	Description string
}

// CheckoutResult is returned to the browser, which redirects to InitPoint.
type CheckoutResult struct {
	PreferenceID      string
	InitPoint         string
	ExternalReference string
}

// Verification sources.
const (
	SourceLocal = "local"
	SourceAPI   = "api"
)

// VerifyResult reports a payment's status and, once approved, a reading access token.
type VerifyResult struct {
	PaymentID      string
	Status         Status
	Approved       bool
	Source         string
	AccessToken    string
	TokenExpiresAt time.Time
}

// NotificationOutcome is how a webhook delivery was handled.
type NotificationOutcome string

const (
	NotificationProcessed NotificationOutcome = "success"
	NotificationIgnored   NotificationOutcome = "ignored"
)
