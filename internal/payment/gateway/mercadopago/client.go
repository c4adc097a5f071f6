// Package mercadopago adapts the Mercado Pago SDK to the payment gateway port:
// checkout preferences for hosted checkout and payment lookups for verification.
package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"cosmonumero/internal/payment/models"
	dErrors "cosmonumero/pkg/domain-errors"
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 500 * time.Millisecond
)

// Config holds the account credentials and the URLs embedded in every preference.
type Config struct {
	AccessToken string
	// BaseURL overrides the API host, for sandboxes and tests.
	BaseURL             string
	StatementDescriptor string
	// SuccessURL, FailureURL and PendingURL are where the hosted checkout returns.
	SuccessURL      string
	FailureURL      string
	PendingURL      string
	NotificationURL string
	Timeout         time.Duration
}

// Client implements the payment gateway port.
type Client struct {
	cfg         Config
	requester   *retryRequester
	preferences preference.Client
	payments    payment.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.requester.http = c
		}
	}
}

// WithRetry sets attempts and the first backoff delay; delays double per attempt.
func WithRetry(maxRetries int, initialDelay time.Duration) Option {
	return func(cl *Client) {
		if maxRetries > 0 {
			cl.requester.maxRetries = maxRetries
		}
		if initialDelay >= 0 {
			cl.requester.initialDelay = initialDelay
		}
	}
}

// New builds the SDK clients. Without an access token every call answers
// CodeUnavailable.
func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		cfg: cfg,
		requester: &retryRequester{
			baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
			http:         &http.Client{Timeout: timeout},
			maxRetries:   defaultMaxRetries,
			initialDelay: defaultInitialDelay,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.AccessToken == "" {
		return c
	}

	sdkCfg, err := mpconfig.New(cfg.AccessToken, mpconfig.WithRequester(c.requester))
	if err != nil {
		return c
	}
	c.preferences = preference.NewClient(sdkCfg)
	c.payments = payment.NewClient(sdkCfg)
	return c
}

func (c *Client) configured() bool {
	return c.preferences != nil && c.payments != nil
}

// CreateSession creates a checkout preference and returns its init point.
func (c *Client) CreateSession(ctx context.Context, req models.SessionRequest) (*models.Session, error) {
	if !c.configured() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "payment gateway is not configured")
	}
	resp, err := c.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{{
			Title:      req.Title,
			Quantity:   1,
			CurrencyID: req.Currency,
			UnitPrice:  centsToAmount(req.AmountCents),
		}},
		Payer: &preference.PayerRequest{Name: req.PayerName},
		PaymentMethods: &preference.PaymentMethodsRequest{
			ExcludedPaymentTypes: []preference.ExcludedPaymentTypeRequest{{ID: "ticket"}, {ID: "atm"}},
			Installments:         1,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: c.cfg.SuccessURL,
			Failure: c.cfg.FailureURL,
			Pending: c.cfg.PendingURL,
		},
		NotificationURL:     c.cfg.NotificationURL,
		AutoReturn:          "approved",
		ExternalReference:   req.ExternalReference,
		StatementDescriptor: c.cfg.StatementDescriptor,
		Metadata: map[string]any{
			"customer_name": req.PayerName,
			"birth_date":    req.BirthDate,
		},
	})
	if err != nil {
		return nil, gatewayError(ctx, err, "create preference")
	}
	if resp.ID == "" || resp.InitPoint == "" {
		return nil, dErrors.New(dErrors.CodeUnavailable, "payment gateway returned an incomplete preference")
	}
	return &models.Session{ID: resp.ID, RedirectURL: resp.InitPoint}, nil
}

// GetPayment fetches one payment. An unknown id maps to CodeNotFound.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	if !c.configured() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "payment gateway is not configured")
	}
	id, err := strconv.Atoi(paymentID)
	if err != nil || id <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "payment id must be numeric")
	}

	resp, err := c.payments.Get(ctx, id)
	if err != nil {
		return nil, gatewayError(ctx, err, "get payment")
	}
	if resp.ID == 0 {
		return nil, dErrors.New(dErrors.CodeUnavailable, "payment gateway returned a payment without id")
	}
	return &models.Payment{
		ID:                strconv.Itoa(resp.ID),
		Status:            models.ParseGatewayStatus(resp.Status),
		RawStatus:         resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
		AmountCents:       amountToCents(resp.TransactionAmount),
	}, nil
}

// gatewayError classifies SDK failures into domain codes.
func gatewayError(ctx context.Context, err error, op string) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "payment gateway call timed out")
	}

	var respErr *mperror.ResponseError
	if !errors.As(err, &respErr) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "payment gateway unavailable")
	}
	msg := apiMessage(respErr.Message)
	wrapped := fmt.Errorf("mercado pago %s: status %d: %s", op, respErr.StatusCode, msg)
	switch {
	case respErr.StatusCode == http.StatusNotFound:
		return dErrors.Wrap(wrapped, dErrors.CodeNotFound, "payment not found")
	case respErr.StatusCode == http.StatusUnauthorized || respErr.StatusCode == http.StatusForbidden:
		return dErrors.Wrap(wrapped, dErrors.CodeUnavailable, "payment gateway rejected credentials")
	case respErr.StatusCode == http.StatusTooManyRequests || respErr.StatusCode >= 500:
		return dErrors.Wrap(wrapped, dErrors.CodeUnavailable, "payment gateway unavailable")
	default:
		return dErrors.Wrap(wrapped, dErrors.CodeBadRequest, "payment gateway rejected the request: "+msg)
	}
}

// apiMessage pulls the human message out of an API error body.
func apiMessage(body string) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal([]byte(body), &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	s := strings.TrimSpace(body)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

func amountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
