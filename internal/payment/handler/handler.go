package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"cosmonumero/internal/payment/models"
	dErrors "cosmonumero/pkg/domain-errors"
	"cosmonumero/pkg/platform/httputil"
	"cosmonumero/pkg/requestcontext"
)

// Service defines the checkout operations the handler exposes.
type Service interface {
	PublicConfig() models.PublicConfig
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error)
	Verify(ctx context.Context, paymentID, externalReference string) (*models.VerifyResult, error)
	HandleNotification(ctx context.Context, n models.Notification) (models.NotificationOutcome, error)
}

// Handler serves the checkout endpoints.
type Handler struct {
	logger          *slog.Logger
	service         Service
	frontendBaseURL string
}

// New creates a checkout Handler. frontendBaseURL is where hosted-checkout
// returns are redirected to.
func New(service Service, logger *slog.Logger, frontendBaseURL string) *Handler {
	return &Handler{
		logger:          logger,
		service:         service,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
	}
}

// Register registers the checkout routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/config", h.HandleConfig)
	r.Post("/checkout", h.HandleCheckout)
	r.Post("/checkout/verify", h.HandleVerify)
	r.Get("/checkout/return/{outcome}", h.HandleReturn)
}

// RegisterWebhook is separate so the webhook can sit behind its own rate class.
func (h *Handler) RegisterWebhook(r chi.Router) {
	r.Post("/checkout/webhook", h.HandleWebhook)
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.PublicConfig())
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateCheckoutRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Checkout(ctx, models.CheckoutRequest{
		FullName:    req.FormData.FullName,
		BirthDate:   req.FormData.ParsedBirthDate(),
		Description: req.Description,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create checkout",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.FromCheckoutResult(result))
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.VerifyPaymentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Verify(ctx, req.PaymentID, req.ExternalReference)
	if err != nil {
		h.logger.WarnContext(ctx, "payment verification failed",
			"request_id", requestID,
			"payment_id", req.PaymentID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "payment verified",
		"request_id", requestID,
		"payment_id", result.PaymentID,
		"status", result.Status,
		"source", result.Source,
	)
	httputil.WriteJSON(w, http.StatusOK, models.FromVerifyResult(result))
}

type webhookResponse struct {
	Status models.NotificationOutcome `json:"status"`
}

// HandleWebhook accepts gateway notifications. Older IPN deliveries carry the
// payment in the query string instead of the body.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read body"))
		return
	}

	var n models.Notification
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &n); err != nil {
			h.logger.WarnContext(ctx, "invalid webhook payload",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON"))
			return
		}
	}
	fillFromQuery(&n, r.URL.Query())

	outcome, err := h.service.HandleNotification(ctx, n)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to process webhook",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to process notification"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, webhookResponse{Status: outcome})
}

func fillFromQuery(n *models.Notification, q url.Values) {
	if n.Topic == "" {
		n.Topic = q.Get("topic")
		if n.Topic == "" {
			n.Topic = q.Get("type")
		}
	}
	if len(n.Resource) == 0 && len(n.Data.ID) == 0 {
		id := q.Get("data.id")
		if id == "" {
			id = q.Get("id")
		}
		if id != "" {
			raw, _ := json.Marshal(id)
			n.Resource = raw
		}
	}
}

// HandleReturn forwards the hosted-checkout return to the frontend, keeping
// the payment identifiers so the page can call verify.
func (h *Handler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	outcome := chi.URLParam(r, "outcome")
	switch outcome {
	case "success", "failure", "pending":
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown checkout outcome"))
		return
	}

	q := r.URL.Query()
	status := firstNonEmpty(q.Get("status"), q.Get("collection_status"))
	paymentID := firstNonEmpty(q.Get("payment_id"), q.Get("collection_id"))
	ref := q.Get("external_reference")

	h.logger.InfoContext(ctx, "checkout return",
		"request_id", requestcontext.RequestID(ctx),
		"outcome", outcome,
		"payment_id", paymentID,
		"external_reference", ref,
		"status", status,
	)

	params := url.Values{}
	params.Set("status", status)
	params.Set("payment_id", paymentID)
	params.Set("external_reference", ref)
	target := h.frontendBaseURL
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target+"?"+params.Encode(), http.StatusFound)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
