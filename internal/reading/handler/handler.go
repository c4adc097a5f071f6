package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cosmonumero/internal/reading/models"
	dErrors "cosmonumero/pkg/domain-errors"
	"cosmonumero/pkg/platform/httputil"
	"cosmonumero/pkg/requestcontext"
)

// Service defines the reading operations the handler exposes.
type Service interface {
	Preview(ctx context.Context, subject models.Subject) (*models.Reading, error)
	Generate(ctx context.Context, externalReference string, subject *models.Subject) (*models.Reading, error)
	Deliver(ctx context.Context, externalReference string, contact models.ContactData) error
	Report(ctx context.Context, externalReference string) (*models.Document, error)
}

// Handler serves the reading endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Register registers the unauthenticated reading routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/readings/preview", h.HandlePreview)
}

// RegisterAuthenticated registers routes that need a reading access token.
// The caller mounts them behind the token middleware.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/readings", h.HandleGenerate)
	r.Post("/readings/email", h.HandleDeliver)
	r.Post("/readings/pdf", h.HandleReport)
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.PreviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reading, err := h.service.Preview(ctx, models.Subject{
		FullName:  req.FormData.FullName,
		BirthDate: req.FormData.ParsedBirthDate(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "preview failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.FromReading(reading))
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	ref, ok := h.requireReference(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.GenerateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reading, err := h.service.Generate(ctx, ref, req.Subject())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate reading",
			"request_id", requestID,
			"external_reference", ref,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.FromReading(reading))
}

func (h *Handler) HandleDeliver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	ref, ok := h.requireReference(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.DeliverRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Deliver(ctx, ref, req.ContactData); err != nil {
		h.logger.ErrorContext(ctx, "failed to deliver reading",
			"request_id", requestID,
			"external_reference", ref,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.DeliverResponse{Message: "E-mail enviado com sucesso"})
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, ok := h.requireReference(w, r)
	if !ok {
		return
	}

	doc, err := h.service.Report(ctx, ref)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render report",
			"request_id", requestcontext.RequestID(ctx),
			"external_reference", ref,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Content)
}

func (h *Handler) requireReference(w http.ResponseWriter, r *http.Request) (string, bool) {
	ref := requestcontext.ExternalReference(r.Context())
	if ref == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "reading access token required"))
		return "", false
	}
	return ref, true
}
