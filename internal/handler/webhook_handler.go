package handler

import (
	"errors"
	"io"
	"net/http"

	"genius-server/internal/domain"
)

// maxWebhookBodyBytes caps the raw webhook payload; Stripe events are small.
const maxWebhookBodyBytes = int64(65536)

// WebhookHandler receives payment-provider events. The route carries no
// auth middleware: authentication is the signature over the raw body.
type WebhookHandler struct {
	billing domain.BillingService
	logger  domain.Logger
}

func NewWebhookHandler(billing domain.BillingService, logger domain.Logger) *WebhookHandler {
	return &WebhookHandler{
		billing: billing,
		logger:  logger,
	}
}

// HandleEvent verifies and applies one webhook delivery. Bad signatures and
// malformed events get 400 so the provider's retry policy gives up;
// infrastructure failures get 500 so the delivery is retried.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.Warn("[WEBHOOK] failed to read payload", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	signature := r.Header.Get("Stripe-Signature")

	if err := h.billing.ProcessEvent(r.Context(), body, signature); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			h.logger.Warn("[WEBHOOK] signature verification failed", "error", err)
			writeError(w, http.StatusBadRequest, "Signature verification failed")
		case errors.Is(err, domain.ErrMalformedEventPayload):
			h.logger.Warn("[WEBHOOK] malformed event payload", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid payload")
		case errors.Is(err, domain.ErrMissingMetadata):
			writeError(w, http.StatusBadRequest, "User ID is missing in metadata")
		case errors.Is(err, domain.ErrMissingSubscriptionReference):
			writeError(w, http.StatusBadRequest, "No subscription found")
		case errors.Is(err, domain.ErrUnknownSubscription):
			writeError(w, http.StatusBadRequest, "No subscription record")
		default:
			h.logger.Error("[WEBHOOK] event processing failed", err)
			writeError(w, http.StatusInternalServerError, "Internal Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
