package handler

import (
	"errors"
	"net/http"

	"genius-server/internal/domain"
)

// BillingHandler serves the subscription management and entitlement status
// endpoints for the dashboard.
type BillingHandler struct {
	billing      domain.BillingService
	entitlements domain.EntitlementService
	logger       domain.Logger
}

func NewBillingHandler(billing domain.BillingService, entitlements domain.EntitlementService, logger domain.Logger) *BillingHandler {
	return &BillingHandler{
		billing:      billing,
		entitlements: entitlements,
		logger:       logger,
	}
}

// Session returns a Stripe checkout URL for free users and a customer
// portal URL for current subscribers.
func (h *BillingHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	url, err := h.billing.SessionURL(r.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrProviderNotConfigured) {
			writeError(w, http.StatusInternalServerError, "Billing not configured")
			return
		}
		h.logger.Error("[BILLING] session creation failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Internal Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Entitlement returns the user's free counter and pro flag.
func (h *BillingHandler) Entitlement(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status, err := h.entitlements.Status(r.Context(), user.ID, token)
	if err != nil {
		h.logger.Error("[ENTITLEMENT] status lookup failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Internal Error")
		return
	}

	writeJSON(w, http.StatusOK, status)
}
