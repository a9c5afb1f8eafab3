package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"genius-server/internal/domain"

	apperrors "genius-server/pkg/errors"
)

// GenerationHandler serves the four generation endpoints. Each handler is
// the same sequence: identity, typed validation, gated provider call.
type GenerationHandler struct {
	service domain.GenerationService
	logger  domain.Logger
}

func NewGenerationHandler(service domain.GenerationService, logger domain.Logger) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		logger:  logger,
	}
}

// toAppError maps gate and provider errors to the uniform endpoint status
// codes. 403 is reserved for the exhausted free tier so clients can key the
// upgrade flow off it.
func (h *GenerationHandler) toAppError(endpoint string, err error) *apperrors.AppError {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return apperrors.NewValidationError(validationErr.Error())
	case errors.Is(err, domain.ErrFreeQuotaExceeded):
		return apperrors.NewQuotaError("Free trial has expired")
	case errors.Is(err, domain.ErrProviderNotConfigured):
		return apperrors.NewMisconfigError("API key not configured")
	default:
		h.logger.Error("["+endpoint+"] generation failed", err)
		return apperrors.NewUpstreamError("Internal Error", err)
	}
}

func (h *GenerationHandler) identity(w http.ResponseWriter, r *http.Request) (*domain.SupabaseUser, string, bool) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, "", false
	}
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, "", false
	}
	return user, token, true
}

// Conversation handles chat completion requests
func (h *GenerationHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	user, token, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req domain.ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, h.toAppError("CONVERSATION", err))
		return
	}

	msg, err := h.service.Conversation(r.Context(), user.ID, token, req)
	if err != nil {
		writeAppError(w, h.toAppError("CONVERSATION", err))
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Code handles code generation requests
func (h *GenerationHandler) Code(w http.ResponseWriter, r *http.Request) {
	user, token, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req domain.ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, h.toAppError("CODE", err))
		return
	}

	msg, err := h.service.Code(r.Context(), user.ID, token, req)
	if err != nil {
		writeAppError(w, h.toAppError("CODE", err))
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Image handles image generation requests
func (h *GenerationHandler) Image(w http.ResponseWriter, r *http.Request) {
	user, token, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req domain.ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, h.toAppError("IMAGE", err))
		return
	}

	images, err := h.service.Image(r.Context(), user.ID, token, req)
	if err != nil {
		writeAppError(w, h.toAppError("IMAGE", err))
		return
	}
	writeJSON(w, http.StatusOK, images)
}

// Music handles music generation requests
func (h *GenerationHandler) Music(w http.ResponseWriter, r *http.Request) {
	user, token, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req domain.MusicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, h.toAppError("MUSIC", err))
		return
	}

	result, err := h.service.Music(r.Context(), user.ID, token, req)
	if err != nil {
		writeAppError(w, h.toAppError("MUSIC", err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
