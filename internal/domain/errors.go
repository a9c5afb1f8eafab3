package domain

import "errors"

// Domain errors
var (
	ErrInvalidToken                 = errors.New("invalid token")
	ErrUserNotFound                 = errors.New("user not found")
	ErrFreeQuotaExceeded            = errors.New("free generation quota exceeded")
	ErrProviderNotConfigured        = errors.New("provider credentials not configured")
	ErrInvalidSignature             = errors.New("webhook signature verification failed")
	ErrMalformedEventPayload        = errors.New("event payload could not be decoded")
	ErrMissingMetadata              = errors.New("user id missing in event metadata")
	ErrMissingSubscriptionReference = errors.New("event has no subscription reference")
	ErrUnknownSubscription          = errors.New("no subscription record for referenced subscription")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
