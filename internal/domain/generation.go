package domain

import (
	"context"
	"strconv"
)

// ChatMessage is a single message in a chat or code conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationRequest is the body of the conversation and code endpoints.
type ConversationRequest struct {
	Messages []ChatMessage `json:"messages"`
}

func (r *ConversationRequest) Validate() error {
	if len(r.Messages) == 0 {
		return &ValidationError{Field: "messages", Message: "messages are required"}
	}
	for _, m := range r.Messages {
		switch m.Role {
		case "user", "assistant", "system":
		default:
			return &ValidationError{Field: "messages", Message: "invalid message role"}
		}
		if m.Content == "" {
			return &ValidationError{Field: "messages", Message: "message content cannot be empty"}
		}
	}
	return nil
}

const (
	maxImageAmount = 10

	DefaultImageAmount     = "1"
	DefaultImageResolution = "512x512"
)

// ImageRequest is the body of the image endpoint. Amount stays a string to
// match the public API shape; AmountValue parses it after validation.
type ImageRequest struct {
	Prompt     string `json:"prompt"`
	Amount     string `json:"amount"`
	Resolution string `json:"resolution"`
}

func (r *ImageRequest) Validate() error {
	if r.Prompt == "" {
		return &ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if r.Amount == "" {
		r.Amount = DefaultImageAmount
	}
	n, err := strconv.Atoi(r.Amount)
	if err != nil || n < 1 || n > maxImageAmount {
		return &ValidationError{Field: "amount", Message: "amount must be a number between 1 and 10"}
	}
	if r.Resolution == "" {
		r.Resolution = DefaultImageResolution
	}
	switch r.Resolution {
	case "256x256", "512x512", "1024x1024":
	default:
		return &ValidationError{Field: "resolution", Message: "unsupported resolution"}
	}
	return nil
}

// AmountValue returns the parsed image count. Call Validate first.
func (r *ImageRequest) AmountValue() int {
	n, err := strconv.Atoi(r.Amount)
	if err != nil {
		return 1
	}
	return n
}

// MusicRequest is the body of the music endpoint.
type MusicRequest struct {
	Prompt string `json:"prompt"`
}

func (r *MusicRequest) Validate() error {
	if r.Prompt == "" {
		return &ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	return nil
}

// GeneratedImage is one image produced by the image provider.
type GeneratedImage struct {
	URL string `json:"url"`
}

// ChatCompletionProvider produces a single assistant message for a
// conversation history.
type ChatCompletionProvider interface {
	Complete(ctx context.Context, messages []ChatMessage) (*ChatMessage, error)
}

// ImageGenerationProvider produces image URLs for a prompt.
type ImageGenerationProvider interface {
	Generate(ctx context.Context, prompt string, amount int, resolution string) ([]GeneratedImage, error)
}

// MusicGenerationProvider produces a provider-native audio result for a
// prompt. The result is returned to the caller verbatim.
type MusicGenerationProvider interface {
	Compose(ctx context.Context, prompt string) (interface{}, error)
}

// GenerationService runs the entitlement gate around each provider call.
type GenerationService interface {
	Conversation(ctx context.Context, userID, token string, req ConversationRequest) (*ChatMessage, error)
	Code(ctx context.Context, userID, token string, req ConversationRequest) (*ChatMessage, error)
	Image(ctx context.Context, userID, token string, req ImageRequest) ([]GeneratedImage, error)
	Music(ctx context.Context, userID, token string, req MusicRequest) (interface{}, error)
}
