package openai

import (
	"context"
	"fmt"

	"genius-server/internal/domain"

	"github.com/sashabaranov/go-openai"
)

// Client implements domain.ChatCompletionProvider and
// domain.ImageGenerationProvider on top of the OpenAI API.
type Client struct {
	api    *openai.Client
	logger domain.Logger
}

func NewClient(apiKey string, logger domain.Logger) *Client {
	return &Client{
		api:    openai.NewClient(apiKey),
		logger: logger,
	}
}

// Complete sends the conversation to the chat model and returns the single
// assistant message the endpoints hand back to the caller.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage) (*domain.ChatMessage, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    openai.GPT3Dot5Turbo,
		Messages: msgs,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	choice := resp.Choices[0].Message
	return &domain.ChatMessage{
		Role:    choice.Role,
		Content: choice.Content,
	}, nil
}

// Generate produces amount images for the prompt at the given resolution.
func (c *Client) Generate(ctx context.Context, prompt string, amount int, resolution string) ([]domain.GeneratedImage, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		N:              amount,
		Size:           resolution,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	images := make([]domain.GeneratedImage, 0, len(resp.Data))
	for _, d := range resp.Data {
		images = append(images, domain.GeneratedImage{URL: d.URL})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images returned")
	}
	return images, nil
}
