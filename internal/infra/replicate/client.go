package replicate

import (
	"context"
	"fmt"

	"genius-server/internal/domain"

	"github.com/replicate/replicate-go"
)

// riffusionModel generates a short audio clip from a text prompt.
const riffusionModel = "riffusion/riffusion:8cf61ea6c56afd61d8f5b9ffd14d7c216c0a93844ce2d82ac1c9ecc9c7f24e05"

// Client implements domain.MusicGenerationProvider on top of Replicate.
type Client struct {
	api    *replicate.Client
	logger domain.Logger
}

func NewClient(token string, logger domain.Logger) (*Client, error) {
	api, err := replicate.NewClient(replicate.WithToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to create replicate client: %w", err)
	}
	return &Client{
		api:    api,
		logger: logger,
	}, nil
}

// Compose runs the riffusion model and returns its native output object,
// which the music endpoint passes through to the caller unchanged.
func (c *Client) Compose(ctx context.Context, prompt string) (interface{}, error) {
	input := replicate.PredictionInput{
		"prompt_a": prompt,
	}

	output, err := c.api.Run(ctx, riffusionModel, input, nil)
	if err != nil {
		return nil, fmt.Errorf("music generation failed: %w", err)
	}
	return output, nil
}
