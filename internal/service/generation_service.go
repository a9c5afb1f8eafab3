package service

import (
	"context"
	"fmt"

	"genius-server/internal/domain"
)

// codeInstruction steers the chat model for the code endpoint.
const codeInstruction = "You are a code generator. You must answer only in markdown code snippets. Use code comments for explanations."

// GenerationService wraps every provider call in the entitlement gate:
// check free budget and subscription, call the provider, then charge the
// free tier when the user is not a subscriber.
type GenerationService struct {
	entitlements domain.EntitlementService
	chat         domain.ChatCompletionProvider
	image        domain.ImageGenerationProvider
	music        domain.MusicGenerationProvider
	logger       domain.Logger
}

func NewGenerationService(
	entitlements domain.EntitlementService,
	chat domain.ChatCompletionProvider,
	image domain.ImageGenerationProvider,
	music domain.MusicGenerationProvider,
	logger domain.Logger,
) *GenerationService {
	return &GenerationService{
		entitlements: entitlements,
		chat:         chat,
		image:        image,
		music:        music,
		logger:       logger,
	}
}

// generate runs the shared gate sequence around one provider call. The
// provider is never invoked when the gate rejects. An increment failure
// after a successful call is logged but does not drop the provider result:
// the user already paid for the generation with the provider call itself.
func (s *GenerationService) generate(
	ctx context.Context,
	userID, token, endpoint string,
	call func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	ent, err := s.entitlements.Check(ctx, userID, token)
	if err != nil {
		return nil, fmt.Errorf("entitlement check failed: %w", err)
	}
	if !ent.Allowed() {
		return nil, domain.ErrFreeQuotaExceeded
	}

	result, err := call(ctx)
	if err != nil {
		return nil, err
	}

	if !ent.Pro {
		if err := s.entitlements.RecordUsage(ctx, userID, token); err != nil {
			s.logger.Warn("Failed to record generation usage", "endpoint", endpoint, "user_id", userID, "error", err)
		}
	}
	return result, nil
}

func (s *GenerationService) Conversation(ctx context.Context, userID, token string, req domain.ConversationRequest) (*domain.ChatMessage, error) {
	if s.chat == nil {
		return nil, domain.ErrProviderNotConfigured
	}

	result, err := s.generate(ctx, userID, token, "conversation", func(ctx context.Context) (interface{}, error) {
		return s.chat.Complete(ctx, req.Messages)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.ChatMessage), nil
}

func (s *GenerationService) Code(ctx context.Context, userID, token string, req domain.ConversationRequest) (*domain.ChatMessage, error) {
	if s.chat == nil {
		return nil, domain.ErrProviderNotConfigured
	}

	messages := make([]domain.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, domain.ChatMessage{Role: "system", Content: codeInstruction})
	messages = append(messages, req.Messages...)

	result, err := s.generate(ctx, userID, token, "code", func(ctx context.Context) (interface{}, error) {
		return s.chat.Complete(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.ChatMessage), nil
}

func (s *GenerationService) Image(ctx context.Context, userID, token string, req domain.ImageRequest) ([]domain.GeneratedImage, error) {
	if s.image == nil {
		return nil, domain.ErrProviderNotConfigured
	}

	result, err := s.generate(ctx, userID, token, "image", func(ctx context.Context) (interface{}, error) {
		return s.image.Generate(ctx, req.Prompt, req.AmountValue(), req.Resolution)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.GeneratedImage), nil
}

func (s *GenerationService) Music(ctx context.Context, userID, token string, req domain.MusicRequest) (interface{}, error) {
	if s.music == nil {
		return nil, domain.ErrProviderNotConfigured
	}

	return s.generate(ctx, userID, token, "music", func(ctx context.Context) (interface{}, error) {
		return s.music.Compose(ctx, req.Prompt)
	})
}
