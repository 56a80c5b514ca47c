package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quotecards/internal/domain"
	"github.com/jsamuelsen/quotecards/internal/platform/logging"
	"github.com/jsamuelsen/quotecards/internal/ports"
)

// Illustration size bounds in pixels.
const (
	DefaultIllustrationWidth  = 300
	DefaultIllustrationHeight = 200
	MaxIllustrationSide       = 2048
)

// StoryService validates story requests and forwards them to the story client.
type StoryService struct {
	client ports.StoryClient
	logger *slog.Logger
}

// NewStoryService creates a StoryService.
func NewStoryService(client ports.StoryClient, logger *slog.Logger) *StoryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &StoryService{
		client: client,
		logger: logger.With(slog.String("component", "app.StoryService")),
	}
}

// GenerateStory returns the next part of the story for the conversation.
func (s *StoryService) GenerateStory(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", domain.NewValidationError("messages", "must not be empty")
	}

	for i, m := range messages {
		if !m.Role.Valid() {
			return "", domain.NewValidationErrorWithValue(
				fmt.Sprintf("messages[%d].role", i), "must be system, user or assistant", string(m.Role))
		}

		if strings.TrimSpace(m.Content) == "" {
			return "", domain.NewValidationError(fmt.Sprintf("messages[%d].content", i), "must not be empty")
		}
	}

	logger := logging.FromContext(ctx)

	text, err := s.client.GenerateStory(ctx, messages)
	if err != nil {
		logger.WarnContext(ctx, "story generation failed",
			slog.Int("messages", len(messages)),
			slog.Any("error", err),
		)

		return "", fmt.Errorf("generating story: %w", err)
	}

	logger.InfoContext(ctx, "story generated",
		slog.Int("messages", len(messages)),
		slog.Int("chars", len([]rune(text))),
	)

	return text, nil
}

// GenerateIllustration requests an image for prompt. Zero sizes take the defaults.
func (s *StoryService) GenerateIllustration(ctx context.Context, prompt string, width, height int) (*domain.Illustration, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.NewValidationError("prompt", "must not be empty")
	}

	if width == 0 {
		width = DefaultIllustrationWidth
	}

	if height == 0 {
		height = DefaultIllustrationHeight
	}

	if width < 0 || height < 0 || width > MaxIllustrationSide || height > MaxIllustrationSide {
		return nil, domain.NewValidationErrorWithValue("size",
			fmt.Sprintf("width and height must be between 1 and %d", MaxIllustrationSide),
			fmt.Sprintf("%dx%d", width, height))
	}

	img, err := s.client.GenerateIllustration(ctx, prompt, width, height)
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "illustration generation failed", slog.Any("error", err))

		return nil, fmt.Errorf("generating illustration: %w", err)
	}

	return img, nil
}
