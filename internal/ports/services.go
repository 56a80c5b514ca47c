// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for anything that may block
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrResponseFormat, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/quotecards/internal/domain"
)

// KeyValueStore is the durable string store behind the rotation state.
// Only two keys are used today: the favorites set and the shown set.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	// A missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// RandomSource picks uniformly distributed indices.
// *math/rand/v2.Rand satisfies it; tests pass a seeded PCG source.
type RandomSource interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// CardRenderer draws a quote onto an image card.
//
// Implementations must be safe for concurrent use; each call renders onto its
// own surface.
type CardRenderer interface {
	// Render returns the encoded card.
	// Returns domain.ErrInvalidQuote, domain.ErrRenderSurface or domain.ErrEncoding.
	Render(ctx context.Context, quote domain.Quote, style domain.CardStyle) (*domain.Card, error)
}

// StoryClient generates story text and illustrations for the math game.
// Adapters normalize every upstream response shape into plain values.
type StoryClient interface {
	// GenerateStory sends the conversation and returns the generated text.
	// Returns domain.ErrResponseFormat if no text could be extracted.
	GenerateStory(ctx context.Context, messages []domain.ChatMessage) (string, error)

	// GenerateIllustration requests an image for prompt.
	GenerateIllustration(ctx context.Context, prompt string, width, height int) (*domain.Illustration, error)
}
