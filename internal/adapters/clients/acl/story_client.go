package acl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quotecards/internal/adapters/clients"
	"github.com/jsamuelsen/quotecards/internal/domain"
	"github.com/jsamuelsen/quotecards/internal/ports"
)

// Story proxy endpoints.
const (
	StoryPath        = "/api/generate-story"
	IllustrationPath = "/api/generate-image"
)

var _ ports.StoryClient = (*StoryClient)(nil)

// StoryClient talks to the story generation proxy.
type StoryClient struct {
	BaseAdapter

	logger *slog.Logger
}

// NewStoryClient creates a StoryClient on top of client.
func NewStoryClient(client *clients.Client, logger *slog.Logger) *StoryClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &StoryClient{
		BaseAdapter: NewBaseAdapter(client),
		logger:      logger.With(slog.String("component", "acl.StoryClient")),
	}
}

// Wire formats of the proxy.
type (
	storyRequest struct {
		Messages []chatMessage `json:"messages"`
	}

	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	illustrationRequest struct {
		Prompt string `json:"prompt"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}

	illustrationResponse struct {
		ImageURL string `json:"imageUrl"`
	}
)

// GenerateStory sends the conversation and returns the generated text,
// whatever envelope the upstream model wrapped it in.
func (c *StoryClient) GenerateStory(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	req := storyRequest{Messages: make([]chatMessage, len(messages))}
	for i, m := range messages {
		req.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}

	body, err := c.PostJSON(ctx, StoryPath, req, "generate story")
	if err != nil {
		return "", err
	}

	text, err := normalizeStory(body, c.ServiceName())
	if err != nil {
		c.logger.WarnContext(ctx, "unrecognized story response",
			slog.Int("bytes", len(body)),
			slog.Any("error", err),
		)

		return "", err
	}

	return text, nil
}

// GenerateIllustration requests an image for prompt and returns its URL.
func (c *StoryClient) GenerateIllustration(ctx context.Context, prompt string, width, height int) (*domain.Illustration, error) {
	body, err := c.PostJSON(ctx, IllustrationPath, illustrationRequest{
		Prompt: prompt,
		Width:  width,
		Height: height,
	}, "generate illustration")
	if err != nil {
		return nil, err
	}

	var resp illustrationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewResponseFormatError(c.ServiceName(), "invalid JSON")
	}

	url := strings.TrimSpace(resp.ImageURL)
	if url == "" {
		return nil, domain.NewResponseFormatError(c.ServiceName(), "missing imageUrl")
	}

	return &domain.Illustration{URL: url, Width: width, Height: height}, nil
}

// storyShapes lists where known upstreams put the generated text, in the
// order they are tried.
var storyShapes = [][]any{
	{"choices", 0, "message", "content"},
	{"output", "text"},
	{"output"},
	{"result", "output"},
	{"data", "output"},
	{"content"},
	{"response"},
	{"text"},
}

// NormalizeStoryResponse extracts the story text from a proxy response body.
// The first shape holding a non-empty string wins; a bare JSON string is
// accepted last. Anything else is a ResponseFormatError.
func NormalizeStoryResponse(body []byte) (string, error) {
	return normalizeStory(body, "")
}

func normalizeStory(body []byte, service string) (string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", domain.NewResponseFormatError(service, "invalid JSON")
	}

	for _, shape := range storyShapes {
		if text, ok := lookupString(doc, shape); ok {
			return text, nil
		}
	}

	if text, ok := doc.(string); ok && text != "" {
		return text, nil
	}

	return "", domain.NewResponseFormatError(service, "no story text in response")
}

// lookupString follows path through decoded JSON. String steps index
// objects, int steps index arrays. Only non-empty strings count.
func lookupString(v any, path []any) (string, bool) {
	for _, step := range path {
		switch key := step.(type) {
		case string:
			obj, ok := v.(map[string]any)
			if !ok {
				return "", false
			}

			v = obj[key]
		case int:
			arr, ok := v.([]any)
			if !ok || key >= len(arr) {
				return "", false
			}

			v = arr[key]
		}
	}

	s, ok := v.(string)

	return s, ok && s != ""
}
