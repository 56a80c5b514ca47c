package dto

import "github.com/jsamuelsen/quotecards/internal/domain"

// MaxStoryMessages caps the conversation length accepted by POST /stories.
const MaxStoryMessages = 50

// ChatMessageRequest is one conversation turn.
type ChatMessageRequest struct {
	Role    string `json:"role"    validate:"required,chatrole"`
	Content string `json:"content" validate:"required,notempty,max=8000"`
}

// StoryRequest is the body of POST /stories.
type StoryRequest struct {
	Messages []ChatMessageRequest `json:"messages" validate:"required,min=1,max=50,dive"`
}

// ToDomain converts the request into domain messages.
func (r *StoryRequest) ToDomain() []domain.ChatMessage {
	messages := make([]domain.ChatMessage, len(r.Messages))
	for i, m := range r.Messages {
		messages[i] = domain.ChatMessage{Role: domain.ChatRole(m.Role), Content: m.Content}
	}

	return messages
}

// StoryResponse carries the generated story text.
type StoryResponse struct {
	Story string `json:"story"`
}

// IllustrationRequest is the body of POST /illustrations. Zero sizes use defaults.
type IllustrationRequest struct {
	Prompt string `json:"prompt" validate:"required,notempty,max=2000"`
	Width  int    `json:"width"  validate:"omitempty,min=1,max=2048"`
	Height int    `json:"height" validate:"omitempty,min=1,max=2048"`
}

// IllustrationResponse carries the generated image location.
type IllustrationResponse struct {
	ImageURL string `json:"imageUrl"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// NewIllustrationResponse converts a domain illustration.
func NewIllustrationResponse(ill *domain.Illustration) IllustrationResponse {
	return IllustrationResponse{ImageURL: ill.URL, Width: ill.Width, Height: ill.Height}
}
