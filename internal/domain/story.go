package domain

// ChatRole identifies the speaker of a ChatMessage.
type ChatRole string

// Roles accepted by the story generation upstream.
const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// Valid reports whether r is a known role.
func (r ChatRole) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}

	return false
}

// ChatMessage is one turn of the conversation sent to the story generator.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// Illustration is a generated picture for a story chapter.
type Illustration struct {
	URL    string
	Width  int
	Height int
}
