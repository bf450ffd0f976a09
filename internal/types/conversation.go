package types

// Conversation roles. The transcript only ever contains these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry in a conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered, append-only transcript.
type Conversation []Turn

// Clone returns a copy of the conversation safe to hand to callers.
func (c Conversation) Clone() Conversation {
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}
