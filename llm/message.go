package llm

// Role identifies the sender of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn in the plain {role, content} shape
// that chat-completion APIs accept. Values are constructed fresh per call
// and never mutated.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System returns a system-role message carrying the given prompt.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// Human returns a user-role message. Empty content is legal.
func Human(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AI returns an assistant-role message.
func AI(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
