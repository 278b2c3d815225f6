package chat

import "strings"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged chat turn as exchanged with the client and the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (m Message) IsUser() bool {
	return strings.EqualFold(strings.TrimSpace(m.Role), RoleUser)
}

// UserMessages filters msgs down to user-authored turns, preserving order.
func UserMessages(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.IsUser() {
			out = append(out, m)
		}
	}
	return out
}
