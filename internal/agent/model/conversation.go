package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Turn is one prior exchange supplied by the caller. The service keeps no history of its own.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message converts the turn into an eino message, or nil when it carries nothing usable.
func (t Turn) Message() *schema.Message {
	content := strings.TrimSpace(t.Content)
	if content == "" {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(t.Role)) {
	case "user", "human":
		return schema.UserMessage(content)
	case "assistant", "ai", "model":
		return schema.AssistantMessage(content, nil)
	default:
		return nil
	}
}
