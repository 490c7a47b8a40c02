package conversations

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/cantrip-core/server/internal/agent/model"
)

const defaultMaxTurns = 10

// MessagesManager turns caller-supplied history into model context. The
// service stores nothing between requests.
type MessagesManager struct {
	maxTurns int
}

func NewMessagesManager(config model.ConversationConfig) *MessagesManager {
	n := config.MaxTurns
	if n <= 0 {
		n = defaultMaxTurns
	}
	return &MessagesManager{maxTurns: n}
}

// BuildChatContext returns the system prompt, the most recent history turns
// and the current message, in that order.
func (cm *MessagesManager) BuildChatContext(systemPrompt string, history []model.Turn, query string) []*schema.Message {
	converted := make([]*schema.Message, 0, len(history))
	for _, turn := range history {
		if msg := turn.Message(); msg != nil {
			converted = append(converted, msg)
		}
	}
	recent := trimTail(converted, cm.maxTurns)

	messages := make([]*schema.Message, 0, len(recent)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, recent...)
	if q := strings.TrimSpace(query); q != "" {
		messages = append(messages, schema.UserMessage(q))
	}
	return messages
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
