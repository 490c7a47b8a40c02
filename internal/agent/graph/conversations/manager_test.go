package conversations

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantrip-core/server/internal/agent/model"
)

func TestBuildChatContextOrdersAndTrims(t *testing.T) {
	mm := NewMessagesManager(model.ConversationConfig{MaxTurns: 2})
	history := []model.Turn{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello! Where to?"},
		{Role: "system", Content: "ignored"},
		{Role: "user", Content: "   "},
		{Role: "user", Content: "Thinking about Toronto"},
	}

	msgs := mm.BuildChatContext("sys", history, " What's on this weekend? ")
	require.Len(t, msgs, 4)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "Hello! Where to?", msgs[1].Content)
	assert.Equal(t, schema.Assistant, msgs[1].Role)
	assert.Equal(t, "Thinking about Toronto", msgs[2].Content)
	assert.Equal(t, "What's on this weekend?", msgs[3].Content)
	assert.Equal(t, schema.User, msgs[3].Role)
}

func TestBuildChatContextDefaults(t *testing.T) {
	mm := NewMessagesManager(model.ConversationConfig{})
	assert.Equal(t, defaultMaxTurns, mm.maxTurns)

	msgs := mm.BuildChatContext("sys", nil, "")
	require.Len(t, msgs, 1)
}

func TestTrimTailCopies(t *testing.T) {
	in := []*schema.Message{schema.UserMessage("a"), schema.UserMessage("b"), schema.UserMessage("c")}
	out := trimTail(in, 2)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].Content)
	out[0] = nil
	assert.NotNil(t, in[1])
}
