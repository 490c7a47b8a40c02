package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/cantrip-core/server/internal/agent/graph/conversations"
	"github.com/cantrip-core/server/internal/agent/graph/prompts"
	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/response"
	errx "github.com/cantrip-core/server/internal/core/error"
	logx "github.com/cantrip-core/server/pkg/logger"
)

// NewChatNode generates a conversational reply grounded in the gathered
// records. A failed generation yields the fixed fallback reply.
func NewChatNode(cms *ChatModels, mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(guarded(NodeChat,
		func(ctx context.Context, results model.Results) (model.Payload, error) {
			in, err := readGenerationInput(ctx)
			if err != nil {
				return nil, err
			}
			reply, err := generateReply(ctx, cms, mm, in, results)
			if err != nil {
				err = errx.GenerationFailure(err)
				logx.Warn().Err(err).Str("session_id", in.sessionID).Str("stage", NodeChat).Msg("reply generation failed, using fallback")
				recordStageError(ctx, NodeChat, err)
				return fallbackChat(), nil
			}
			return model.ChatPayload{
				Reply:       reply,
				Suggestions: response.SuggestionsFor(in.intent, in.city),
			}, nil
		},
		func(context.Context, model.Results) model.Payload {
			return fallbackChat()
		},
	))
}

func generateReply(ctx context.Context, cms *ChatModels, mm *conversations.MessagesManager, in generationInput, results model.Results) (string, error) {
	cm, ok := cms.Get(in.model)
	if !ok {
		return "", fmt.Errorf("%w: %q", errNoChatModel, in.model)
	}
	system, err := prompts.RenderChatSystem(ctx, prompts.ChatInput{
		Intent:  in.intent,
		City:    in.city,
		Results: results,
	})
	if err != nil {
		return "", err
	}
	out, err := cm.Generate(ctx, mm.BuildChatContext(system, in.history, in.message))
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	recordUsage(ctx, NodeChat, in.model, out)
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("generate reply: empty reply")
	}
	return strings.TrimSpace(out.Content), nil
}

func fallbackChat() model.Payload {
	return model.ChatPayload{
		Reply:       response.FallbackReply,
		Suggestions: response.FallbackSuggestions(),
		Fallback:    true,
	}
}
