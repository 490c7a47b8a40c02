package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/cantrip-core/server/pkg/logger"
)

const maxLoggedContent = 512

// newModelHandler builds a typed ModelCallbackHandler that logs prompts and replies around model calls.
func newModelHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ev := logx.Debug().Str("model_type", info.Type).Str("node", info.Name)
			if input != nil {
				ev = ev.Int("messages", len(input.Messages)).
					Str("user", clip(lastUserContent(input.Messages)))
				if input.Config != nil {
					ev = ev.Str("model", input.Config.Model)
				}
			}
			ev.Msg("model start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			ev := logx.Debug().Str("model_type", info.Type).Str("node", info.Name)
			if output != nil {
				if output.Message != nil {
					ev = ev.Str("assistant", clip(strings.TrimSpace(output.Message.Content)))
				}
				if u := output.TokenUsage; u != nil {
					ev = ev.Int("prompt_tokens", u.PromptTokens).
						Int("completion_tokens", u.CompletionTokens).
						Int("total_tokens", u.TotalTokens)
				}
			}
			ev.Msg("model end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("model_type", info.Type).Str("node", info.Name).Msg("model error")
			return ctx
		},
	}
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

func clip(s string) string {
	if len(s) <= maxLoggedContent {
		return s
	}
	return s[:maxLoggedContent] + "..."
}
