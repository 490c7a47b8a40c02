package observers

import (
	"context"
	"errors"
	"io"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/cantrip-core/server/pkg/logger"
)

func newToolHandler() *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			ev := logx.Debug().Str("tool", info.Name)
			if input != nil {
				ev = ev.Str("arguments", clip(input.ArgumentsInJSON))
			}
			ev.Msg("tool start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			ev := logx.Debug().Str("tool", info.Name)
			if output != nil {
				ev = ev.Int("response_len", len(output.Response))
			}
			ev.Msg("tool end")
			return ctx
		},
		OnEndWithStreamOutput: func(ctx context.Context, info *einocb.RunInfo, output *schema.StreamReader[*tool.CallbackOutput]) context.Context {
			go func() {
				defer output.Close()
				chunks := 0
				for {
					_, err := output.Recv()
					if errors.Is(err, io.EOF) {
						logx.Debug().Str("tool", info.Name).Int("chunks", chunks).Msg("tool stream end")
						return
					}
					if err != nil {
						logx.Warn().Err(err).Str("tool", info.Name).Msg("tool stream failed")
						return
					}
					chunks++
				}
			}()
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("tool", info.Name).Msg("tool error")
			return ctx
		},
	}
}
