package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/cantrip-core/server/pkg/logger"
)

type stageStartKey struct{}

// newStageHandler logs graph and lambda node lifecycles with their latency.
func newStageHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			logx.Debug().
				Str("stage", info.Name).
				Str("component", string(info.Component)).
				Msg("stage start")
			return context.WithValue(ctx, stageStartKey{}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			logx.Debug().
				Str("stage", info.Name).
				Dur("latency", since(ctx)).
				Msg("stage end")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).
				Str("stage", info.Name).
				Dur("latency", since(ctx)).
				Msg("stage failed")
			return ctx
		}).
		Build()
}

func since(ctx context.Context) time.Duration {
	if t, ok := ctx.Value(stageStartKey{}).(time.Time); ok {
		return time.Since(t)
	}
	return 0
}
