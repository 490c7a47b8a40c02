package nodes

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/cantrip-core/server/internal/agent/model"
	logx "github.com/cantrip-core/server/pkg/logger"
)

// guarded wraps a stage body. An error or panic is logged, recorded in state
// and replaced by the stage's degraded output, so the run always continues.
func guarded[I, O any](stage string, run func(context.Context, I) (O, error), degrade func(context.Context, I) O) func(context.Context, I) (O, error) {
	return func(ctx context.Context, in I) (O, error) {
		out, err := protect(ctx, in, run)
		if err == nil {
			return out, nil
		}
		logx.Error().Err(err).Str("stage", stage).Msg("stage failed, degrading")
		recordStageError(ctx, stage, err)
		return degrade(ctx, in), nil
	}
}

func protect[I, O any](ctx context.Context, in I, run func(context.Context, I) (O, error)) (out O, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("stage panicked")
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return run(ctx, in)
}

func recordStageError(ctx context.Context, stage string, err error) {
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.GraphState) error {
		s.RecordStageError(stage, err)
		s.Logf("%s degraded: %v", stage, err)
		return nil
	})
}

// readState runs fn against the graph state and returns its copy of what it needs.
func readState[T any](ctx context.Context, fn func(s *model.GraphState) T) (T, error) {
	var out T
	err := compose.ProcessState(ctx, func(_ context.Context, s *model.GraphState) error {
		out = fn(s)
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("failed to access state: %w", err)
	}
	return out, nil
}

// recordUsage computes the usage cost of a model reply and accumulates it into state.
func recordUsage(ctx context.Context, node, modelName string, out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra["usage_cost"] = map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
		"input_cost":        inC,
		"output_cost":       outC,
		"total_cost":        totalC,
	}

	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.GraphState) error {
		s.TotalCostUSD += totalC
		logx.Debug().
			Str("session_id", s.SessionID).
			Str("node", node).
			Str("model", modelName).
			Int("prompt_tokens", usage.PromptTokens).
			Int("completion_tokens", usage.CompletionTokens).
			Int("total_tokens", usage.TotalTokens).
			Float64("input_cost_usd", inC).
			Float64("output_cost_usd", outC).
			Float64("total_cost_usd", totalC).
			Msg("LLM usage")
		return nil
	})
}

// NewOutputPostHandler records a branch payload in state. A second payload in
// one run is an error.
func NewOutputPostHandler() func(context.Context, model.Payload, *model.GraphState) (model.Payload, error) {
	return func(ctx context.Context, out model.Payload, s *model.GraphState) (model.Payload, error) {
		if out == nil {
			return nil, fmt.Errorf("synthesize produced no payload")
		}
		if err := s.SetOutput(out); err != nil {
			return nil, err
		}
		s.Logf("synthesize: %s", out.Branch())
		return out, nil
	}
}
