package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/response"
	errx "github.com/cantrip-core/server/internal/core/error"
)

type stateSinkKey struct{}

// WithStateSink asks finalize to hand a copy of the final run state to sink.
// Sinks already on ctx are kept and called first.
func WithStateSink(ctx context.Context, sink func(model.GraphState)) context.Context {
	if prev, ok := ctx.Value(stateSinkKey{}).(func(model.GraphState)); ok && prev != nil {
		next := sink
		sink = func(s model.GraphState) {
			prev(s)
			next(s)
		}
	}
	return context.WithValue(ctx, stateSinkKey{}, sink)
}

// NewFinalizeNode maps the run state to the response envelope. This is the
// only stage whose failure fails the run.
func NewFinalizeNode(now func() time.Time) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Payload) (*model.Envelope, error) {
		var env *model.Envelope
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.GraphState) error {
			if in == nil || s.Output == nil || in.Branch() != s.Output.Branch() {
				return fmt.Errorf("synthesize output mismatch")
			}
			var err error
			env, err = response.Finalize(s, now())
			if err != nil {
				return err
			}
			s.Confidence = env.Confidence
			if sink, ok := ctx.Value(stateSinkKey{}).(func(model.GraphState)); ok && sink != nil {
				sink(*s)
			}
			return nil
		})
		if err != nil {
			if errx.ClassOf(err) == errx.ClassFatalEnvelope {
				return nil, err
			}
			return nil, errx.FatalEnvelope(err)
		}
		return env, nil
	})
}
