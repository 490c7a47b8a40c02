package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/cantrip-core/server/internal/agent/collaborators"
	"github.com/cantrip-core/server/internal/agent/model"
	logx "github.com/cantrip-core/server/pkg/logger"
)

const defaultAdapterTimeout = 8 * time.Second

// Collaborator call outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeFailed       = "failed"
	OutcomeTimeout      = "timeout"
	OutcomeUnregistered = "unregistered"
)

// CollaboratorObserver is told how every collaborator call ended.
type CollaboratorObserver interface {
	ObserveCollaborator(name model.Collaborator, outcome string, d time.Duration)
}

// Gatherer fans a request out to its collaborators.
type Gatherer struct {
	adapters *collaborators.Registry
	tracer   trace.Tracer
	timeout  time.Duration
	observer CollaboratorObserver
}

func NewGatherer(adapters *collaborators.Registry, tracer trace.Tracer, timeout time.Duration) *Gatherer {
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}
	return &Gatherer{adapters: adapters, tracer: tracer, timeout: timeout}
}

// WithObserver sets the observer notified after each collaborator call.
func (g *Gatherer) WithObserver(obs CollaboratorObserver) *Gatherer {
	g.observer = obs
	return g
}

type gatherInput struct {
	sessionID string
	city      string
	required  []model.Collaborator
	filters   model.Filters
}

// NewGatherNode runs every required adapter concurrently. Results reach state
// through NewGatherPostHandler once all adapters have returned.
func NewGatherNode(g *Gatherer) *compose.Lambda {
	return compose.InvokableLambda(guarded(NodeGather,
		func(ctx context.Context, _ model.Intent) (model.Results, error) {
			in, err := readState(ctx, func(s *model.GraphState) gatherInput {
				filters := make(model.Filters, len(s.Filters))
				for k, v := range s.Filters {
					filters[k] = v
				}
				return gatherInput{
					sessionID: s.SessionID,
					city:      s.City,
					required:  append([]model.Collaborator(nil), s.Collaborators...),
					filters:   filters,
				}
			})
			if err != nil {
				return nil, err
			}
			results := g.Gather(ctx, in.required, in.city, in.filters)
			logx.Debug().
				Str("session_id", in.sessionID).
				Str("stage", NodeGather).
				Int("collaborators", len(results)).
				Msg("gather complete")
			return results, nil
		},
		func(context.Context, model.Intent) model.Results {
			return model.Results{}
		},
	))
}

func NewGatherPostHandler() func(context.Context, model.Results, *model.GraphState) (model.Results, error) {
	return func(ctx context.Context, out model.Results, s *model.GraphState) (model.Results, error) {
		for name, res := range out {
			s.Results[name] = res
		}
		s.Logf("gather: %v", out.Names())
		return out, nil
	}
}

// Gather calls each named adapter once and waits for all of them. A missing,
// failing, panicking or slow adapter contributes an empty result.
func (g *Gatherer) Gather(ctx context.Context, names []model.Collaborator, city string, filters model.Filters) model.Results {
	out := make([]model.Result, len(names))
	eg, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		eg.Go(func() error {
			out[i] = g.fetch(gctx, name, city, filters)
			return nil
		})
	}
	_ = eg.Wait()

	results := make(model.Results, len(names))
	for i, name := range names {
		res := out[i]
		if res == nil {
			res = model.EmptyResult(name)
		}
		if res == nil {
			continue
		}
		results[name] = res
	}
	return results
}

func (g *Gatherer) fetch(ctx context.Context, name model.Collaborator, city string, filters model.Filters) model.Result {
	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if g.observer != nil {
			g.observer.ObserveCollaborator(name, outcome, time.Since(start))
		}
	}()

	ctx, span := g.tracer.Start(ctx, "collaborator."+string(name), trace.WithAttributes(
		attribute.String("collaborator", string(name)),
		attribute.String("city", city),
	))
	defer span.End()

	adapter, ok := g.adapters.Get(name)
	if !ok {
		outcome = OutcomeUnregistered
		span.SetStatus(codes.Error, "collaborator not registered")
		logx.Warn().Str("collaborator", string(name)).Msg("collaborator not registered")
		return model.EmptyResult(name)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan model.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				span.RecordError(err)
				logx.Error().Err(err).Str("collaborator", string(name)).Msg("collaborator panicked")
				done <- nil
			}
		}()
		done <- adapter.Fetch(ctx, city, filters)
	}()

	select {
	case res := <-done:
		if res == nil {
			outcome = OutcomeFailed
			span.SetStatus(codes.Error, "collaborator failed")
			return model.EmptyResult(name)
		}
		span.SetAttributes(attribute.Int("records", res.Len()))
		return res
	case <-ctx.Done():
		outcome = OutcomeTimeout
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, "collaborator timed out")
		logx.Warn().Err(ctx.Err()).
			Str("collaborator", string(name)).
			Dur("timeout", g.timeout).
			Msg("collaborator timed out, degrading")
		return model.EmptyResult(name)
	}
}
