package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/cantrip-core/server/internal/agent/collaborators"
	"github.com/cantrip-core/server/internal/agent/graph/conversations"
	"github.com/cantrip-core/server/internal/agent/graph/nodes"
	"github.com/cantrip-core/server/internal/agent/graph/observers"
	"github.com/cantrip-core/server/internal/agent/intent"
	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/packing"
	"github.com/cantrip-core/server/internal/agent/router"
	"github.com/cantrip-core/server/internal/agent/scheduler"
	errx "github.com/cantrip-core/server/internal/core/error"
	logx "github.com/cantrip-core/server/pkg/logger"
)

const tracerName = "github.com/cantrip-core/server/internal/agent/graph"

// classify, gather, one synthesize branch, finalize; the rest is headroom.
const maxRunSteps = 10

// Runner executes the compiled travel graph for one request.
type Runner interface {
	Invoke(ctx context.Context, in model.RequestContext) (*model.Envelope, error)
}

// RunRecorder receives a summary of every finished run.
type RunRecorder interface {
	Record(ctx context.Context, rec model.RunRecord)
}

type multiRecorder []RunRecorder

func (m multiRecorder) Record(ctx context.Context, rec model.RunRecord) {
	for _, r := range m {
		r.Record(ctx, rec)
	}
}

// MultiRecorder fans a record out to every non-nil recorder.
func MultiRecorder(recorders ...RunRecorder) RunRecorder {
	var out multiRecorder
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Config holds everything needed to compose the travel graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the
// router, chat models and stage helpers.
type Config struct {
	APIKey       string
	BaseURL      string
	Router       model.RouterConfig
	Scheduler    model.SchedulerConfig
	Gather       model.GatherConfig
	Conversation model.ConversationConfig
	Adapters     *collaborators.Registry
	Tracer       trace.Tracer
	Observer     nodes.CollaboratorObserver
	Recorder     RunRecorder
	Now          func() time.Time
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	Classifier      *intent.Classifier
	Router          *router.Router
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	Gatherer        *nodes.Gatherer
	Scheduler       *scheduler.Scheduler
	Packing         *packing.Generator
	Defaults        model.SchedulerConfig
	Now             func() time.Time
}

// GraphBuilder handles the construction of the travel orchestration graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.RequestContext, *model.Envelope]
}

type graphRunner struct {
	runnable compose.Runnable[model.RequestContext, *model.Envelope]
	recorder RunRecorder
}

// NewRunner wraps a compiled graph. recorder may be nil.
func NewRunner(runnable compose.Runnable[model.RequestContext, *model.Envelope], recorder RunRecorder) Runner {
	return &graphRunner{runnable: runnable, recorder: recorder}
}

// WithStateCapture copies the final run state into dst once finalize succeeds.
func WithStateCapture(ctx context.Context, dst *model.GraphState) context.Context {
	return nodes.WithStateSink(ctx, func(s model.GraphState) { *dst = s })
}

func (r *graphRunner) Invoke(ctx context.Context, in model.RequestContext) (*model.Envelope, error) {
	start := time.Now()
	var final model.GraphState
	ctx = WithStateCapture(ctx, &final)

	env, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	latency := time.Since(start)
	if err == nil && env == nil {
		err = errx.FatalEnvelope(fmt.Errorf("graph returned no envelope"))
	}
	if err != nil && errx.ClassOf(err) == errx.ClassUnknown {
		err = errx.FatalEnvelope(err)
	}

	if r.recorder != nil {
		r.recorder.Record(ctx, model.NewRunRecord(in, final, latency, err))
	}
	if err != nil {
		logx.Error().Err(err).
			Str("session_id", in.SessionID).
			Str("task", string(in.Task)).
			Dur("latency", latency).
			Msg("travel graph failed")
		return nil, err
	}

	logx.Info().
		Str("session_id", env.SessionID).
		Str("kind", string(env.Kind)).
		Str("intent", string(env.Intent)).
		Str("model", env.Model).
		Strs("degraded", env.Degraded).
		Float64("total_cost_usd", env.TotalCostUSD).
		Dur("latency", latency).
		Msg("travel graph completed")
	return env, nil
}

// BuildTravelGraph composes the router, chat models and stage helpers, builds
// the graph, and returns a Runner.
func BuildTravelGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Adapters == nil {
		return nil, fmt.Errorf("collaborator registry is nil")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	rt := router.New(cfg.Router)
	logx.Debug().Interface("policy", rt.Policy()).Msg("model router ready")

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Profiles: rt.Profiles(),
	})
	if err != nil {
		return nil, err
	}

	rules, err := packing.DefaultRules()
	if err != nil {
		return nil, fmt.Errorf("load packing rules: %w", err)
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Classifier:      intent.Default(),
		Router:          rt,
		ChatModels:      cms,
		MessagesManager: conversations.NewMessagesManager(cfg.Conversation),
		Gatherer:        nodes.NewGatherer(cfg.Adapters, tracer, cfg.Gather.AdapterTimeout).WithObserver(cfg.Observer),
		Scheduler:       scheduler.New(cfg.Scheduler, scheduler.WithClock(now)),
		Packing:         packing.New(rules),
		Defaults:        cfg.Scheduler,
		Now:             now,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Travel graph built successfully")
	return NewRunner(runnable, cfg.Recorder), nil
}

// BuildGraph constructs and returns the compiled travel graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.RequestContext, *model.Envelope], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Classifier == nil || config.Router == nil {
		return nil, fmt.Errorf("classifier and router are required")
	}
	if config.Gatherer == nil {
		return nil, fmt.Errorf("gatherer is nil")
	}
	if config.Scheduler == nil || config.Packing == nil {
		return nil, fmt.Errorf("scheduler and packing generator are required")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.RequestContext, *model.Envelope](
			compose.WithGenLocalState(func(ctx context.Context) *model.GraphState {
				return model.NewGraphState()
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	c := b.config
	steps := []struct {
		key  string
		node *compose.Lambda
		opts []compose.GraphAddNodeOpt
	}{
		{
			key:  nodes.NodeClassify,
			node: nodes.NewClassifyNode(c.Classifier, c.Router, c.Defaults, c.Now),
			opts: []compose.GraphAddNodeOpt{compose.WithStatePreHandler(nodes.NewClassifyPreHandler())},
		},
		{
			key:  nodes.NodeGather,
			node: nodes.NewGatherNode(c.Gatherer),
			opts: []compose.GraphAddNodeOpt{compose.WithStatePostHandler(nodes.NewGatherPostHandler())},
		},
		{
			key:  nodes.NodeItinerary,
			node: nodes.NewItineraryNode(c.Scheduler),
			opts: []compose.GraphAddNodeOpt{compose.WithStatePostHandler(nodes.NewOutputPostHandler())},
		},
		{
			key:  nodes.NodeExplore,
			node: nodes.NewExploreNode(c.ChatModels, c.Defaults.DefaultDays),
			opts: []compose.GraphAddNodeOpt{compose.WithStatePostHandler(nodes.NewOutputPostHandler())},
		},
		{
			key:  nodes.NodePacking,
			node: nodes.NewPackingNode(c.Packing),
			opts: []compose.GraphAddNodeOpt{compose.WithStatePostHandler(nodes.NewOutputPostHandler())},
		},
		{
			key:  nodes.NodeChat,
			node: nodes.NewChatNode(c.ChatModels, c.MessagesManager),
			opts: []compose.GraphAddNodeOpt{compose.WithStatePostHandler(nodes.NewOutputPostHandler())},
		},
		{
			key:  nodes.NodeFinalize,
			node: nodes.NewFinalizeNode(c.Now),
		},
	}

	for _, s := range steps {
		opts := append(s.opts, compose.WithNodeName(s.key))
		if err := b.graph.AddLambdaNode(s.key, s.node, opts...); err != nil {
			logx.Error().Err(err).Str("node", s.key).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", s.key, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeClassify},
		{nodes.NodeClassify, nodes.NodeGather},
		{nodes.NodeItinerary, nodes.NodeFinalize},
		{nodes.NodeExplore, nodes.NodeFinalize},
		{nodes.NodePacking, nodes.NodeFinalize},
		{nodes.NodeChat, nodes.NodeFinalize},
		{nodes.NodeFinalize, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches routes gather to exactly one synthesize node
func (b *GraphBuilder) addBranches() error {
	synthesizeBranch := compose.NewGraphBranch(nodes.NewSynthesizeCondition(), nodes.BranchNodes)
	if err := b.graph.AddBranch(nodes.NodeGather, synthesizeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding synthesize branch")
		return fmt.Errorf("error adding synthesize branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.RequestContext, *model.Envelope], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("travel_graph"),
		compose.WithMaxRunSteps(maxRunSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
