package nodes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/cantrip-core/server/internal/agent/graph/parsers"
	"github.com/cantrip-core/server/internal/agent/graph/prompts"
	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/response"
	errx "github.com/cantrip-core/server/internal/core/error"
	logx "github.com/cantrip-core/server/pkg/logger"
)

var errNoChatModel = errors.New("no chat model for profile")

type generationInput struct {
	sessionID string
	model     string
	trip      model.TripParams
	intent    model.Intent
	city      string
	message   string
	history   []model.Turn
}

func readGenerationInput(ctx context.Context) (generationInput, error) {
	return readState(ctx, func(s *model.GraphState) generationInput {
		return generationInput{
			sessionID: s.SessionID,
			model:     s.Model,
			trip:      s.Trip,
			intent:    s.Intent(),
			city:      s.City,
			message:   s.Message,
			history:   append([]model.Turn(nil), s.History...),
		}
	})
}

// NewExploreNode turns weather, events and attractions into destination
// suggestions. When generation fails the suggestions are built from the
// gathered records instead.
func NewExploreNode(cms *ChatModels, defaultDays int) *compose.Lambda {
	return compose.InvokableLambda(guarded(NodeExplore,
		func(ctx context.Context, results model.Results) (model.Payload, error) {
			in, err := readGenerationInput(ctx)
			if err != nil {
				return nil, err
			}
			weather := results.Weather()
			payload := model.ExplorePayload{
				Weather:     weather.Current,
				Events:      results.Events(),
				Attractions: results.Attractions(),
			}

			suggestions, err := generateSuggestions(ctx, cms, in, payload, defaultDays)
			if err != nil {
				err = errx.GenerationFailure(err)
				logx.Warn().Err(err).Str("session_id", in.sessionID).Str("stage", NodeExplore).Msg("suggestion generation failed, using gathered records")
				recordStageError(ctx, NodeExplore, err)
				payload.Suggestions = response.ExploreSuggestions(in.trip.City, payload.Attractions, payload.Events)
				return payload, nil
			}
			payload.Suggestions = suggestions
			payload.Generated = true
			return payload, nil
		},
		func(ctx context.Context, results model.Results) model.Payload {
			city, _ := readState(ctx, func(s *model.GraphState) string { return s.Trip.City })
			return model.ExplorePayload{Suggestions: response.ExploreSuggestions(city, nil, nil)}
		},
	))
}

func generateSuggestions(ctx context.Context, cms *ChatModels, in generationInput, payload model.ExplorePayload, defaultDays int) ([]string, error) {
	cm, ok := cms.Get(in.model)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errNoChatModel, in.model)
	}
	days := in.trip.Span()
	if days == 0 {
		days = defaultDays
	}
	msgs, err := prompts.RenderExplore(ctx, prompts.ExploreInput{
		Trip:        in.trip,
		Days:        days,
		Weather:     payload.Weather,
		Events:      len(payload.Events),
		Attractions: len(payload.Attractions),
	})
	if err != nil {
		return nil, err
	}
	out, err := cm.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}
	recordUsage(ctx, NodeExplore, in.model, out)
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return nil, fmt.Errorf("generate suggestions: empty reply")
	}
	return parsers.ParseSuggestions(out.Content)
}
