package response

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cantrip-core/server/internal/agent/model"
	errx "github.com/cantrip-core/server/internal/core/error"
)

var errNoState = errors.New("no run state")

// Finalize maps a completed run to its response envelope. It only fails on a
// missing state or an unknown payload.
func Finalize(s *model.GraphState, now time.Time) (*model.Envelope, error) {
	if s == nil {
		return nil, errx.FatalEnvelope(errNoState)
	}

	env := &model.Envelope{
		SessionID:    s.SessionID,
		Intent:       s.Intent(),
		CityDetected: s.City,
		ToolsUsed:    s.Results.Names(),
		Model:        s.Model,
		TotalCostUSD: s.TotalCostUSD,
		Degraded:     degraded(s.StageErrors),
		Timestamp:    now.UTC(),
		Confidence:   confidenceGenerated,
	}

	switch p := s.Output.(type) {
	case model.ItineraryPayload:
		if p.Itinerary == nil {
			return nil, errx.FatalEnvelope(errors.New("itinerary payload without itinerary"))
		}
		env.Kind = model.BranchItinerary
		env.Itinerary = &model.ItineraryEnvelope{
			Itinerary: p.Itinerary,
			Metadata: model.ItineraryMetadata{
				City:        p.Itinerary.City,
				Duration:    p.Itinerary.Duration,
				TotalCost:   p.Itinerary.TotalCost,
				GeneratedAt: p.Itinerary.CreatedAt,
			},
		}
	case model.ExplorePayload:
		env.Kind = model.BranchExplore
		if !p.Generated {
			env.Confidence = confidenceFallback
		}
		env.Explore = &model.ExploreEnvelope{
			Suggestions: nonNil(p.Suggestions),
			Weather:     p.Weather,
			Events:      nonNil(p.Events),
			Attractions: nonNil(p.Attractions),
			Metadata: model.ExploreMetadata{
				City:        s.Trip.City,
				Mood:        s.Trip.Mood,
				Generated:   p.Generated,
				GeneratedAt: now.UTC(),
			},
		}
	case model.PackingPayload:
		if p.List == nil {
			return nil, errx.FatalEnvelope(errors.New("packing payload without list"))
		}
		env.Kind = model.BranchPacking
		env.Packing = &model.PackingEnvelope{
			PackingList: p.List,
			Weather:     p.Weather,
			TotalItems:  p.List.TotalItems,
		}
	case model.ChatPayload:
		env.Kind = model.BranchChat
		reply, suggestions := p.Reply, p.Suggestions
		if p.Fallback || reply == "" {
			env.Confidence = confidenceFallback
		}
		if reply == "" {
			reply = FallbackReply
			suggestions = FallbackSuggestions()
		}
		env.Chat = &model.ChatEnvelope{
			Response:    reply,
			Suggestions: nonNil(suggestions),
			Data:        chatData(s.Results),
		}
	default:
		return nil, errx.FatalEnvelope(fmt.Errorf("unknown payload %T", s.Output))
	}
	return env, nil
}

func chatData(r model.Results) model.ChatData {
	var d model.ChatData
	if _, ok := r[model.CollabWeather]; ok {
		w := r.Weather()
		d.Weather = &w
	}
	d.Events = r.Events()
	d.Attractions = r.Attractions()
	d.Recommendations = r.Recommendations()
	return d
}

func degraded(stageErrors map[string]string) []string {
	if len(stageErrors) == 0 {
		return nil
	}
	out := make([]string, 0, len(stageErrors))
	for stage := range stageErrors {
		out = append(out, stage)
	}
	sort.Strings(out)
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
