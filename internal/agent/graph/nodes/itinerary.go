package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"

	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/scheduler"
)

// NewItineraryNode schedules the trip over the planning pool plus attractions.
func NewItineraryNode(sched *scheduler.Scheduler) *compose.Lambda {
	return compose.InvokableLambda(guarded(NodeItinerary,
		func(ctx context.Context, results model.Results) (model.Payload, error) {
			trip, err := readState(ctx, func(s *model.GraphState) model.TripParams { return s.Trip })
			if err != nil {
				return nil, err
			}
			candidates := scheduler.Candidates(results.Activities(), results.Attractions(), trip.Interests, trip.Budget)
			it := sched.Schedule(candidates, trip, results.Weather())
			return model.ItineraryPayload{Itinerary: &it}, nil
		},
		func(ctx context.Context, _ model.Results) model.Payload {
			trip, _ := readState(ctx, func(s *model.GraphState) model.TripParams { return s.Trip })
			it := sched.Schedule(nil, trip, model.WeatherResult{})
			return model.ItineraryPayload{Itinerary: &it}
		},
	))
}
