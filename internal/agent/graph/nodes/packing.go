package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"

	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/packing"
)

type packingInput struct {
	trip   model.TripParams
	params model.PackingParams
}

// NewPackingNode builds the rule-based packing list against gathered weather.
func NewPackingNode(gen *packing.Generator) *compose.Lambda {
	read := func(ctx context.Context) (packingInput, error) {
		return readState(ctx, func(s *model.GraphState) packingInput {
			return packingInput{trip: s.Trip, params: s.Packing}
		})
	}
	return compose.InvokableLambda(guarded(NodePacking,
		func(ctx context.Context, results model.Results) (model.Payload, error) {
			in, err := read(ctx)
			if err != nil {
				return nil, err
			}
			weather := results.Weather()
			list := gen.Generate(in.trip, in.params, weather)
			return model.PackingPayload{List: &list, Weather: weather.Current}, nil
		},
		func(ctx context.Context, _ model.Results) model.Payload {
			in, _ := read(ctx)
			list := gen.Generate(in.trip, model.PackingParams{}, model.WeatherResult{})
			return model.PackingPayload{List: &list}
		},
	))
}
