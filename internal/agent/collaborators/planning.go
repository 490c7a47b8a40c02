package collaborators

import (
	"context"

	"github.com/cantrip-core/server/internal/agent/model"
)

var planningPool = model.ActivityList{
	{Name: "City Museum", Type: "museum", Category: "cultural", Description: "Interesting museum about city history", DurationMinutes: 120, Cost: 25, Location: "Downtown", Rating: 4.5, Hours: "9:00-17:00"},
	{Name: "Central Park", Type: "park", Category: "outdoor", Description: "Beautiful city park for relaxation", DurationMinutes: 90, Cost: 0, Location: "City Center", Rating: 4.3, Hours: "6:00-22:00", Outdoor: true},
	{Name: "Local Restaurant", Type: "restaurant", Category: "food", Description: "Authentic local cuisine", DurationMinutes: 60, Cost: 45, Location: "Downtown", Rating: 4.2, Hours: "11:00-23:00"},
	{Name: "Shopping District", Type: "shopping", Category: "shopping", Description: "Popular shopping area with various stores", DurationMinutes: 90, Cost: 0, Location: "Downtown", Rating: 4.0, Hours: "10:00-21:00"},
}

// Planning serves the static candidate-activity pool. Each call gets a copy.
type Planning struct{}

func NewPlanning() *Planning { return &Planning{} }

func (p *Planning) Name() model.Collaborator { return model.CollabPlanning }

func (p *Planning) Fetch(ctx context.Context, city string, _ model.Filters) model.Result {
	return guard(ctx, p.Name(), city, func() (model.Result, error) {
		out := make(model.ActivityList, len(planningPool))
		copy(out, planningPool)
		return out, nil
	}, empty(p.Name()))
}
