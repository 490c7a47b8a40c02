package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/cantrip-core/server/internal/agent/model"
)

//go:embed template/explore_prompt.txt
var exploreUserPrompt string

type ExploreInput struct {
	Trip        model.TripParams
	Days        int
	Weather     *model.WeatherReport
	Events      int
	Attractions int
}

// RenderExplore builds the message list for suggestion generation.
func RenderExplore(ctx context.Context, in ExploreInput) ([]*schema.Message, error) {
	weather := "unknown"
	if w := in.Weather; w != nil {
		weather = fmt.Sprintf("%s, %.0f°C", w.Condition, w.Temperature)
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(exploreUserPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"City":        in.Trip.City,
		"Mood":        in.Trip.Mood,
		"Interests":   strings.Join(in.Trip.Interests, ", "),
		"Budget":      in.Trip.Budget,
		"Days":        in.Days,
		"Weather":     weather,
		"Events":      fmt.Sprintf("%d events", in.Events),
		"Attractions": fmt.Sprintf("%d attractions", in.Attractions),
	})
	if err != nil {
		return nil, fmt.Errorf("explore prompt render: %w", err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("explore prompt render: empty result")
	}
	return msgs, nil
}
