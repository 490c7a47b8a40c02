package response

import (
	"fmt"

	"github.com/cantrip-core/server/internal/agent/model"
)

// FallbackReply is returned whenever a reply could not be generated.
const FallbackReply = "I'm here to help with your Canadian travel planning! What would you like to know?"

const (
	confidenceGenerated = 0.9
	confidenceFallback  = 0.5
	maxExplore          = 7
)

// FallbackSuggestions accompany FallbackReply.
func FallbackSuggestions() []string {
	return []string{"Tell me about popular Canadian destinations", "Help me plan a trip"}
}

var suggestionTable = map[model.Intent][]string{
	model.IntentEvents: {
		"What concerts are happening in %s?",
		"Are there any sports events in %s?",
		"What festivals are coming up in %s?",
		"Show me family-friendly events in %s",
	},
	model.IntentWeather: {
		"What's the weather forecast for %s?",
		"What should I pack for %s?",
		"Is it good weather for outdoor activities in %s?",
		"What's the best time to visit %s?",
	},
	model.IntentAttractions: {
		"What are the must-see attractions in %s?",
		"Show me free attractions in %s",
		"What museums are in %s?",
		"What outdoor attractions are in %s?",
	},
	model.IntentPlanning: {
		"Create a 3-day itinerary for %s",
		"Plan a budget trip to %s",
		"What should I do in %s this weekend?",
		"Plan a family trip to %s",
	},
}

var otherSuggestions = []string{
	"Tell me about %s",
	"What's the weather like in %s?",
	"What events are happening in %s?",
	"Plan a trip to %s",
}

// SuggestionsFor returns follow-up prompts for an intent. Without a city the
// fallback suggestions are used.
func SuggestionsFor(intent model.Intent, city string) []string {
	if city == "" {
		return FallbackSuggestions()
	}
	templates, ok := suggestionTable[intent]
	if !ok {
		templates = otherSuggestions
	}
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = fmt.Sprintf(t, city)
	}
	return out
}

// ExploreSuggestions builds destination ideas from gathered records when no
// model output is available.
func ExploreSuggestions(city string, attractions []model.Attraction, events []model.Event) []string {
	if city == "" {
		city = "Canada"
	}
	var out []string
	for _, a := range attractions {
		if len(out) >= 3 {
			break
		}
		if a.Description != "" {
			out = append(out, fmt.Sprintf("Visit %s - %s", a.Name, a.Description))
		} else {
			out = append(out, "Visit "+a.Name)
		}
	}
	for i, e := range events {
		if i >= 2 {
			break
		}
		out = append(out, fmt.Sprintf("Attend %s on %s", e.Name, e.Date))
	}
	out = append(out,
		fmt.Sprintf("Explore the neighbourhoods of %s on foot", city),
		fmt.Sprintf("Try the local food scene in %s", city),
	)
	if len(out) > maxExplore {
		out = out[:maxExplore]
	}
	return out
}
