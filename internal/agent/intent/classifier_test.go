package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cantrip-core/server/internal/agent/model"
)

func TestClassifyEventsInToronto(t *testing.T) {
	res := Classify("What events are happening in Toronto this weekend?", nil)

	assert.Equal(t, model.IntentEvents, res.Intent)
	assert.Contains(t, res.Collaborators, model.CollabEvents)
	assert.Equal(t, "Toronto", res.City)
}

func TestClassifyMultipleCategoriesKeepsAllCollaborators(t *testing.T) {
	res := Classify("What's the weather like and which museum should I visit?", nil)

	assert.Equal(t, model.IntentWeather, res.Intent)
	assert.ElementsMatch(t,
		[]model.Collaborator{model.CollabWeather, model.CollabAttractions, model.CollabPlanning},
		res.Collaborators)
}

func TestClassifyPriorityOrder(t *testing.T) {
	cases := []struct {
		message string
		want    model.Intent
	}{
		{"plan a trip with a good museum", model.IntentAttractions},
		{"recommend a trip", model.IntentPlanning},
		{"recommend something", model.IntentRecommendations},
		{"is it cold at the festival", model.IntentEvents},
		{"forecast for my itinerary", model.IntentWeather},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.message, nil).Intent, tc.message)
	}
}

func TestClassifyCityWithoutCategory(t *testing.T) {
	res := Classify("Vancouver?", nil)

	assert.Equal(t, model.IntentGeneralCity, res.Intent)
	assert.Equal(t, []model.Collaborator{model.CollabRecommendations, model.CollabAttractions}, res.Collaborators)
	assert.Equal(t, "Vancouver", res.City)
}

func TestClassifyNothingMatches(t *testing.T) {
	for _, msg := range []string{"", "   ", "hello there"} {
		res := Classify(msg, nil)
		assert.Equal(t, model.IntentGeneral, res.Intent, "message %q", msg)
		assert.Empty(t, res.Collaborators)
		assert.Empty(t, res.City)
	}
}

func TestClassifyCityTokenBoundary(t *testing.T) {
	res := Classify("my ajaxian framework is slow", nil)
	assert.Empty(t, res.City)
	assert.Equal(t, model.IntentGeneral, res.Intent)

	res = Classify("thinking about niagara falls, quebec city and banff", nil)
	assert.Equal(t, []string{"Quebec City", "Banff", "Niagara Falls"}, res.Cities)
	assert.Equal(t, "Quebec City", res.City)

	res = Classify("heading to trois-rivières", nil)
	assert.Equal(t, "Trois-Rivières", res.City)
}

func TestClassifyCarriesCityFromHistory(t *testing.T) {
	history := []model.Turn{
		{Role: "user", Content: "I'm going to Calgary"},
		{Role: "assistant", Content: "Great choice!"},
	}
	res := Classify("what's the weather?", history)

	assert.Equal(t, model.IntentWeather, res.Intent)
	assert.Equal(t, "Calgary", res.City)
	assert.Empty(t, res.Cities)
}

func TestCustomRules(t *testing.T) {
	c := New([]Rule{{Intent: "packing", Collaborator: model.CollabWeather, Keywords: []string{"pack"}}})
	res := c.Classify("what should I pack", nil)
	assert.Equal(t, model.Intent("packing"), res.Intent)
	assert.Equal(t, []model.Collaborator{model.CollabWeather}, res.Collaborators)
}

func TestKnownCity(t *testing.T) {
	assert.True(t, KnownCity(" Toronto "))
	assert.False(t, KnownCity("Paris"))
}
