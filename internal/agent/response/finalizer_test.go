package response

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantrip-core/server/internal/agent/model"
	errx "github.com/cantrip-core/server/internal/core/error"
)

var fixedNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func newState(t *testing.T, intent model.Intent, out model.Payload) *model.GraphState {
	t.Helper()
	s := model.NewGraphState()
	s.SessionID = "sess-1"
	s.City = "Toronto"
	require.NoError(t, s.SetIntent(intent))
	if out != nil {
		require.NoError(t, s.SetOutput(out))
	}
	return s
}

func TestFinalizeChat(t *testing.T) {
	s := newState(t, model.IntentEvents, model.ChatPayload{Reply: "Caribana is on.", Suggestions: []string{"a"}})
	s.Results[model.CollabEvents] = model.EventList{{Name: "Caribana"}}
	s.Results[model.CollabWeather] = model.WeatherResult{}
	s.Model = "gemini-2.5-flash"
	s.TotalCostUSD = 0.002

	env, err := Finalize(s, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, model.BranchChat, env.Kind)
	assert.Equal(t, "sess-1", env.SessionID)
	assert.Equal(t, model.IntentEvents, env.Intent)
	assert.Equal(t, "Toronto", env.CityDetected)
	assert.ElementsMatch(t, []model.Collaborator{model.CollabEvents, model.CollabWeather}, env.ToolsUsed)
	assert.Equal(t, "gemini-2.5-flash", env.Model)
	assert.InDelta(t, 0.002, env.TotalCostUSD, 1e-9)
	assert.Equal(t, confidenceGenerated, env.Confidence)
	assert.Empty(t, env.Degraded)

	require.NotNil(t, env.Chat)
	assert.Equal(t, "Caribana is on.", env.Chat.Response)
	assert.Len(t, env.Chat.Data.Events, 1)
	assert.NotNil(t, env.Chat.Data.Weather)
	assert.Nil(t, env.Itinerary)
	assert.Nil(t, env.Explore)
	assert.Nil(t, env.Packing)
}

func TestFinalizeChatFallback(t *testing.T) {
	s := newState(t, model.IntentGeneral, model.ChatPayload{Fallback: true})
	s.RecordStageError("chat", assert.AnError)
	s.RecordStageError("gather", assert.AnError)

	env, err := Finalize(s, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, env.Chat.Response)
	assert.Equal(t, FallbackSuggestions(), env.Chat.Suggestions)
	assert.Equal(t, confidenceFallback, env.Confidence)
	assert.Equal(t, []string{"chat", "gather"}, env.Degraded)
}

func TestFinalizeItinerary(t *testing.T) {
	it := &model.Itinerary{City: "Montreal", Duration: 2, TotalCost: 120, CreatedAt: fixedNow}
	s := newState(t, model.IntentItinerary, model.ItineraryPayload{Itinerary: it})

	env, err := Finalize(s, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, model.BranchItinerary, env.Kind)
	require.NotNil(t, env.Itinerary)
	assert.Equal(t, "Montreal", env.Itinerary.Metadata.City)
	assert.Equal(t, 2, env.Itinerary.Metadata.Duration)
	assert.Equal(t, 120.0, env.Itinerary.Metadata.TotalCost)
	assert.NotNil(t, env.ToolsUsed)
}

func TestFinalizeExploreNotGenerated(t *testing.T) {
	s := newState(t, model.IntentExplore, model.ExplorePayload{Suggestions: []string{"Visit ROM"}})
	s.Trip.City = "Toronto"
	s.Trip.Mood = "relaxed"

	env, err := Finalize(s, fixedNow)
	require.NoError(t, err)
	require.NotNil(t, env.Explore)
	assert.False(t, env.Explore.Metadata.Generated)
	assert.Equal(t, "relaxed", env.Explore.Metadata.Mood)
	assert.NotNil(t, env.Explore.Events)
	assert.Equal(t, confidenceFallback, env.Confidence)
}

func TestFinalizePacking(t *testing.T) {
	list := &model.PackingList{ID: "packing-banff-2025-01-10", TotalItems: 12}
	s := newState(t, model.IntentPacking, model.PackingPayload{List: list})

	env, err := Finalize(s, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 12, env.Packing.TotalItems)
}

func TestFinalizeFatal(t *testing.T) {
	_, err := Finalize(nil, fixedNow)
	require.Error(t, err)
	assert.Equal(t, errx.ClassFatalEnvelope, errx.ClassOf(err))

	_, err = Finalize(newState(t, model.IntentGeneral, nil), fixedNow)
	require.Error(t, err)
	assert.Equal(t, errx.ClassFatalEnvelope, errx.ClassOf(err))

	_, err = Finalize(newState(t, model.IntentItinerary, model.ItineraryPayload{}), fixedNow)
	require.Error(t, err)
}
