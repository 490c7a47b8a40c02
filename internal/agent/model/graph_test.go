package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphStateIntentIsWriteOnce(t *testing.T) {
	s := NewGraphState()
	require.NoError(t, s.SetIntent(IntentEvents))

	err := s.SetIntent(IntentWeather)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntentAlreadySet))
	assert.Equal(t, IntentEvents, s.Intent())
}

func TestGraphStateOutputIsWriteOnce(t *testing.T) {
	s := NewGraphState()
	assert.Equal(t, Branch(""), s.Branch())

	require.NoError(t, s.SetOutput(ChatPayload{Reply: "hi"}))
	err := s.SetOutput(ItineraryPayload{})
	assert.True(t, errors.Is(err, ErrOutputAlreadySet))
	assert.Equal(t, BranchChat, s.Branch())
}

func TestRecordStageErrorKeepsFirst(t *testing.T) {
	s := &GraphState{}
	s.RecordStageError("gather", errors.New("first"))
	s.RecordStageError("gather", errors.New("second"))
	s.RecordStageError("gather", nil)
	assert.Equal(t, "first", s.StageErrors["gather"])
}

func TestResultsAccessors(t *testing.T) {
	r := Results{
		CollabEvents:  EventList{{Name: "Jazz"}},
		CollabWeather: WeatherResult{Current: &WeatherReport{Condition: "Clear"}},
	}
	assert.Len(t, r.Events(), 1)
	assert.Equal(t, "Clear", r.Weather().Current.Condition)
	assert.Empty(t, r.Attractions())
	assert.Equal(t, []Collaborator{CollabEvents, CollabWeather}, r.Names())
	assert.Equal(t, 0, EmptyResult(CollabRecommendations).Len())
	assert.Nil(t, EmptyResult("bogus"))
}
