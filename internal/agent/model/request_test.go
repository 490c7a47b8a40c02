package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripParamsSpan(t *testing.T) {
	assert.Equal(t, 3, TripParams{StartDate: "2025-07-01", EndDate: "2025-07-03"}.Span())
	assert.Equal(t, 1, TripParams{StartDate: "2025-07-01", EndDate: "2025-07-01"}.Span())
	assert.Equal(t, 0, TripParams{StartDate: "2025-07-03", EndDate: "2025-07-01"}.Span())
	assert.Equal(t, 0, TripParams{StartDate: "07/01/2025", EndDate: "2025-07-03"}.Span())
	assert.Equal(t, 0, TripParams{}.Span())
}

func TestParseTask(t *testing.T) {
	assert.Equal(t, TaskItinerary, ParseTask("generate_itinerary"))
	assert.Equal(t, TaskPacking, ParseTask(" GENERATE_PACKING_LIST "))
	assert.Equal(t, TaskChat, ParseTask(""))
	assert.Equal(t, TaskChat, ParseTask("unknown"))
}

func TestTurnMessage(t *testing.T) {
	assert.Nil(t, Turn{Role: "user", Content: "   "}.Message())
	assert.Nil(t, Turn{Role: "system", Content: "hi"}.Message())

	m := Turn{Role: "Assistant", Content: " hello "}.Message()
	if assert.NotNil(t, m) {
		assert.Equal(t, "hello", m.Content)
	}
}
