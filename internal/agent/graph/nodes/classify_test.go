package nodes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantrip-core/server/internal/agent/intent"
	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/router"
)

var (
	testNow      = time.Date(2025, 7, 30, 10, 0, 0, 0, time.UTC)
	testDefaults = model.SchedulerConfig{DefaultDays: 3, DefaultBudget: 1000, DefaultGroupSize: 1}
	testRouter   = model.RouterConfig{FlashModel: "flash", ProModel: "pro", FlashLiteModel: "lite"}
)

func classify(t *testing.T, in model.RequestContext) (*model.GraphState, model.Intent) {
	t.Helper()
	s := model.NewGraphState()
	label, err := Classify(intent.Default(), router.New(testRouter), testDefaults, testNow, in, s)
	require.NoError(t, err)
	return s, label
}

func TestClassifyEventsMessage(t *testing.T) {
	s, label := classify(t, model.RequestContext{Message: "What events are happening in Toronto this weekend?"})

	assert.Equal(t, model.IntentEvents, label)
	assert.Equal(t, model.IntentEvents, s.Intent())
	assert.Equal(t, "Toronto", s.City)
	assert.Contains(t, s.Collaborators, model.CollabEvents)
	assert.NotEmpty(t, s.Filters[model.FilterDate])
	assert.Equal(t, "flash", s.Model)
	assert.False(t, s.Escalated)
	assert.Equal(t, testDefaults.DefaultBudget, s.Trip.Budget)
	assert.Equal(t, 1, s.Trip.GroupSize)
}

func TestClassifyEscalatesOnManyCities(t *testing.T) {
	s, _ := classify(t, model.RequestContext{Message: "Compare Toronto, Montreal and Vancouver for me"})

	assert.Len(t, s.Cities, 3)
	assert.Equal(t, "pro", s.Model)
	assert.True(t, s.Escalated)
}

func TestClassifyEscalatesOnImages(t *testing.T) {
	s, _ := classify(t, model.RequestContext{Message: "what is this?", HasImages: true})
	assert.Equal(t, "pro", s.Model)
	assert.True(t, s.Escalated)
}

func TestClassifyStructuredTask(t *testing.T) {
	s, label := classify(t, model.RequestContext{
		Task: model.TaskItinerary,
		Trip: model.TripParams{
			City:      " Montreal ",
			StartDate: "2025-08-01",
			EndDate:   "2025-08-03",
			Interests: []string{"food", "art"},
		},
	})

	assert.Equal(t, model.IntentItinerary, label)
	assert.Equal(t, "Montreal", s.City)
	assert.Equal(t, []model.Collaborator{model.CollabWeather, model.CollabAttractions, model.CollabPlanning}, s.Collaborators)
	assert.Equal(t, model.Filters{
		model.FilterStartDate: "2025-08-01",
		model.FilterEndDate:   "2025-08-03",
		model.FilterDays:      "3",
		model.FilterInterests: "food,art",
	}, s.Filters)
	assert.Equal(t, 0.0, s.Trip.Budget)
	assert.Equal(t, "pro", s.Model)
}

func TestClassifyPackingTask(t *testing.T) {
	s, label := classify(t, model.RequestContext{
		Task:    model.TaskPacking,
		Trip:    model.TripParams{City: "Banff", StartDate: "2025-01-10", EndDate: "2025-01-14"},
		Packing: model.PackingParams{Activities: []string{"skiing"}},
	})

	assert.Equal(t, model.IntentPacking, label)
	assert.Equal(t, []model.Collaborator{model.CollabWeather}, s.Collaborators)
	assert.Equal(t, []string{"skiing"}, s.Packing.Activities)
}

func TestSelectBranch(t *testing.T) {
	tests := []struct {
		name  string
		task  model.Task
		label model.Intent
		city  string
		want  model.Branch
	}{
		{"itinerary task", model.TaskItinerary, model.IntentItinerary, "", model.BranchItinerary},
		{"explore task", model.TaskExplore, model.IntentExplore, "Toronto", model.BranchExplore},
		{"packing task", model.TaskPacking, model.IntentPacking, "", model.BranchPacking},
		{"planning with known city", model.TaskChat, model.IntentPlanning, "Ottawa", model.BranchItinerary},
		{"planning without city", model.TaskChat, model.IntentPlanning, "", model.BranchChat},
		{"planning with unknown city", model.TaskChat, model.IntentPlanning, "Paris", model.BranchChat},
		{"events", model.TaskChat, model.IntentEvents, "Toronto", model.BranchChat},
		{"general", model.TaskChat, model.IntentGeneral, "", model.BranchChat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectBranch(tt.task, tt.label, tt.city))
		})
	}
}
