package model

import (
	"errors"
	"fmt"
	"time"
)

// Intent is the classifier's label for a request.
type Intent string

const (
	IntentEvents          Intent = "events_inquiry"
	IntentWeather         Intent = "weather_inquiry"
	IntentAttractions     Intent = "attractions_inquiry"
	IntentPlanning        Intent = "planning_inquiry"
	IntentRecommendations Intent = "recommendations_inquiry"
	IntentGeneralCity     Intent = "general_city_inquiry"
	IntentGeneral         Intent = "general_question"

	IntentItinerary Intent = "itinerary_generation"
	IntentExplore   Intent = "destination_exploration"
	IntentPacking   Intent = "packing_list"
)

// Branch names the synthesize path taken by a run.
type Branch string

const (
	BranchItinerary Branch = "itinerary"
	BranchExplore   Branch = "explore"
	BranchPacking   Branch = "packing"
	BranchChat      Branch = "chat"
)

var (
	ErrIntentAlreadySet = errors.New("intent already set")
	ErrOutputAlreadySet = errors.New("synthesize output already set")
)

// Payload is the branch-specific output of synthesize. Exactly one is set per run.
type Payload interface {
	Branch() Branch
}

type ItineraryPayload struct {
	Itinerary *Itinerary
}

func (ItineraryPayload) Branch() Branch { return BranchItinerary }

type ExplorePayload struct {
	Suggestions []string
	Weather     *WeatherReport
	Events      []Event
	Attractions []Attraction
	Generated   bool
}

func (ExplorePayload) Branch() Branch { return BranchExplore }

type PackingPayload struct {
	List    *PackingList
	Weather *WeatherReport
}

func (PackingPayload) Branch() Branch { return BranchPacking }

type ChatPayload struct {
	Reply       string
	Suggestions []string
	Fallback    bool
}

func (ChatPayload) Branch() Branch { return BranchChat }

// GraphState stores per-invocation state for the orchestration graph.
// Concurrency model:
//   - It is registered as graph local state via compose.WithGenLocalState,
//     so every run gets a fresh value that is never shared across requests.
//   - Reads and writes happen inside eino state handlers or compose.ProcessState,
//     which serialize access. Gather goroutines never touch it; their results
//     are written once after the join.
//   - Stages only append: intent and output are write-once.
type GraphState struct {
	SessionID string
	Task      Task
	Message   string
	History   []Turn
	StartedAt time.Time

	Log []string

	intent        Intent
	City          string
	Cities        []string
	Collaborators []Collaborator
	Filters       Filters
	Trip          TripParams
	Packing       PackingParams

	Results Results

	Output     Payload
	Confidence float64

	Model        string
	Escalated    bool
	TotalCostUSD float64

	StageErrors map[string]string
}

func NewGraphState() *GraphState {
	return &GraphState{
		Filters:     Filters{},
		Results:     Results{},
		StageErrors: map[string]string{},
		StartedAt:   time.Now(),
	}
}

// Intent returns the classified intent, empty before classify.
func (s *GraphState) Intent() Intent {
	return s.intent
}

// SetIntent records the intent once per run.
func (s *GraphState) SetIntent(i Intent) error {
	if s.intent != "" {
		return fmt.Errorf("%w: %s", ErrIntentAlreadySet, s.intent)
	}
	s.intent = i
	return nil
}

// SetOutput records the synthesize payload once per run.
func (s *GraphState) SetOutput(p Payload) error {
	if s.Output != nil {
		return fmt.Errorf("%w: %s", ErrOutputAlreadySet, s.Output.Branch())
	}
	s.Output = p
	return nil
}

// Branch returns the branch that produced the output, empty before synthesize.
func (s *GraphState) Branch() Branch {
	if s.Output == nil {
		return ""
	}
	return s.Output.Branch()
}

func (s *GraphState) Logf(format string, args ...any) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}

// RecordStageError keeps the first error seen for a stage.
func (s *GraphState) RecordStageError(stage string, err error) {
	if err == nil {
		return
	}
	if s.StageErrors == nil {
		s.StageErrors = map[string]string{}
	}
	if _, ok := s.StageErrors[stage]; !ok {
		s.StageErrors[stage] = err.Error()
	}
}

// Requires reports whether c is in the required collaborator set.
func (s *GraphState) Requires(c Collaborator) bool {
	for _, r := range s.Collaborators {
		if r == c {
			return true
		}
	}
	return false
}
