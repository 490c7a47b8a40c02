package model

import (
	"strings"
	"time"
)

// Task selects the task-specific entry into the graph.
type Task string

const (
	TaskChat      Task = "chat"
	TaskItinerary Task = "generate_itinerary"
	TaskExplore   Task = "explore_destination"
	TaskPacking   Task = "generate_packing_list"
)

// ParseTask maps a wire value onto a Task, defaulting to chat.
func ParseTask(v string) Task {
	switch Task(strings.ToLower(strings.TrimSpace(v))) {
	case TaskItinerary:
		return TaskItinerary
	case TaskExplore:
		return TaskExplore
	case TaskPacking:
		return TaskPacking
	default:
		return TaskChat
	}
}

// Pace controls how many activities the scheduler places per day.
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PaceIntense  Pace = "intense"
)

const DateLayout = "2006-01-02"

// TripParams are the planning parameters of a request.
type TripParams struct {
	City          string   `json:"city"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Interests     []string `json:"interests"`
	Budget        float64  `json:"budget"`
	GroupSize     int      `json:"group_size"`
	Pace          Pace     `json:"pace"`
	Accommodation string   `json:"accommodation"`
	Mood          string   `json:"mood"`
}

// Range parses the trip dates. ok is false when either is missing, malformed or reversed.
func (t TripParams) Range() (start, end time.Time, ok bool) {
	start, err := time.Parse(DateLayout, strings.TrimSpace(t.StartDate))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.Parse(DateLayout, strings.TrimSpace(t.EndDate))
	if err != nil || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Span is the inclusive number of calendar days in the trip, 0 when the range is unusable.
func (t TripParams) Span() int {
	start, end, ok := t.Range()
	if !ok {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// PackingParams are the packing-specific parameters of a request.
type PackingParams struct {
	Activities   []string `json:"activities"`
	AgeGroup     string   `json:"age_group"`
	SpecialNeeds []string `json:"special_needs"`
	BaggageType  string   `json:"baggage_type"`
}

// RequestContext is the normalized, read-only input of one graph run.
type RequestContext struct {
	Task          Task          `json:"task"`
	Message       string        `json:"message"`
	SessionID     string        `json:"session_id"`
	History       []Turn        `json:"history,omitempty"`
	Trip          TripParams    `json:"trip"`
	Packing       PackingParams `json:"packing"`
	HasImages     bool          `json:"has_images,omitempty"`
	PreviousError string        `json:"previous_error,omitempty"`
	ReceivedAt    time.Time     `json:"received_at"`
}
