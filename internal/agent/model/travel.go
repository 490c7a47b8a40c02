package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Clock is a time of day in minutes after midnight. It encodes as "HH:MM".
type Clock int

func ClockAt(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return fmt.Errorf("clock %q: %w", s, err)
	}
	*c = ClockAt(t.Hour(), t.Minute())
	return nil
}

// DayWeather is the condition the scheduler checks outdoor activities against.
type DayWeather struct {
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
}

// CandidateActivity is read-only scheduler input.
type CandidateActivity struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration"`
	Cost            float64 `json:"cost"`
	Location        string  `json:"location"`
	Rating          float64 `json:"rating"`
	Hours           string  `json:"hours"`
	Outdoor         bool    `json:"outdoor"`
}

// MatchesInterest reports whether any interest appears in the activity category.
// An empty interest list matches everything.
func (a CandidateActivity) MatchesInterest(interests []string) bool {
	if len(interests) == 0 {
		return true
	}
	category := strings.ToLower(a.Category)
	for _, interest := range interests {
		if interest = strings.ToLower(strings.TrimSpace(interest)); interest != "" && strings.Contains(category, interest) {
			return true
		}
	}
	return false
}

// ScheduledActivity is a candidate placed on a concrete day and time window.
type ScheduledActivity struct {
	CandidateActivity
	Day   int   `json:"day"`
	Start Clock `json:"start_time"`
	End   Clock `json:"end_time"`
}

type MealSlot struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Time     Clock   `json:"time"`
	Cost     float64 `json:"cost"`
	Cuisine  string  `json:"cuisine"`
}

type TransportLeg struct {
	Mode            string  `json:"type"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Start           Clock   `json:"start_time"`
	End             Clock   `json:"end_time"`
	DurationMinutes int     `json:"duration"`
	Cost            float64 `json:"cost"`
}

type DayPlan struct {
	Day        int                 `json:"day"`
	Date       string              `json:"date"`
	Weather    *DayWeather         `json:"weather,omitempty"`
	Activities []ScheduledActivity `json:"activities"`
	Meals      []MealSlot          `json:"meals"`
	Transport  []TransportLeg      `json:"transport"`
	TotalCost  float64             `json:"total_cost"`
	Notes      string              `json:"notes"`
}

type Itinerary struct {
	ID            string    `json:"id"`
	City          string    `json:"city"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Duration      int       `json:"duration"`
	GroupSize     int       `json:"group_size"`
	Pace          Pace      `json:"pace"`
	Accommodation string    `json:"accommodation"`
	Interests     []string  `json:"interests"`
	Days          []DayPlan `json:"days"`
	TotalCost     float64   `json:"total_cost"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

type PackingItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

type PackingCategory struct {
	Name  string        `json:"name"`
	Items []PackingItem `json:"items"`
}

type PackingList struct {
	ID          string            `json:"id"`
	Destination string            `json:"destination"`
	Categories  []PackingCategory `json:"categories"`
	TotalItems  int               `json:"total_items"`
	Notes       []string          `json:"notes"`
}
