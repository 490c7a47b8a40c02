package model

import (
	"sort"
	"time"
)

// Collaborator names one external data capability.
type Collaborator string

const (
	CollabWeather         Collaborator = "weather"
	CollabEvents          Collaborator = "events"
	CollabAttractions     Collaborator = "attractions"
	CollabRecommendations Collaborator = "recommendations"
	CollabPlanning        Collaborator = "planning"
)

// Filters are the free-form per-request hints handed to adapters.
type Filters map[string]string

// Well-known filter keys.
const (
	FilterDate      = "date"
	FilterStartDate = "start_date"
	FilterEndDate   = "end_date"
	FilterCategory  = "category"
	FilterInterests = "interests"
	FilterDays      = "days"
	FilterMood      = "mood"
)

// Result is what one adapter returned. An empty result and a failed adapter look the same.
type Result interface {
	Collaborator() Collaborator
	Len() int
}

// WeatherReport is a point-in-time observation.
type WeatherReport struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Source      string    `json:"source"`
	Note        string    `json:"note,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}

// DayForecast is the aggregated outlook for one calendar day.
type DayForecast struct {
	Date          string  `json:"date"`
	HighTemp      float64 `json:"high_temp"`
	LowTemp       float64 `json:"low_temp"`
	Condition     string  `json:"condition"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
}

type WeatherResult struct {
	Current  *WeatherReport `json:"current,omitempty"`
	Forecast []DayForecast  `json:"forecast,omitempty"`
	Fallback bool           `json:"fallback"`
}

func (WeatherResult) Collaborator() Collaborator { return CollabWeather }
func (w WeatherResult) Len() int {
	n := len(w.Forecast)
	if w.Current != nil {
		n++
	}
	return n
}

// DayWeather picks the conditions for date: the forecast entry when present, else current.
// It returns nil when nothing is known.
func (w WeatherResult) DayWeather(date string) *DayWeather {
	for _, f := range w.Forecast {
		if f.Date == date {
			return &DayWeather{Condition: f.Condition, Temperature: f.HighTemp}
		}
	}
	if w.Current != nil {
		return &DayWeather{Condition: w.Current.Condition, Temperature: w.Current.Temperature}
	}
	return nil
}

type Event struct {
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	Date             string   `json:"date"`
	EndDate          string   `json:"end_date,omitempty"`
	Time             string   `json:"time"`
	Location         string   `json:"location"`
	PriceRange       string   `json:"price_range"`
	TicketsAvailable bool     `json:"tickets_available"`
	BookingURL       string   `json:"booking_url,omitempty"`
	Rating           float64  `json:"rating"`
	Tags             []string `json:"tags,omitempty"`
}

type EventList []Event

func (EventList) Collaborator() Collaborator { return CollabEvents }
func (l EventList) Len() int                 { return len(l) }

type Attraction struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Rating      float64  `json:"rating"`
	PriceRange  string   `json:"price_range"`
	Hours       string   `json:"hours"`
	Website     string   `json:"website,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type AttractionList []Attraction

func (AttractionList) Collaborator() Collaborator { return CollabAttractions }
func (l AttractionList) Len() int                 { return len(l) }

type Recommendation struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Rating      float64  `json:"rating"`
	PriceRange  string   `json:"price_range"`
	Season      string   `json:"season,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type RecommendationList []Recommendation

func (RecommendationList) Collaborator() Collaborator { return CollabRecommendations }
func (l RecommendationList) Len() int                 { return len(l) }

// ActivityList is the planning-data pool of candidate activities.
type ActivityList []CandidateActivity

func (ActivityList) Collaborator() Collaborator { return CollabPlanning }
func (l ActivityList) Len() int                 { return len(l) }

// EmptyResult is the degraded result for c.
func EmptyResult(c Collaborator) Result {
	switch c {
	case CollabWeather:
		return WeatherResult{}
	case CollabEvents:
		return EventList{}
	case CollabAttractions:
		return AttractionList{}
	case CollabRecommendations:
		return RecommendationList{}
	case CollabPlanning:
		return ActivityList{}
	default:
		return nil
	}
}

// Results holds the merged gather output keyed by collaborator name.
type Results map[Collaborator]Result

func (r Results) Weather() WeatherResult {
	w, _ := r[CollabWeather].(WeatherResult)
	return w
}

func (r Results) Events() EventList {
	l, _ := r[CollabEvents].(EventList)
	return l
}

func (r Results) Attractions() AttractionList {
	l, _ := r[CollabAttractions].(AttractionList)
	return l
}

func (r Results) Recommendations() RecommendationList {
	l, _ := r[CollabRecommendations].(RecommendationList)
	return l
}

func (r Results) Activities() ActivityList {
	l, _ := r[CollabPlanning].(ActivityList)
	return l
}

// Names returns the collaborators present, sorted.
func (r Results) Names() []Collaborator {
	names := make([]Collaborator, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
