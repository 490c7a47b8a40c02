package model

import "time"

// Envelope is the externally visible response. Exactly one of the branch
// sections is populated, matching Kind.
type Envelope struct {
	Kind         Branch         `json:"kind"`
	SessionID    string         `json:"session_id"`
	Intent       Intent         `json:"intent"`
	Confidence   float64        `json:"confidence"`
	CityDetected string         `json:"city_detected,omitempty"`
	ToolsUsed    []Collaborator `json:"tools_used"`
	Model        string         `json:"model,omitempty"`
	TotalCostUSD float64        `json:"total_cost_usd"`
	Degraded     []string       `json:"degraded,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`

	Itinerary *ItineraryEnvelope `json:"itinerary,omitempty"`
	Explore   *ExploreEnvelope   `json:"explore,omitempty"`
	Packing   *PackingEnvelope   `json:"packing,omitempty"`
	Chat      *ChatEnvelope      `json:"chat,omitempty"`
}

type ItineraryMetadata struct {
	City        string    `json:"city"`
	Duration    int       `json:"duration"`
	TotalCost   float64   `json:"total_cost"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ItineraryEnvelope struct {
	Itinerary *Itinerary        `json:"itinerary"`
	Metadata  ItineraryMetadata `json:"metadata"`
}

type ExploreMetadata struct {
	City        string    `json:"city"`
	Mood        string    `json:"mood,omitempty"`
	Generated   bool      `json:"generated"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ExploreEnvelope struct {
	Suggestions []string        `json:"suggestions"`
	Weather     *WeatherReport  `json:"weather,omitempty"`
	Events      []Event         `json:"events"`
	Attractions []Attraction    `json:"attractions"`
	Metadata    ExploreMetadata `json:"metadata"`
}

type PackingEnvelope struct {
	PackingList *PackingList   `json:"packing_list"`
	Weather     *WeatherReport `json:"weather,omitempty"`
	TotalItems  int            `json:"total_items"`
}

// ChatData exposes the collaborator records that informed a chat reply.
type ChatData struct {
	Weather         *WeatherResult   `json:"weather,omitempty"`
	Events          []Event          `json:"events,omitempty"`
	Attractions     []Attraction     `json:"attractions,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

type ChatEnvelope struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	Data        ChatData `json:"data"`
}
