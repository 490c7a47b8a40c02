package intent

import (
	"strings"

	"github.com/cantrip-core/server/internal/agent/model"
)

// Rule ties a keyword set to the intent and collaborator it implies.
type Rule struct {
	Intent       model.Intent
	Collaborator model.Collaborator
	Keywords     []string
}

// DefaultRules are listed from highest to lowest priority.
var DefaultRules = []Rule{
	{
		Intent:       model.IntentEvents,
		Collaborator: model.CollabEvents,
		Keywords:     []string{"event", "events", "concert", "show", "game", "sports", "festival", "happening", "this weekend", "tonight"},
	},
	{
		Intent:       model.IntentWeather,
		Collaborator: model.CollabWeather,
		Keywords:     []string{"weather", "temperature", "climate", "rain", "snow", "sunny", "forecast", "hot", "cold"},
	},
	{
		Intent:       model.IntentAttractions,
		Collaborator: model.CollabAttractions,
		Keywords:     []string{"attraction", "attractions", "museum", "gallery", "landmark", "sightseeing", "visit", "see", "explore"},
	},
	{
		Intent:       model.IntentPlanning,
		Collaborator: model.CollabPlanning,
		Keywords:     []string{"plan", "itinerary", "schedule", "trip", "visit", "go to", "travel", "day", "weekend"},
	},
	{
		Intent:       model.IntentRecommendations,
		Collaborator: model.CollabRecommendations,
		Keywords:     []string{"recommend", "suggest", "best", "popular", "good", "where to", "what to do"},
	},
}

// Result is the outcome of classifying one message.
type Result struct {
	Intent        model.Intent
	Collaborators []model.Collaborator
	City          string
	// Cities lists every distinct gazetteer city in the message.
	Cities []string
}

// Classifier is a pure keyword classifier over a fixed rule table.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules, ordered highest priority first.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns the classifier over DefaultRules.
func Default() *Classifier {
	return New(DefaultRules)
}

// Classify maps message and history to an intent, the collaborators it needs
// and the detected city.
//
// Every matched category contributes its collaborator. Rules are walked from
// the lowest priority upward and the last match wins, so the intent is the
// highest-priority category that matched. When the message names no city the
// most recent city in history is carried forward.
func (c *Classifier) Classify(message string, history []model.Turn) Result {
	lower := strings.ToLower(strings.TrimSpace(message))
	if lower == "" {
		return Result{Intent: model.IntentGeneral}
	}

	res := Result{Cities: findCities(lower)}
	if len(res.Cities) > 0 {
		res.City = res.Cities[0]
	}

	matched := make([]bool, len(c.rules))
	for i := len(c.rules) - 1; i >= 0; i-- {
		if containsAny(lower, c.rules[i].Keywords) {
			matched[i] = true
			res.Intent = c.rules[i].Intent
		}
	}
	for i, ok := range matched {
		if ok {
			res.Collaborators = appendUnique(res.Collaborators, c.rules[i].Collaborator)
		}
	}

	switch {
	case res.Intent != "":
	case res.City != "":
		res.Intent = model.IntentGeneralCity
		res.Collaborators = []model.Collaborator{model.CollabRecommendations, model.CollabAttractions}
	default:
		res.Intent = model.IntentGeneral
	}

	if res.City == "" {
		res.City = cityFromHistory(history)
	}
	return res
}

// Classify runs the default classifier.
func Classify(message string, history []model.Turn) Result {
	return Default().Classify(message, history)
}

func cityFromHistory(history []model.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if cities := findCities(strings.ToLower(history[i].Content)); len(cities) > 0 {
			return cities[0]
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func appendUnique(list []model.Collaborator, c model.Collaborator) []model.Collaborator {
	for _, existing := range list {
		if existing == c {
			return list
		}
	}
	return append(list, c)
}
