package packing

import (
	"fmt"
	"math"
	"strings"

	"github.com/cantrip-core/server/internal/agent/model"
	logx "github.com/cantrip-core/server/pkg/logger"
)

const (
	defaultDuration    = 3
	defaultTemperature = 20.0
	defaultBaggage     = "checked"
)

// WeatherCategory buckets a temperature in °C.
func WeatherCategory(temperature float64) string {
	switch {
	case temperature >= 25:
		return "hot"
	case temperature >= 15:
		return "warm"
	case temperature >= 5:
		return "mild"
	case temperature >= -5:
		return "cool"
	default:
		return "cold"
	}
}

func durationCategory(days int) string {
	switch {
	case days <= 2:
		return "weekend"
	case days <= 7:
		return "week"
	case days <= 14:
		return "two_weeks"
	default:
		return "month"
	}
}

func groupCategory(size int) string {
	switch {
	case size <= 1:
		return "solo"
	case size == 2:
		return "couple"
	case size <= 4:
		return "family"
	default:
		return "group"
	}
}

// Generator builds rule-based packing lists. It is read-only after New.
type Generator struct {
	rules Rules
}

func New(rules Rules) *Generator {
	return &Generator{rules: rules}
}

// Generate builds a packing list for the trip. Item quantities are scaled by
// trip length and group size, each rounded up.
func (g *Generator) Generate(trip model.TripParams, params model.PackingParams, weather model.WeatherResult) model.PackingList {
	days := trip.Span()
	if days == 0 {
		days = defaultDuration
	}
	groupSize := trip.GroupSize
	if groupSize <= 0 {
		groupSize = 1
	}
	band := WeatherCategory(temperatureOf(weather))

	var categories []model.PackingCategory
	add := func(name string, items []model.PackingItem) {
		if len(items) > 0 {
			categories = append(categories, model.PackingCategory{Name: name, Items: items})
		}
	}

	if group, ok := g.rules.Weather[band]; ok {
		add("Weather-Appropriate Clothing", groupItems(group,
			"Appropriate for "+band+" weather",
			"Essential for "+band+" weather",
			"Suitable for "+band+" weather"))
	}
	for _, activity := range params.Activities {
		key := ruleKey(activity)
		if group, ok := g.rules.Activities[key]; ok {
			add(label(key)+" Gear", groupItems(group, "Required for "+key, "Essential for "+key, "Suitable for "+key))
		}
	}
	if extras, ok := g.rules.Age[ruleKey(params.AgeGroup)]; ok {
		add("Age-Specific Items", listItems(extras.AdditionalItems, "Required for "+ruleKey(params.AgeGroup)))
	}
	for _, need := range params.SpecialNeeds {
		key := ruleKey(need)
		if extras, ok := g.rules.SpecialNeeds[key]; ok {
			add(label(key)+" Items", listItems(extras.AdditionalItems, "Required for "+key))
		}
	}
	baggage := ruleKey(params.BaggageType)
	if baggage == "" {
		baggage = defaultBaggage
	}
	if b, ok := g.rules.Baggage[baggage]; ok {
		add("Essentials", listItems(b.Essentials, "Essential item"))
	}

	dur := g.rules.Duration[durationCategory(days)]
	grp := g.rules.Group[groupCategory(groupSize)]
	scale(categories, dur.Multiplier)
	scale(categories, grp.Multiplier)

	total := 0
	for _, c := range categories {
		for _, it := range c.Items {
			total += it.Quantity
		}
	}

	var notes []string
	if dur.Notes != "" {
		notes = append(notes, dur.Notes)
	}
	if grp.Notes != "" {
		notes = append(notes, grp.Notes)
	}
	notes = append(notes, fmt.Sprintf("Weather is expected to be %s, pack accordingly", band))

	list := model.PackingList{
		ID:          ListID(trip.City, trip.StartDate),
		Destination: trip.City,
		Categories:  categories,
		TotalItems:  total,
		Notes:       notes,
	}
	logx.Debug().Str("packing_id", list.ID).Str("weather_band", band).Int("items", total).Msg("packing list generated")
	return list
}

// ListID is deterministic per destination and start date.
func ListID(destination, startDate string) string {
	return fmt.Sprintf("packing-%s-%s", strings.ToLower(strings.ReplaceAll(strings.TrimSpace(destination), " ", "-")), startDate)
}

func temperatureOf(w model.WeatherResult) float64 {
	if w.Current != nil {
		return w.Current.Temperature
	}
	if len(w.Forecast) > 0 {
		return w.Forecast[0].HighTemp
	}
	return defaultTemperature
}

func groupItems(g ItemGroup, clothingReason, accessoryReason, footwearReason string) []model.PackingItem {
	items := listItems(g.Clothing, clothingReason)
	items = append(items, listItems(g.Accessories, accessoryReason)...)
	return append(items, listItems(g.Footwear, footwearReason)...)
}

func listItems(names []string, reason string) []model.PackingItem {
	items := make([]model.PackingItem, 0, len(names))
	for _, n := range names {
		items = append(items, model.PackingItem{Name: n, Quantity: 1, Reason: reason})
	}
	return items
}

func scale(categories []model.PackingCategory, m float64) {
	if m <= 0 {
		return
	}
	for i := range categories {
		for j := range categories[i].Items {
			it := &categories[i].Items[j]
			it.Quantity = int(math.Ceil(float64(it.Quantity) * m))
		}
	}
}

func ruleKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func label(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
