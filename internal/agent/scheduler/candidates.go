package scheduler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cantrip-core/server/internal/agent/model"
)

var typeDurations = map[string]int{
	"museum":     120,
	"park":       90,
	"restaurant": 60,
	"shopping":   90,
	"tour":       180,
	"attraction": 120,
}

var outdoorCategories = []string{"park", "outdoor", "nature"}

var priceNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Candidates merges the planning pool with gathered attractions into one
// scheduler input. Pool entries are filtered by interests and trip budget,
// attraction names already in the pool are skipped.
func Candidates(pool model.ActivityList, attractions model.AttractionList, interests []string, budget float64) []model.CandidateActivity {
	out := make([]model.CandidateActivity, 0, len(pool)+len(attractions))
	seen := make(map[string]bool, len(pool)+len(attractions))
	for _, a := range pool {
		if a.Cost > budget || !a.MatchesInterest(interests) {
			continue
		}
		if !a.Outdoor {
			a.Outdoor = IsOutdoor(a.Type, a.Category)
		}
		out = append(out, a)
		seen[strings.ToLower(a.Name)] = true
	}
	for _, a := range attractions {
		key := strings.ToLower(a.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, FromAttraction(a))
	}
	return out
}

// FromAttraction converts a gathered attraction into a schedulable candidate.
func FromAttraction(a model.Attraction) model.CandidateActivity {
	return model.CandidateActivity{
		Name:            a.Name,
		Type:            a.Type,
		Category:        a.Category,
		Description:     a.Description,
		DurationMinutes: DefaultDuration(a.Type),
		Cost:            PriceFromRange(a.PriceRange),
		Location:        a.Location,
		Rating:          a.Rating,
		Hours:           a.Hours,
		Outdoor:         IsOutdoor(a.Type, a.Category),
	}
}

func DefaultDuration(kind string) int {
	if d, ok := typeDurations[strings.ToLower(strings.TrimSpace(kind))]; ok {
		return d
	}
	return typeDurations["attraction"]
}

func IsOutdoor(kind, category string) bool {
	kind, category = strings.ToLower(kind), strings.ToLower(category)
	for _, c := range outdoorCategories {
		if kind == c || strings.Contains(category, c) {
			return true
		}
	}
	return false
}

// PriceFromRange estimates a per-visit cost from a "$$" style or numeric range.
func PriceFromRange(r string) float64 {
	r = strings.ToLower(strings.TrimSpace(r))
	switch {
	case r == "", strings.Contains(r, "free"):
		return 0
	case strings.Trim(r, "$") == "":
		switch len(r) {
		case 1:
			return 15
		case 2:
			return 30
		case 3:
			return 60
		default:
			return 100
		}
	}
	if m := priceNumber.FindString(r); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v
		}
	}
	return 0
}
