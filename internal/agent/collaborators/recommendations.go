package collaborators

import (
	"context"
	"strings"
	"time"

	"github.com/cantrip-core/server/internal/agent/model"
)

var moodKeywords = map[string][]string{
	"relaxed":     {"spa", "wellness", "quiet", "peaceful", "relax"},
	"adventurous": {"adventure", "thrilling", "outdoor", "active"},
	"cultural":    {"museum", "historic", "cultural", "art"},
	"romantic":    {"romantic", "intimate", "fine_dining", "luxury"},
	"family":      {"family", "kid", "educational", "fun"},
	"budget":      {"budget", "affordable", "cheap"},
	"luxury":      {"luxury", "upscale", "premium", "exclusive"},
}

// Recommendations blends attractions, restaurants, activities, hotels and
// seasonal picks for a known city. Unknown cities get nothing.
type Recommendations struct {
	catalog *Catalog
	now     func() time.Time
}

func NewRecommendations(catalog *Catalog) *Recommendations {
	return &Recommendations{catalog: catalog, now: time.Now}
}

func (r *Recommendations) Name() model.Collaborator { return model.CollabRecommendations }

func (r *Recommendations) Fetch(ctx context.Context, city string, filters model.Filters) model.Result {
	return guard(ctx, r.Name(), city, func() (model.Result, error) {
		info, ok := r.catalog.Lookup(city)
		if !ok {
			return model.RecommendationList{}, nil
		}
		category := strings.ToLower(filters[model.FilterCategory])
		want := func(c string) bool { return category == "" || category == "all" || category == c }

		var out model.RecommendationList
		if want("attractions") {
			out = append(out, sampleAttractions(info.Name)...)
		}
		if want("restaurants") {
			out = append(out, sampleRestaurants(info.Name)...)
		}
		if want("activities") {
			out = append(out, sampleActivities(info.Name)...)
		}
		if want("hotels") {
			out = append(out, sampleHotels(info.Name)...)
		}
		out = append(out, seasonal(info, Season(r.now()))...)

		if mood := filters[model.FilterMood]; mood != "" {
			if filtered := FilterByMood(out, mood, splitList(filters[model.FilterInterests])); len(filtered) > 0 {
				out = filtered
			}
		}
		return capped(out), nil
	}, empty(r.Name()))
}

func sampleAttractions(city string) model.RecommendationList {
	return model.RecommendationList{
		{Name: "Famous Museum in " + city, Type: "attraction", Category: "cultural", Description: "A must-visit cultural attraction", Rating: 4.5, PriceRange: "$$", Location: "Downtown " + city},
		{Name: "Historic Landmark in " + city, Type: "attraction", Category: "historic", Description: "An important historical site", Rating: 4.2, PriceRange: "$", Location: "Old Town " + city},
	}
}

func sampleRestaurants(city string) model.RecommendationList {
	return model.RecommendationList{
		{Name: "Local Cuisine Restaurant", Type: "restaurant", Category: "local", Description: "Authentic local cuisine", Rating: 4.3, PriceRange: "$$", Location: "Downtown " + city},
		{Name: "Fine Dining Experience", Type: "restaurant", Category: "fine_dining", Description: "Upscale dining experience", Rating: 4.7, PriceRange: "$$$", Location: "Upscale district " + city},
	}
}

func sampleActivities(city string) model.RecommendationList {
	return model.RecommendationList{
		{Name: "City Walking Tour", Type: "activity", Category: "guided_tour", Description: "Explore the city with a local guide", Rating: 4.4, PriceRange: "$$", Location: "Various locations in " + city},
		{Name: "Adventure Activity", Type: "activity", Category: "adventure", Description: "Thrilling outdoor adventure", Rating: 4.6, PriceRange: "$$$", Location: "Outdoor area near " + city},
	}
}

func sampleHotels(city string) model.RecommendationList {
	return model.RecommendationList{
		{Name: "Luxury Hotel " + city, Type: "hotel", Category: "luxury", Description: "5-star luxury accommodation", Rating: 4.8, PriceRange: "$$$$", Location: "Downtown " + city},
		{Name: "Boutique Hotel " + city, Type: "hotel", Category: "boutique", Description: "Charming boutique hotel", Rating: 4.5, PriceRange: "$$$", Location: "Historic district " + city},
	}
}

func seasonal(info CityInfo, season string) model.RecommendationList {
	var out model.RecommendationList
	for _, activity := range info.Seasons[season].Activities {
		out = append(out, model.Recommendation{
			Name:        activity,
			Type:        "activity",
			Category:    "seasonal",
			Description: "Seasonal activity for " + season,
			Rating:      4.0,
			PriceRange:  "$$",
			Season:      season,
			Location:    info.Name,
		})
	}
	return out
}

// FilterByMood keeps recommendations whose category or description matches
// the mood keywords or any interest.
func FilterByMood(in model.RecommendationList, mood string, interests []string) model.RecommendationList {
	keywords := append(append([]string(nil), moodKeywords[strings.ToLower(mood)]...), interests...)
	var out model.RecommendationList
	for _, rec := range in {
		text := strings.ToLower(rec.Category + " " + rec.Description)
		for _, k := range keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(text, k) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
