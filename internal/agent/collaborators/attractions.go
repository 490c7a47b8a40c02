package collaborators

import (
	"context"
	"strings"

	"github.com/cantrip-core/server/internal/agent/model"
)

var attractionCategories = map[string][]string{
	"museum":        {"museum", "gallery", "exhibit"},
	"park":          {"park", "garden", "nature"},
	"historic":      {"historic", "landmark", "monument"},
	"entertainment": {"entertainment", "amusement", "fun"},
	"shopping":      {"shopping", "market", "mall"},
	"outdoor":       {"outdoor", "adventure", "sports"},
	"cultural":      {"cultural", "arts", "theater"},
}

// Attractions lists landmarks from city metadata plus generic local picks.
type Attractions struct {
	catalog *Catalog
}

func NewAttractions(catalog *Catalog) *Attractions {
	return &Attractions{catalog: catalog}
}

func (a *Attractions) Name() model.Collaborator { return model.CollabAttractions }

func (a *Attractions) Fetch(ctx context.Context, city string, filters model.Filters) model.Result {
	return guard(ctx, a.Name(), city, func() (model.Result, error) {
		if city == "" {
			return nil, errNoCity
		}
		out := a.landmarks(city)
		out = append(out, genericAttractions(city)...)
		if c := filters[model.FilterCategory]; c != "" && !strings.EqualFold(c, "all") {
			out = FilterAttractionsByCategory(out, c)
		}
		if out == nil {
			out = model.AttractionList{}
		}
		return capped(out), nil
	}, empty(a.Name()))
}

func (a *Attractions) landmarks(city string) model.AttractionList {
	info, ok := a.catalog.Lookup(city)
	if !ok {
		return nil
	}
	out := make(model.AttractionList, 0, len(info.Attractions))
	for _, name := range info.Attractions {
		out = append(out, model.Attraction{
			Name:        name,
			Type:        "attraction",
			Category:    "landmark",
			Description: "Famous attraction in " + info.Name,
			Location:    info.Name,
			Rating:      4.0,
			PriceRange:  "$$",
			Hours:       "9:00 AM - 6:00 PM",
			Website:     "https://example.com/" + slug(info.Name) + "-" + slug(name),
			Tags:        []string{"landmark", "tourist", "popular"},
		})
	}
	return out
}

func genericAttractions(city string) model.AttractionList {
	s := slug(city)
	return model.AttractionList{
		{
			Name: "Historic District " + city, Type: "attraction", Category: "historic",
			Description: "Beautiful historic district with preserved architecture",
			Location:    "Old Town " + city, Rating: 4.3, PriceRange: "$", Hours: "Always open",
			Website: "https://example.com/" + s + "-historic-district",
			Tags:    []string{"historic", "architecture", "walking"},
		},
		{
			Name: "Local Museum " + city, Type: "attraction", Category: "museum",
			Description: "Interesting local museum showcasing city history",
			Location:    "Downtown " + city, Rating: 4.1, PriceRange: "$$", Hours: "10:00 AM - 5:00 PM",
			Website: "https://example.com/" + s + "-museum",
			Tags:    []string{"museum", "culture", "history"},
		},
		{
			Name: "City Park " + city, Type: "attraction", Category: "park",
			Description: "Beautiful city park perfect for relaxation",
			Location:    "Central " + city, Rating: 4.5, PriceRange: "Free", Hours: "6:00 AM - 10:00 PM",
			Website: "https://example.com/" + s + "-park",
			Tags:    []string{"park", "nature", "free"},
		},
	}
}

func FilterAttractionsByCategory(in model.AttractionList, category string) model.AttractionList {
	targets := expand(attractionCategories, category)
	var out model.AttractionList
	for _, a := range in {
		if matchesAny(a.Category, a.Type, targets) {
			out = append(out, a)
		}
	}
	return out
}
