package collaborators

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

//go:embed data/city_metadata.json
var cityMetadataJSON []byte

type seasonInfo struct {
	Activities []string `json:"activities"`
}

// CityInfo is the static metadata known for a city.
type CityInfo struct {
	Name        string                `json:"name"`
	Province    string                `json:"province"`
	Attractions []string              `json:"attractions"`
	Seasons     map[string]seasonInfo `json:"seasons"`
}

// Catalog indexes city metadata by lowercase name. It is read-only after load.
type Catalog struct {
	cities map[string]CityInfo
}

// LoadCatalog parses metadata in the city_metadata.json layout.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Cities []CityInfo `json:"cities"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse city metadata: %w", err)
	}
	c := &Catalog{cities: make(map[string]CityInfo, len(doc.Cities))}
	for _, ci := range doc.Cities {
		c.cities[strings.ToLower(ci.Name)] = ci
	}
	return c, nil
}

// DefaultCatalog returns the embedded city metadata.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(cityMetadataJSON)
}

func (c *Catalog) Lookup(city string) (CityInfo, bool) {
	if c == nil {
		return CityInfo{}, false
	}
	ci, ok := c.cities[strings.ToLower(strings.TrimSpace(city))]
	return ci, ok
}

// Season names the northern-hemisphere season of t.
func Season(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// matchesAny reports whether any target appears in category or kind.
func matchesAny(category, kind string, targets []string) bool {
	category, kind = strings.ToLower(category), strings.ToLower(kind)
	for _, t := range targets {
		if strings.Contains(category, t) || strings.Contains(kind, t) {
			return true
		}
	}
	return false
}

func expand(mapping map[string][]string, category string) []string {
	category = strings.ToLower(strings.TrimSpace(category))
	if targets, ok := mapping[category]; ok {
		return targets
	}
	return []string{category}
}
