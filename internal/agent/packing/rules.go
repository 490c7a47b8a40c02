package packing

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/packing_rules.json
var defaultRules []byte

// ItemGroup lists clothing, accessories and footwear for one weather band or activity.
type ItemGroup struct {
	Clothing    []string `json:"clothing"`
	Accessories []string `json:"accessories"`
	Footwear    []string `json:"footwear"`
}

type Multiplier struct {
	Multiplier float64 `json:"multiplier"`
	Notes      string  `json:"notes"`
}

type Extras struct {
	AdditionalItems []string `json:"additional_items"`
}

type Baggage struct {
	Essentials []string `json:"essentials"`
}

// Rules is the full packing rule table.
type Rules struct {
	Weather      map[string]ItemGroup  `json:"weather_rules"`
	Activities   map[string]ItemGroup  `json:"activity_rules"`
	Duration     map[string]Multiplier `json:"duration_rules"`
	Group        map[string]Multiplier `json:"group_rules"`
	Age          map[string]Extras     `json:"age_rules"`
	SpecialNeeds map[string]Extras     `json:"special_needs"`
	Baggage      map[string]Baggage    `json:"baggage_rules"`
}

// ParseRules decodes a rule table in the packing_rules.json layout.
func ParseRules(data []byte) (Rules, error) {
	var r Rules
	if err := json.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("parse packing rules: %w", err)
	}
	if len(r.Weather) == 0 {
		return Rules{}, fmt.Errorf("parse packing rules: no weather rules")
	}
	return r, nil
}

// DefaultRules returns the embedded rule table.
func DefaultRules() (Rules, error) {
	return ParseRules(defaultRules)
}
