package collaborators

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/cantrip-core/server/internal/agent/model"
)

const (
	fallbackSource = "Fallback data"
	fallbackNote   = "Weather data temporarily unavailable"
)

var errNoAPIKey = errors.New("openweather api key not configured")

// Weather reads current conditions and a daily forecast from OpenWeather.
// Without an API key, or on any upstream failure, it returns fallback data.
type Weather struct {
	cfg    model.CollaboratorConfig
	client *http.Client
	now    func() time.Time
}

func NewWeather(cfg model.CollaboratorConfig) *Weather {
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 5
	}
	return &Weather{cfg: cfg, client: newHTTPClient(cfg.HTTPTimeout), now: time.Now}
}

func (w *Weather) Name() model.Collaborator { return model.CollabWeather }

func (w *Weather) Fetch(ctx context.Context, city string, _ model.Filters) model.Result {
	if city == "" {
		return model.WeatherResult{}
	}
	return guard(ctx, w.Name(), city, func() (model.Result, error) {
		return w.fetch(ctx, city)
	}, func() model.Result {
		return w.Fallback(city)
	})
}

func (w *Weather) fetch(ctx context.Context, city string) (model.Result, error) {
	if w.cfg.OpenWeatherAPIKey == "" {
		return nil, errNoAPIKey
	}
	q := url.Values{
		"q":     {city + ",CA"},
		"appid": {w.cfg.OpenWeatherAPIKey},
		"units": {"metric"},
	}

	var cur owCurrent
	if err := getJSON(ctx, w.client, w.cfg.OpenWeatherBaseURL, "/data/2.5/weather", q, &cur); err != nil {
		return nil, err
	}
	var fc owForecast
	if err := getJSON(ctx, w.client, w.cfg.OpenWeatherBaseURL, "/data/2.5/forecast", q, &fc); err != nil {
		return nil, err
	}

	report := &model.WeatherReport{
		City:        city,
		Temperature: cur.Main.Temp,
		Condition:   firstCondition(cur.Weather),
		Humidity:    cur.Main.Humidity,
		WindSpeed:   msToKmh(cur.Wind.Speed),
		Source:      "OpenWeather API",
		ObservedAt:  w.now(),
	}
	return model.WeatherResult{Current: report, Forecast: dailyForecast(fc.List, w.cfg.ForecastDays)}, nil
}

// Fallback is the documented record used when live data is unavailable.
func (w *Weather) Fallback(city string) model.WeatherResult {
	now := w.now()
	forecast := make([]model.DayForecast, 0, w.cfg.ForecastDays)
	for i := 0; i < w.cfg.ForecastDays; i++ {
		forecast = append(forecast, model.DayForecast{
			Date:      now.AddDate(0, 0, i).Format(model.DateLayout),
			HighTemp:  22 + float64(i*2),
			LowTemp:   15 + float64(i),
			Condition: "Partly Cloudy",
			Humidity:  60,
			WindSpeed: 10,
		})
	}
	return model.WeatherResult{
		Current: &model.WeatherReport{
			City:        city,
			Temperature: 20,
			Condition:   "Partly Cloudy",
			Humidity:    60,
			WindSpeed:   10,
			Source:      fallbackSource,
			Note:        fallbackNote,
			ObservedAt:  now,
		},
		Forecast: forecast,
		Fallback: true,
	}
}

type owCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owCurrent struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []owCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owForecast struct {
	List []owSlot `json:"list"`
}

type owSlot struct {
	Dt   int64 `json:"dt"`
	Main struct {
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []owCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Snow struct {
		ThreeHour float64 `json:"3h"`
	} `json:"snow"`
}

func firstCondition(c []owCondition) string {
	if len(c) == 0 {
		return "Unknown"
	}
	return c[0].Main
}

func msToKmh(v float64) float64 {
	kmh, _ := strconv.ParseFloat(strconv.FormatFloat(v*3.6, 'f', 1, 64), 64)
	return kmh
}

// dailyForecast folds 3-hour slots into per-day highs, lows and the most
// frequent condition.
func dailyForecast(slots []owSlot, days int) []model.DayForecast {
	type agg struct {
		day        model.DayForecast
		conditions map[string]int
		humidity   int
		wind       float64
		n          int
	}
	byDate := map[string]*agg{}
	var order []string
	for _, s := range slots {
		date := time.Unix(s.Dt, 0).UTC().Format(model.DateLayout)
		a, ok := byDate[date]
		if !ok {
			a = &agg{day: model.DayForecast{Date: date, HighTemp: s.Main.TempMax, LowTemp: s.Main.TempMin}, conditions: map[string]int{}}
			byDate[date] = a
			order = append(order, date)
		}
		if s.Main.TempMax > a.day.HighTemp {
			a.day.HighTemp = s.Main.TempMax
		}
		if s.Main.TempMin < a.day.LowTemp {
			a.day.LowTemp = s.Main.TempMin
		}
		a.conditions[firstCondition(s.Weather)]++
		a.humidity += s.Main.Humidity
		a.wind += s.Wind.Speed
		a.day.Precipitation += s.Rain.ThreeHour + s.Snow.ThreeHour
		a.n++
	}
	sort.Strings(order)

	out := make([]model.DayForecast, 0, len(order))
	for _, date := range order {
		if len(out) == days {
			break
		}
		a := byDate[date]
		a.day.Condition = mostFrequent(a.conditions)
		a.day.Humidity = a.humidity / a.n
		a.day.WindSpeed = msToKmh(a.wind / float64(a.n))
		out = append(out, a.day)
	}
	return out
}

func mostFrequent(counts map[string]int) string {
	best, bestN := "Unknown", 0
	for c, n := range counts {
		if n > bestN || (n == bestN && c < best) {
			best, bestN = c, n
		}
	}
	return best
}
