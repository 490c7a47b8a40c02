package scheduler

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantrip-core/server/internal/agent/model"
)

var fixedNow = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

func newTestScheduler() *Scheduler {
	return New(model.SchedulerConfig{DefaultDays: 3, DefaultGroupSize: 1},
		WithClock(func() time.Time { return fixedNow }),
		WithIDSource(func() string { return "itinerary-1" }),
	)
}

func samplePool() []model.CandidateActivity {
	return []model.CandidateActivity{
		{Name: "City Museum", Type: "museum", Category: "cultural", DurationMinutes: 120, Cost: 25, Location: "Downtown", Rating: 4.5},
		{Name: "Central Park", Type: "park", Category: "outdoor", DurationMinutes: 90, Cost: 0, Location: "City Center", Rating: 4.3, Outdoor: true},
		{Name: "Local Restaurant", Type: "restaurant", Category: "food", DurationMinutes: 60, Cost: 45, Location: "Downtown", Rating: 4.2},
		{Name: "Shopping District", Type: "shopping", Category: "shopping", DurationMinutes: 90, Cost: 0, Location: "Downtown", Rating: 4.0},
		{Name: "Harbour Walk", Type: "tour", Category: "outdoor", DurationMinutes: 60, Cost: 10, Location: "Waterfront", Rating: 4.6, Outdoor: true},
		{Name: "Gallery", Type: "museum", Category: "arts", DurationMinutes: 60, Cost: 20, Location: "Downtown", Rating: 4.1},
		{Name: "Market", Type: "shopping", Category: "food", DurationMinutes: 60, Cost: 5, Location: "Old Town", Rating: 3.9},
		{Name: "Lookout", Type: "attraction", Category: "sightseeing", DurationMinutes: 30, Cost: 12, Location: "Hill", Rating: 3.8},
		{Name: "Tea Room", Type: "restaurant", Category: "food", DurationMinutes: 45, Cost: 8, Location: "Old Town", Rating: 3.7},
	}
}

func shortPool(n, minutes int) []model.CandidateActivity {
	pool := make([]model.CandidateActivity, n)
	for i := range pool {
		pool[i] = model.CandidateActivity{Name: fmt.Sprintf("Stop %d", i+1), DurationMinutes: minutes, Cost: 10, Location: "Downtown", Rating: 4}
	}
	return pool
}

func trip(start, end string, budget float64, pace model.Pace) model.TripParams {
	return model.TripParams{City: "Toronto", StartDate: start, EndDate: end, Budget: budget, GroupSize: 2, Pace: pace}
}

func TestScheduleDayCountMatchesSpan(t *testing.T) {
	s := newTestScheduler()

	for _, pool := range [][]model.CandidateActivity{nil, samplePool()} {
		it := s.Schedule(pool, trip("2025-07-10", "2025-07-14", 2000, model.PaceModerate), model.WeatherResult{})
		require.Len(t, it.Days, 5)
		assert.Equal(t, 5, it.Duration)
		assert.Equal(t, "2025-07-14", it.EndDate)
		for i, d := range it.Days {
			assert.Equal(t, i+1, d.Day)
			assert.Len(t, d.Meals, 3)
			if pool == nil {
				assert.Empty(t, d.Activities)
				assert.Empty(t, d.Transport)
			}
		}
	}
}

func TestScheduleInvalidRangeFallsBack(t *testing.T) {
	s := newTestScheduler()

	it := s.Schedule(samplePool(), trip("2025-07-14", "2025-07-10", 500, ""), model.WeatherResult{})
	assert.Len(t, it.Days, 3)
	assert.Equal(t, "2025-07-14", it.StartDate)
	assert.Equal(t, model.PaceModerate, it.Pace)

	it = s.Schedule(nil, model.TripParams{City: "Ottawa"}, model.WeatherResult{})
	assert.Len(t, it.Days, 3)
	assert.Equal(t, "2025-07-01", it.StartDate)
	assert.Equal(t, "2025-07-03", it.EndDate)
	assert.Equal(t, 1, it.GroupSize)
	assert.Equal(t, "itinerary-1", it.ID)
	assert.Equal(t, fixedNow, it.CreatedAt)
}

func TestScheduleCostRoundTrip(t *testing.T) {
	s := newTestScheduler()
	it := s.Schedule(samplePool(), trip("2025-07-10", "2025-07-12", 900, model.PaceIntense), model.WeatherResult{})

	var total float64
	for _, d := range it.Days {
		var sum float64
		for _, a := range d.Activities {
			sum += a.Cost
		}
		for _, m := range d.Meals {
			sum += m.Cost
		}
		var legs float64
		for _, l := range d.Transport {
			legs += l.Cost
		}
		sum += legs * float64(it.GroupSize)
		assert.InDelta(t, sum, d.TotalCost, 1e-9, "day %d", d.Day)
		total += d.TotalCost
	}
	assert.InDelta(t, total, it.TotalCost, 1e-9)
	assert.Contains(t, it.Summary, "3-day trip to Toronto")
}

func TestSchedulePaceCaps(t *testing.T) {
	s := newTestScheduler()
	for pace, want := range map[model.Pace]int{
		model.PaceRelaxed:  3,
		model.PaceModerate: 5,
		model.PaceIntense:  8,
		model.Pace("wild"): 5,
	} {
		it := s.Schedule(shortPool(10, 30), trip("2025-07-10", "2025-07-10", 10000, pace), model.WeatherResult{})
		require.Len(t, it.Days, 1)
		assert.Len(t, it.Days[0].Activities, want, "pace %s", pace)
	}
}

func TestScheduleRanksByRatingStable(t *testing.T) {
	s := newTestScheduler()
	pool := []model.CandidateActivity{
		{Name: "B", DurationMinutes: 30, Rating: 4.0, Location: "X"},
		{Name: "A", DurationMinutes: 30, Rating: 4.8, Location: "X"},
		{Name: "C", DurationMinutes: 30, Rating: 4.0, Location: "Y"},
	}
	it := s.Schedule(pool, trip("2025-07-10", "2025-07-10", 100, model.PaceRelaxed), model.WeatherResult{})

	acts := it.Days[0].Activities
	require.Len(t, acts, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{acts[0].Name, acts[1].Name, acts[2].Name})
	assert.Equal(t, "A", pool[1].Name, "input pool must not be reordered")

	legs := it.Days[0].Transport
	require.Len(t, legs, 2)
	assert.Equal(t, ModeWalking, legs[0].Mode)
	assert.Zero(t, legs[0].Cost)
	assert.Equal(t, ModeTransit, legs[1].Mode)
	assert.Equal(t, 3.5, legs[1].Cost)
}

func TestScheduleNoOverlaps(t *testing.T) {
	s := newTestScheduler()
	it := s.Schedule(samplePool(), trip("2025-07-10", "2025-07-11", 10000, model.PaceIntense), model.WeatherResult{})

	for _, d := range it.Days {
		require.NotEmpty(t, d.Activities)
		assert.Equal(t, model.ClockAt(9, 0), d.Activities[0].Start)
		for i := 1; i < len(d.Activities); i++ {
			prev, cur := d.Activities[i-1], d.Activities[i]
			assert.Equal(t, prev.End.Add(60), cur.Start)
			assert.Less(t, int(prev.End), int(cur.Start))
		}
	}
}

func TestScheduleSkipsOutdoorInRainAndSnow(t *testing.T) {
	s := newTestScheduler()
	weather := model.WeatherResult{Forecast: []model.DayForecast{
		{Date: "2025-07-10", Condition: "Light Rain", HighTemp: 18},
		{Date: "2025-07-11", Condition: "Snow", HighTemp: 1},
		{Date: "2025-07-12", Condition: "Clear", HighTemp: 22},
	}}
	it := s.Schedule(samplePool(), trip("2025-07-10", "2025-07-12", 10000, model.PaceIntense), weather)
	require.Len(t, it.Days, 3)

	for _, d := range it.Days[:2] {
		for _, a := range d.Activities {
			assert.False(t, a.Outdoor, "day %d scheduled %s", d.Day, a.Name)
		}
	}
	var outdoor int
	for _, a := range it.Days[2].Activities {
		if a.Outdoor {
			outdoor++
		}
	}
	assert.Equal(t, 2, outdoor)
	assert.Contains(t, it.Days[2].Notes, "2 outdoor activities planned")
	assert.Contains(t, it.Days[0].Notes, "Weather: Light Rain, 18°C")
}

func TestScheduleZeroBudget(t *testing.T) {
	s := newTestScheduler()
	tp := trip("2025-07-10", "2025-07-12", 0, model.PaceModerate)
	tp.GroupSize = 1
	it := s.Schedule(samplePool(), tp, model.WeatherResult{})

	require.Len(t, it.Days, 3)
	for _, d := range it.Days {
		assert.Empty(t, d.Activities)
		assert.Len(t, d.Meals, 3)
		assert.Equal(t, 75.0, d.TotalCost)
	}
	assert.Equal(t, 225.0, it.TotalCost)
}

func TestScheduleBudgetAppliesPerDay(t *testing.T) {
	s := newTestScheduler()
	pool := []model.CandidateActivity{{Name: "Boat Tour", Cost: 400, DurationMinutes: 120, Rating: 4.7}}

	it := s.Schedule(pool, trip("2025-07-10", "2025-07-12", 1000, model.PaceModerate), model.WeatherResult{})
	require.Len(t, it.Days, 3)
	for _, d := range it.Days {
		require.Len(t, d.Activities, 1, "day %d", d.Day)
		assert.Equal(t, "Boat Tour", d.Activities[0].Name)
	}
}

func TestScheduleBudgetResetsEachDay(t *testing.T) {
	s := newTestScheduler()
	pool := []model.CandidateActivity{
		{Name: "Pricey", Cost: 60, DurationMinutes: 60, Rating: 5},
		{Name: "Cheap", Cost: 20, DurationMinutes: 60, Rating: 4},
		{Name: "Extra", Cost: 30, DurationMinutes: 60, Rating: 3},
	}
	it := s.Schedule(pool, trip("2025-07-10", "2025-07-11", 100, model.PaceModerate), model.WeatherResult{})
	require.Len(t, it.Days, 2)
	for _, d := range it.Days {
		require.Len(t, d.Activities, 2, "day %d", d.Day)
		assert.Equal(t, "Pricey", d.Activities[0].Name)
		assert.Equal(t, "Cheap", d.Activities[1].Name)
	}
}

func TestScheduleLongTripIsNotTruncated(t *testing.T) {
	s := newTestScheduler()
	it := s.Schedule(samplePool(), trip("2025-07-01", "2025-08-14", 5000, model.PaceModerate), model.WeatherResult{})

	require.Len(t, it.Days, 45)
	assert.Equal(t, 45, it.Duration)
	assert.Equal(t, "2025-07-01", it.StartDate)
	assert.Equal(t, "2025-08-14", it.EndDate)
	assert.Equal(t, "2025-08-14", it.Days[44].Date)
	assert.Contains(t, it.Summary, "45-day trip to Toronto")
}

func TestScheduleActivitiesEndBeforeMidnight(t *testing.T) {
	s := newTestScheduler()
	it := s.Schedule(shortPool(8, 180), trip("2025-07-10", "2025-07-10", 10000, model.PaceIntense), model.WeatherResult{})

	acts := it.Days[0].Activities
	require.NotEmpty(t, acts)
	assert.Less(t, len(acts), 8)
	for _, a := range acts {
		assert.LessOrEqual(t, int(a.End), int(model.ClockAt(23, 59)), "%s ends at %s", a.Name, a.End)
	}

	raw, err := json.Marshal(it)
	require.NoError(t, err)
	var decoded model.Itinerary
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Days, 1)
	require.Len(t, decoded.Days[0].Activities, len(acts))
	for i, a := range decoded.Days[0].Activities {
		assert.Equal(t, acts[i].Start, a.Start)
		assert.Equal(t, acts[i].End, a.End)
	}
}

func TestScheduleSkipsLateCandidateForShorterOne(t *testing.T) {
	s := newTestScheduler()
	pool := []model.CandidateActivity{
		{Name: "Day Hike", DurationMinutes: 720, Rating: 5},
		{Name: "Food Tour", DurationMinutes: 240, Rating: 4.5},
		{Name: "Night Show", DurationMinutes: 60, Rating: 4},
	}
	it := s.Schedule(pool, trip("2025-07-10", "2025-07-10", 100, model.PaceModerate), model.WeatherResult{})

	acts := it.Days[0].Activities
	require.Len(t, acts, 2)
	assert.Equal(t, "Day Hike", acts[0].Name)
	assert.Equal(t, "Night Show", acts[1].Name)
	assert.Equal(t, model.ClockAt(22, 0), acts[1].Start)
	assert.Equal(t, model.ClockAt(23, 0), acts[1].End)
}

func TestWeatherCompatible(t *testing.T) {
	park := model.CandidateActivity{Outdoor: true}
	museum := model.CandidateActivity{}

	assert.True(t, WeatherCompatible(park, nil))
	assert.True(t, WeatherCompatible(museum, &model.DayWeather{Condition: "Heavy Snow", Temperature: -10}))
	assert.False(t, WeatherCompatible(park, &model.DayWeather{Condition: "Rain", Temperature: 20}))
	assert.False(t, WeatherCompatible(park, &model.DayWeather{Condition: "Clear", Temperature: 4}))
	assert.False(t, WeatherCompatible(park, &model.DayWeather{Condition: "Clear", Temperature: 36}))
	assert.True(t, WeatherCompatible(park, &model.DayWeather{Condition: "Clear", Temperature: 35}))
}
