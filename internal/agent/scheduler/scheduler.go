package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cantrip-core/server/internal/agent/model"
	logx "github.com/cantrip-core/server/pkg/logger"
)

const (
	travelGapMinutes = 30
	breakMinutes     = 30
	legMinutes       = 30

	ModeWalking = "walking"
	ModeTransit = "public_transit"

	transitFare = 3.5
)

var (
	dayStart = model.ClockAt(9, 0)
	// dayEnd is the latest an activity may finish.
	dayEnd = model.ClockAt(23, 59)
)

var paceCaps = map[model.Pace]int{
	model.PaceRelaxed:  3,
	model.PaceModerate: 5,
	model.PaceIntense:  8,
}

type mealTemplate struct {
	kind      string
	at        model.Clock
	perPerson float64
}

var meals = []mealTemplate{
	{"breakfast", model.ClockAt(8, 0), 15},
	{"lunch", model.ClockAt(12, 30), 25},
	{"dinner", model.ClockAt(19, 0), 35},
}

// MaxActivities is the per-day activity cap for a pace. Unknown paces use moderate.
func MaxActivities(p model.Pace) int {
	if n, ok := paceCaps[model.Pace(strings.ToLower(string(p)))]; ok {
		return n
	}
	return paceCaps[model.PaceModerate]
}

// Scheduler builds day-by-day itineraries with a single greedy forward pass.
// It holds no per-run state and is safe for concurrent use.
type Scheduler struct {
	cfg   model.SchedulerConfig
	now   func() time.Time
	newID func() string
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock used for the fallback start date and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithIDSource sets the itinerary ID generator. The default is uuid.
func WithIDSource(newID func() string) Option {
	return func(s *Scheduler) { s.newID = newID }
}

// New returns a Scheduler with cfg defaults filled in.
func New(cfg model.SchedulerConfig, opts ...Option) *Scheduler {
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = 3
	}
	if cfg.DefaultGroupSize <= 0 {
		cfg.DefaultGroupSize = 1
	}
	s := &Scheduler{
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule produces one DayPlan per trip day. Every day may spend up to the
// whole trip budget on activities. An empty pool or a non-positive budget
// yields days with meals only.
func (s *Scheduler) Schedule(candidates []model.CandidateActivity, trip model.TripParams, weather model.WeatherResult) model.Itinerary {
	start, days := s.window(trip)
	groupSize := trip.GroupSize
	if groupSize <= 0 {
		groupSize = s.cfg.DefaultGroupSize
	}
	pace := trip.Pace
	if pace == "" {
		pace = model.PaceModerate
	}

	pool := make([]model.CandidateActivity, len(candidates))
	copy(pool, candidates)
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Rating > pool[j].Rating })

	it := model.Itinerary{
		ID:            s.newID(),
		City:          trip.City,
		StartDate:     start.Format(model.DateLayout),
		EndDate:       start.AddDate(0, 0, days-1).Format(model.DateLayout),
		Duration:      days,
		GroupSize:     groupSize,
		Pace:          pace,
		Accommodation: trip.Accommodation,
		Interests:     trip.Interests,
		Days:          make([]model.DayPlan, 0, days),
		CreatedAt:     s.now(),
	}

	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format(model.DateLayout)
		plan := planDay(d+1, date, pool, trip.Budget, groupSize, MaxActivities(pace), trip.City, weather.DayWeather(date))
		it.TotalCost += plan.TotalCost
		it.Days = append(it.Days, plan)
	}
	it.Summary = summary(trip.City, days, it.TotalCost, trip.Interests)

	logx.Debug().
		Str("itinerary_id", it.ID).
		Str("city", it.City).
		Int("days", days).
		Int("candidates", len(pool)).
		Float64("total_cost", it.TotalCost).
		Msg("itinerary scheduled")
	return it
}

// window resolves the first day and the day count. An unusable range falls
// back to the default duration starting today.
func (s *Scheduler) window(trip model.TripParams) (time.Time, int) {
	if start, _, ok := trip.Range(); ok {
		return start, trip.Span()
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start, err := time.Parse(model.DateLayout, strings.TrimSpace(trip.StartDate)); err == nil {
		today = start
	}
	return today, s.cfg.DefaultDays
}

func planDay(day int, date string, pool []model.CandidateActivity, budget float64, groupSize, maxActivities int, city string, weather *model.DayWeather) model.DayPlan {
	selected := selectActivities(pool, maxActivities, budget, weather)
	scheduled := slot(selected, day)
	mealSlots := planMeals(city, groupSize)
	legs := planTransport(scheduled)

	return model.DayPlan{
		Day:        day,
		Date:       date,
		Weather:    weather,
		Activities: scheduled,
		Meals:      mealSlots,
		Transport:  legs,
		TotalCost:  DayCost(scheduled, mealSlots, legs, groupSize),
		Notes:      dayNotes(weather, selected),
	}
}

// selectActivities accepts candidates in pool order while they fit the pace
// cap, the remaining budget, the weather and the time left before dayEnd.
func selectActivities(pool []model.CandidateActivity, maxActivities int, budget float64, weather *model.DayWeather) []model.CandidateActivity {
	if budget <= 0 {
		return nil
	}
	var selected []model.CandidateActivity
	remaining := budget
	next := dayStart
	for _, a := range pool {
		if len(selected) >= maxActivities {
			break
		}
		if a.Cost > remaining || !WeatherCompatible(a, weather) {
			continue
		}
		start := next
		if len(selected) > 0 {
			start = start.Add(travelGapMinutes + breakMinutes)
		}
		end := start.Add(a.DurationMinutes)
		if end > dayEnd {
			continue
		}
		selected = append(selected, a)
		remaining -= a.Cost
		next = end
	}
	return selected
}

// WeatherCompatible rejects outdoor activities in rain, snow, or temperatures
// outside 5..35°C. Unknown weather is compatible.
func WeatherCompatible(a model.CandidateActivity, w *model.DayWeather) bool {
	if w == nil || !a.Outdoor {
		return true
	}
	condition := strings.ToLower(w.Condition)
	if strings.Contains(condition, "rain") || strings.Contains(condition, "snow") {
		return false
	}
	return w.Temperature >= 5 && w.Temperature <= 35
}

func slot(selected []model.CandidateActivity, day int) []model.ScheduledActivity {
	out := make([]model.ScheduledActivity, 0, len(selected))
	at := dayStart
	for i, a := range selected {
		if i > 0 {
			at = at.Add(travelGapMinutes + breakMinutes)
		}
		end := at.Add(a.DurationMinutes)
		out = append(out, model.ScheduledActivity{CandidateActivity: a, Day: day, Start: at, End: end})
		at = end
	}
	return out
}

func planMeals(city string, groupSize int) []model.MealSlot {
	out := make([]model.MealSlot, 0, len(meals))
	for _, m := range meals {
		out = append(out, model.MealSlot{
			Type:     m.kind,
			Name:     strings.ToUpper(m.kind[:1]) + m.kind[1:] + " at Local Restaurant",
			Location: strings.TrimSpace("Downtown " + city),
			Time:     m.at,
			Cost:     m.perPerson * float64(groupSize),
			Cuisine:  "Local specialties",
		})
	}
	return out
}

func planTransport(scheduled []model.ScheduledActivity) []model.TransportLeg {
	if len(scheduled) < 2 {
		return []model.TransportLeg{}
	}
	out := make([]model.TransportLeg, 0, len(scheduled)-1)
	for i := 0; i < len(scheduled)-1; i++ {
		from, to := scheduled[i], scheduled[i+1]
		leg := model.TransportLeg{
			Mode:            ModeTransit,
			From:            from.Location,
			To:              to.Location,
			Start:           from.End,
			End:             to.Start,
			DurationMinutes: legMinutes,
			Cost:            transitFare,
		}
		if from.Location == to.Location {
			leg.Mode = ModeWalking
			leg.Cost = 0
		}
		out = append(out, leg)
	}
	return out
}

// DayCost sums activities and meals as priced, and transport per traveller.
func DayCost(activities []model.ScheduledActivity, mealSlots []model.MealSlot, legs []model.TransportLeg, groupSize int) float64 {
	var activityCost, mealCost, transportCost float64
	for _, a := range activities {
		activityCost += a.Cost
	}
	for _, m := range mealSlots {
		mealCost += m.Cost
	}
	for _, t := range legs {
		transportCost += t.Cost
	}
	return activityCost + mealCost + transportCost*float64(groupSize)
}

func dayNotes(w *model.DayWeather, selected []model.CandidateActivity) string {
	var notes []string
	if w != nil {
		notes = append(notes, fmt.Sprintf("Weather: %s, %s°C", w.Condition, strconv.FormatFloat(w.Temperature, 'f', -1, 64)))
	}
	outdoor := 0
	for _, a := range selected {
		if a.Outdoor {
			outdoor++
		}
	}
	if outdoor > 0 {
		notes = append(notes, fmt.Sprintf("%d outdoor activities planned", outdoor))
	}
	notes = append(notes, "Remember to bring comfortable walking shoes")
	return strings.Join(notes, "; ")
}

func summary(city string, days int, total float64, interests []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-day trip to %s", days, city)
	if len(interests) > 0 {
		b.WriteString(" focusing on " + strings.Join(interests, ", "))
	}
	fmt.Fprintf(&b, ". Total estimated cost: $%.2f", total)
	return b.String()
}
