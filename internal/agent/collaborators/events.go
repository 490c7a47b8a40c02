package collaborators

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cantrip-core/server/internal/agent/model"
	logx "github.com/cantrip-core/server/pkg/logger"
)

var eventCategories = map[string][]string{
	"music":   {"music", "concert", "festival"},
	"sports":  {"sports", "game", "match"},
	"arts":    {"arts", "theater", "museum", "gallery"},
	"comedy":  {"comedy", "standup"},
	"family":  {"family", "kids", "children"},
	"food":    {"food", "culinary", "wine"},
	"culture": {"culture", "cultural", "heritage"},
}

// sampleEvent recurs every year on the same month and day.
type sampleEvent struct {
	model.Event
	start, end string // MM-DD
}

var sampleEvents = map[string][]sampleEvent{
	"toronto": {
		{Event: model.Event{Name: "Toronto International Film Festival", Type: "festival", Category: "arts", Description: "World-renowned film festival showcasing international cinema", Time: "Various times", Location: "Various venues across Toronto", PriceRange: "$$$", TicketsAvailable: true, BookingURL: "https://tiff.net", Rating: 4.8, Tags: []string{"film", "culture", "international"}}, start: "09-05", end: "09-15"},
		{Event: model.Event{Name: "Toronto Blue Jays vs New York Yankees", Type: "sports", Category: "baseball", Description: "MLB game at Rogers Centre", Time: "7:07 PM", Location: "Rogers Centre, Toronto", PriceRange: "$$", TicketsAvailable: true, BookingURL: "https://mlb.com/bluejays", Rating: 4.5, Tags: []string{"sports", "baseball", "mlb"}}, start: "07-15"},
		{Event: model.Event{Name: "CNE (Canadian National Exhibition)", Type: "fair", Category: "entertainment", Description: "Annual fair with rides, food, and entertainment", Time: "10:00 AM - 10:00 PM", Location: "Exhibition Place, Toronto", PriceRange: "$$", TicketsAvailable: true, BookingURL: "https://theex.com", Rating: 4.3, Tags: []string{"fair", "entertainment", "family"}}, start: "08-16", end: "09-02"},
	},
	"vancouver": {
		{Event: model.Event{Name: "Vancouver International Jazz Festival", Type: "festival", Category: "music", Description: "Annual jazz festival featuring local and international artists", Time: "Various times", Location: "Various venues across Vancouver", PriceRange: "$$", TicketsAvailable: true, BookingURL: "https://coastaljazz.ca", Rating: 4.6, Tags: []string{"music", "jazz", "festival"}}, start: "06-21", end: "07-01"},
		{Event: model.Event{Name: "Vancouver Canucks vs Edmonton Oilers", Type: "sports", Category: "hockey", Description: "NHL game at Rogers Arena", Time: "7:00 PM", Location: "Rogers Arena, Vancouver", PriceRange: "$$$", TicketsAvailable: true, BookingURL: "https://nhl.com/canucks", Rating: 4.7, Tags: []string{"sports", "hockey", "nhl"}}, start: "03-20"},
	},
	"montreal": {
		{Event: model.Event{Name: "Just for Laughs Festival", Type: "festival", Category: "comedy", Description: "World's largest comedy festival", Time: "Various times", Location: "Various venues across Montreal", PriceRange: "$$", TicketsAvailable: true, BookingURL: "https://hahaha.com", Rating: 4.7, Tags: []string{"comedy", "festival", "entertainment"}}, start: "07-10", end: "07-29"},
		{Event: model.Event{Name: "Montreal International Jazz Festival", Type: "festival", Category: "music", Description: "Largest jazz festival in the world", Time: "Various times", Location: "Various venues across Montreal", PriceRange: "$$", TicketsAvailable: true, BookingURL: "https://montrealjazzfest.com", Rating: 4.8, Tags: []string{"music", "jazz", "festival"}}, start: "06-27", end: "07-06"},
	},
}

// Events lists events for a city. A configured events backend takes priority;
// sample listings fill in when it is absent or returns nothing.
type Events struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewEvents(cfg model.CollaboratorConfig) *Events {
	return &Events{baseURL: cfg.EventsBaseURL, client: newHTTPClient(cfg.HTTPTimeout), now: time.Now}
}

func (e *Events) Name() model.Collaborator { return model.CollabEvents }

func (e *Events) Fetch(ctx context.Context, city string, filters model.Filters) model.Result {
	return guard(ctx, e.Name(), city, func() (model.Result, error) {
		return e.fetch(ctx, city, filters)
	}, empty(e.Name()))
}

func (e *Events) fetch(ctx context.Context, city string, filters model.Filters) (model.Result, error) {
	if city == "" {
		return nil, errNoCity
	}
	if e.baseURL != "" {
		remote, err := e.remote(ctx, city, filters)
		if err != nil {
			logx.Warn().Err(err).Str("city", city).Msg("events backend failed, using sample listings")
		} else if len(remote) > 0 {
			return capped(remote), nil
		}
	}

	year := e.now().Year()
	if d, err := time.Parse(model.DateLayout, filters[model.FilterDate]); err == nil {
		year = d.Year()
	} else if d, err := time.Parse(model.DateLayout, filters[model.FilterStartDate]); err == nil {
		year = d.Year()
	}

	var out model.EventList
	for _, s := range sampleEvents[strings.ToLower(strings.TrimSpace(city))] {
		ev := s.Event
		ev.Tags = append([]string(nil), s.Tags...)
		ev.Date = fmt.Sprintf("%d-%s", year, s.start)
		if s.end != "" {
			ev.EndDate = fmt.Sprintf("%d-%s", year, s.end)
		}
		out = append(out, ev)
	}
	out = FilterEventsByDate(out, filters)
	if c := filters[model.FilterCategory]; c != "" {
		out = FilterEventsByCategory(out, c)
	}
	if out == nil {
		out = model.EventList{}
	}
	return capped(out), nil
}

type remoteEvent struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	Date             string   `json:"date"`
	EndDate          string   `json:"end_date"`
	Time             string   `json:"time"`
	Location         string   `json:"location"`
	Price            float64  `json:"price"`
	TicketsAvailable bool     `json:"tickets_available"`
	BookingURL       string   `json:"booking_url"`
	Rating           float64  `json:"rating"`
	Tags             []string `json:"tags"`
}

func (e *Events) remote(ctx context.Context, city string, filters model.Filters) (model.EventList, error) {
	q := url.Values{"city": {city}}
	if d := filters[model.FilterDate]; d != "" {
		q.Set("date", d)
	}
	if c := filters[model.FilterCategory]; c != "" {
		q.Set("interests", c)
	}
	mood := filters[model.FilterMood]
	if mood == "" {
		mood = "excited"
	}
	q.Set("mood", mood)

	var rows []remoteEvent
	if err := getJSON(ctx, e.client, e.baseURL, "/api/v1/places/events", q, &rows); err != nil {
		return nil, err
	}
	out := make(model.EventList, 0, len(rows))
	for _, r := range rows {
		category := r.Category
		if category == "" {
			category = "general"
		}
		price := "Free"
		if r.Price > 0 {
			price = fmt.Sprintf("$%.0f", r.Price)
		}
		rating := r.Rating
		if rating == 0 {
			rating = 4.0
		}
		out = append(out, model.Event{
			Name: r.Name, Type: category, Category: category, Description: r.Description,
			Date: r.Date, EndDate: r.EndDate, Time: r.Time, Location: r.Location,
			PriceRange: price, TicketsAvailable: r.TicketsAvailable, BookingURL: r.BookingURL,
			Rating: rating, Tags: r.Tags,
		})
	}
	return out, nil
}

// FilterEventsByDate keeps events running on the date filter, or overlapping
// the start_date..end_date window. Unparseable filters keep everything.
func FilterEventsByDate(events model.EventList, filters model.Filters) model.EventList {
	from, to, ok := dateWindow(filters)
	if !ok {
		return events
	}
	var out model.EventList
	for _, ev := range events {
		start, err := time.Parse(model.DateLayout, ev.Date)
		if err != nil {
			continue
		}
		end := start
		if ev.EndDate != "" {
			if e, err := time.Parse(model.DateLayout, ev.EndDate); err == nil {
				end = e
			}
		}
		if !start.After(to) && !end.Before(from) {
			out = append(out, ev)
		}
	}
	return out
}

func dateWindow(filters model.Filters) (time.Time, time.Time, bool) {
	if d, err := time.Parse(model.DateLayout, filters[model.FilterDate]); err == nil {
		return d, d, true
	}
	from, err := time.Parse(model.DateLayout, filters[model.FilterStartDate])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(model.DateLayout, filters[model.FilterEndDate])
	if err != nil || to.Before(from) {
		to = from
	}
	return from, to, true
}

func FilterEventsByCategory(events model.EventList, category string) model.EventList {
	targets := expand(eventCategories, category)
	var out model.EventList
	for _, ev := range events {
		if matchesAny(ev.Category, ev.Type, targets) {
			out = append(out, ev)
		}
	}
	return out
}
