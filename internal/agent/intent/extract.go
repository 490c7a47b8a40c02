package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cantrip-core/server/internal/agent/model"
)

var (
	numberPattern = regexp.MustCompile(`\d+`)
	amountPattern = regexp.MustCompile(`\$?(\d+)`)
	isoDate       = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	monthDay      = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})`)
)

// ExtractDuration reads a trip length in days from free text, defaulting to 3.
func ExtractDuration(message string) int {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "weekend"), strings.Contains(lower, "2 days"):
		return 2
	case strings.Contains(lower, "week"), strings.Contains(lower, "7 days"):
		return 7
	case strings.Contains(lower, "month"), strings.Contains(lower, "30 days"):
		return 30
	case strings.Contains(lower, "day"):
		if n, err := strconv.Atoi(numberPattern.FindString(message)); err == nil && n > 0 {
			return n
		}
	}
	return 3
}

// ExtractBudget reads a trip budget from free text, defaulting to 1000.
func ExtractBudget(message string) float64 {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "budget"), strings.Contains(lower, "cheap"):
		return 500
	case strings.Contains(lower, "luxury"), strings.Contains(lower, "expensive"):
		return 3000
	case strings.Contains(lower, "mid"), strings.Contains(lower, "moderate"):
		return 1500
	}
	if m := amountPattern.FindStringSubmatch(message); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	return 1000
}

var interestKeywords = []struct {
	interest string
	keywords []string
}{
	{"music", []string{"music", "concert", "band", "singer"}},
	{"sports", []string{"sports", "game", "hockey", "basketball", "baseball"}},
	{"arts", []string{"art", "museum", "gallery", "theater", "theatre"}},
	{"food", []string{"food", "restaurant", "dining", "cuisine"}},
	{"outdoor", []string{"outdoor", "hiking", "park", "nature", "beach"}},
	{"culture", []string{"culture", "cultural", "history", "heritage"}},
	{"family", []string{"family", "kids", "children"}},
	{"nightlife", []string{"nightlife", "bar", "club", "drinks"}},
}

// ExtractInterests returns the interest tags mentioned in message.
func ExtractInterests(message string) []string {
	lower := strings.ToLower(message)
	var out []string
	for _, ik := range interestKeywords {
		if containsAny(lower, ik.keywords) {
			out = append(out, ik.interest)
		}
	}
	return out
}

var eventTypeKeywords = []struct {
	eventType string
	keywords  []string
}{
	{"music", []string{"concert", "music", "band", "singer"}},
	{"sports", []string{"sports", "game", "match", "hockey", "basketball", "baseball"}},
	{"festival", []string{"festival", "fair", "celebration"}},
	{"theater", []string{"theater", "theatre", "play", "musical", "drama"}},
	{"comedy", []string{"comedy", "standup", "joke"}},
}

// ExtractEventType returns an event category, or "" when none is named.
// Imperative openers such as "show me" are not read as event types.
func ExtractEventType(message string) string {
	lower := strings.ToLower(message)
	if containsAny(lower, []string{"show me", "show you", "show us", "tell me", "give me", "find me"}) {
		return ""
	}
	for _, et := range eventTypeKeywords {
		if containsAny(lower, et.keywords) {
			return et.eventType
		}
	}
	return ""
}

// ExtractDate resolves a relative or explicit date in message against now.
// It returns "" when nothing is found.
func ExtractDate(message string, now time.Time) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "this weekend"):
		return nextSaturday(now, 0).Format(model.DateLayout)
	case strings.Contains(lower, "next weekend"):
		return nextSaturday(now, 7).Format(model.DateLayout)
	case strings.Contains(lower, "tonight"), strings.Contains(lower, "this evening"):
		return now.Format(model.DateLayout)
	case strings.Contains(lower, "tomorrow"):
		return now.AddDate(0, 0, 1).Format(model.DateLayout)
	case strings.Contains(lower, "today"):
		return now.Format(model.DateLayout)
	}

	if m := isoDate.FindStringSubmatch(message); m != nil {
		if d, ok := date(atoi(m[1]), atoi(m[2]), atoi(m[3]), now.Location()); ok {
			return d.Format(model.DateLayout)
		}
	}
	if m := monthDay.FindStringSubmatch(message); m != nil {
		if d, ok := date(now.Year(), atoi(m[1]), atoi(m[2]), now.Location()); ok {
			return d.Format(model.DateLayout)
		}
	}
	return ""
}

// nextSaturday returns the coming Saturday plus extra days. On a Saturday it skips a week.
func nextSaturday(now time.Time, extra int) time.Time {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days+extra)
}

func date(y, m, d int, loc *time.Location) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// TripFromMessage derives planning parameters from a chat message.
// The trip starts on the first date the message names, else today.
func TripFromMessage(message, city string, now time.Time) model.TripParams {
	start := now
	if d := ExtractDate(message, now); d != "" {
		if parsed, err := time.Parse(model.DateLayout, d); err == nil {
			start = parsed
		}
	}
	days := ExtractDuration(message)
	return model.TripParams{
		City:      city,
		StartDate: start.Format(model.DateLayout),
		EndDate:   start.AddDate(0, 0, days-1).Format(model.DateLayout),
		Interests: ExtractInterests(message),
		Budget:    ExtractBudget(message),
		GroupSize: 1,
		Pace:      model.PaceModerate,
	}
}
