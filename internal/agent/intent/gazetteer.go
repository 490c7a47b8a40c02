package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// canadianCities is searched in order; the first hit is the detected city.
var canadianCities = []string{
	"toronto", "vancouver", "montreal", "calgary", "ottawa", "edmonton",
	"winnipeg", "quebec city", "hamilton", "kitchener", "london", "victoria",
	"halifax", "oshawa", "windsor", "saskatoon", "regina", "sherbrooke",
	"barrie", "kelowna", "abbotsford", "kingston", "trois-rivières",
	"guelph", "cambridge", "whitby", "ajax", "milton", "st. catharines",
	"brantford", "thunder bay", "saint john", "peterborough", "red deer",
	"lethbridge", "kamloops", "nanaimo", "prince george", "chilliwack",
	"vernon", "fort mcmurray", "sarnia", "belleville", "charlottetown",
	"fredericton", "moncton", "yellowknife", "whitehorse",
	"iqaluit", "banff", "whistler", "niagara falls", "jasper",
}

// KnownCity reports whether name is in the gazetteer, ignoring case.
func KnownCity(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range canadianCities {
		if c == name {
			return true
		}
	}
	return false
}

// findCities returns every gazetteer city named in lower, in gazetteer order.
// A name only counts when it is not glued to surrounding letters or digits,
// so "ajax" does not fire inside "ajaxian".
func findCities(lower string) []string {
	var found []string
	for _, city := range canadianCities {
		if containsToken(lower, city) {
			found = append(found, TitleCase(city))
		}
	}
	return found
}

func containsToken(s, token string) bool {
	for offset := 0; offset < len(s); {
		i := strings.Index(s[offset:], token)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(token)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// TitleCase upper-cases every letter that follows a non-letter.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}
