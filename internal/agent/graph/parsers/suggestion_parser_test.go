package parsers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestionsNumberedList(t *testing.T) {
	content := `Here are some ideas for Toronto:

1. **CN Tower EdgeWalk**
   Walk the ledge 356m above the city.
   Cost: $195
2. Kensington Market food crawl
3) Toronto Islands by ferry:
   Bike the boardwalk at sunset.`

	got, err := ParseSuggestions(content)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CN Tower EdgeWalk - Walk the ledge 356m above the city.",
		"Kensington Market food crawl",
		"Toronto Islands by ferry - Bike the boardwalk at sunset.",
	}, got)
}

func TestParseSuggestionsBullets(t *testing.T) {
	got, err := ParseSuggestions("- Old Montreal walk\n* Jean-Talon Market")
	require.NoError(t, err)
	assert.Equal(t, []string{"Old Montreal walk", "Jean-Talon Market"}, got)
}

func TestParseSuggestionsCapsItems(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		b.WriteString(strings.Repeat(" ", i%2))
		b.WriteString(string(rune('0'+i%10)) + ". idea\n")
	}
	got, err := ParseSuggestions(b.String())
	require.NoError(t, err)
	assert.Len(t, got, maxSuggestions)
}

func TestParseSuggestionsEmpty(t *testing.T) {
	_, err := ParseSuggestions("Sorry, I can't help with that.")
	assert.True(t, errors.Is(err, ErrNoSuggestions))

	_, err = ParseSuggestions("")
	assert.True(t, errors.Is(err, ErrNoSuggestions))
}
