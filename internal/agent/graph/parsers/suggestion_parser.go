package parsers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	errx "github.com/cantrip-core/server/internal/core/error"
	logx "github.com/cantrip-core/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen  = 64 * 1024
	maxSuggestions = 7
	maxLineLen     = 1024
)

var (
	numbered = regexp.MustCompile(`^(?:\d{1,2}[.)]|[-*•])\s+(.+)$`)
	emphasis = strings.NewReplacer("**", "", "__", "", "`", "")
)

// ErrNoSuggestions is returned when the content holds no list items.
var ErrNoSuggestions = errors.New("no suggestions found")

// ParseSuggestions extracts list items from model output. An item is a
// numbered or bulleted line; the first plain line after it is joined on as
// its description.
func ParseSuggestions(content string) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "suggestion_parser").Msgf("panic recovered: %v", r)
			out = nil
			err = errx.New(fmt.Errorf("suggestion parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
		}
	}()

	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "suggestion_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
	}

	var (
		title       string
		description string
	)
	flush := func() {
		if title == "" {
			return
		}
		item := title
		if description != "" {
			item += " - " + description
		}
		out = append(out, item)
		title, description = "", ""
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(emphasis.Replace(line))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > maxLineLen {
			line = line[:maxLineLen]
		}
		if m := numbered.FindStringSubmatch(line); m != nil {
			flush()
			if len(out) >= maxSuggestions {
				break
			}
			title = strings.TrimRight(strings.TrimSpace(m[1]), ":")
			continue
		}
		if title != "" && description == "" {
			description = line
		}
	}
	if len(out) < maxSuggestions {
		flush()
	}

	if len(out) == 0 {
		return nil, ErrNoSuggestions
	}
	return out, nil
}
