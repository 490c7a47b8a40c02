package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/cantrip-core/server/internal/agent/model"
)

//go:embed template/chat_prompt.txt
var chatSystemPrompt string

// maxDataChars bounds each embedded data section.
const maxDataChars = 6000

// ChatInput carries everything the chat system prompt can mention.
type ChatInput struct {
	Intent  model.Intent
	City    string
	Results model.Results
}

// RenderChatSystem renders the per-intent system prompt with the gathered
// collaborator data and triggers prompt callbacks.
func RenderChatSystem(ctx context.Context, in ChatInput) (string, error) {
	names := make([]string, 0, len(in.Results))
	for _, n := range in.Results.Names() {
		names = append(names, string(n))
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(chatSystemPrompt),
	)
	vars := map[string]any{
		"Intent":          string(in.Intent),
		"City":            in.City,
		"Tools":           strings.Join(names, ", "),
		"Weather":         dataJSON(in.Results.Weather()),
		"Events":          dataJSON(in.Results.Events()),
		"Attractions":     dataJSON(in.Results.Attractions()),
		"Recommendations": dataJSON(in.Results.Recommendations()),
		"Activities":      dataJSON(in.Results.Activities()),
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("chat prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("chat prompt render: empty result")
	}
	return msgs[0].Content, nil
}

func dataJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	s := string(b)
	if s == "null" {
		return "[]"
	}
	if len(s) > maxDataChars {
		s = s[:maxDataChars] + "\n... (truncated)"
	}
	return s
}
