package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/cantrip-core/server/internal/agent/collaborators"
	"github.com/cantrip-core/server/internal/agent/model"
	errx "github.com/cantrip-core/server/internal/core/error"
)

const toolPrefix = "get_"

// ErrUnknownTool is returned when a name matches no registered collaborator.
var ErrUnknownTool = errors.New("unknown tool")

// ToolName is the public tool name of a collaborator, e.g. get_weather.
func ToolName(c model.Collaborator) string {
	return toolPrefix + string(c)
}

// Input is the argument object every collaborator tool accepts.
type Input struct {
	City      string   `json:"city"`
	Date      string   `json:"date,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Category  string   `json:"category,omitempty"`
	Mood      string   `json:"mood,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// Filters converts the optional arguments into adapter filters.
func (in Input) Filters() model.Filters {
	f := model.Filters{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			f[k] = v
		}
	}
	set(model.FilterDate, in.Date)
	set(model.FilterStartDate, in.StartDate)
	set(model.FilterEndDate, in.EndDate)
	set(model.FilterCategory, in.Category)
	set(model.FilterMood, in.Mood)
	set(model.FilterInterests, strings.Join(in.Interests, ","))
	return f
}

// Output wraps the records one collaborator returned.
type Output struct {
	Collaborator model.Collaborator `json:"collaborator"`
	City         string             `json:"city"`
	Count        int                `json:"count"`
	Records      model.Result       `json:"records"`
}

var descriptions = map[model.Collaborator]string{
	model.CollabWeather:         "Get current weather and a multi-day forecast for a Canadian city. Falls back to typical conditions when live data is unavailable.",
	model.CollabEvents:          "List upcoming events in a city. Optionally filter by a single date, a start/end window, or a category such as music, sports or festival.",
	model.CollabAttractions:     "List attractions and landmarks in a city. Optionally filter by category such as museum, park, historic or cultural.",
	model.CollabRecommendations: "Recommend attractions, restaurants, activities and hotels in a city, with optional mood and interests.",
	model.CollabPlanning:        "List candidate activities for trip planning in a city.",
}

func params(c model.Collaborator) map[string]*schema.ParameterInfo {
	p := map[string]*schema.ParameterInfo{
		"city": {Type: schema.String, Desc: "City name, e.g. Toronto or Quebec City.", Required: true},
	}
	switch c {
	case model.CollabEvents:
		p["date"] = &schema.ParameterInfo{Type: schema.String, Desc: "Single day, YYYY-MM-DD."}
		p["start_date"] = &schema.ParameterInfo{Type: schema.String, Desc: "Window start, YYYY-MM-DD."}
		p["end_date"] = &schema.ParameterInfo{Type: schema.String, Desc: "Window end, YYYY-MM-DD."}
		p["category"] = &schema.ParameterInfo{Type: schema.String, Desc: "Event category."}
	case model.CollabAttractions:
		p["category"] = &schema.ParameterInfo{Type: schema.String, Desc: "Attraction category."}
	case model.CollabRecommendations:
		p["category"] = &schema.ParameterInfo{
			Type: schema.String,
			Desc: "One of all, attractions, restaurants, activities, hotels.",
			Enum: []string{"all", "attractions", "restaurants", "activities", "hotels"},
		}
		p["mood"] = &schema.ParameterInfo{Type: schema.String, Desc: "Travel mood, e.g. relaxed, adventurous, cultural."}
		p["interests"] = &schema.ParameterInfo{
			Type:     schema.Array,
			Desc:     "Interests used together with mood.",
			ElemInfo: &schema.ParameterInfo{Type: schema.String},
		}
	}
	return p
}

func newTool(a collaborators.Adapter) tool.InvokableTool {
	name := a.Name()
	return utils.NewTool(
		&schema.ToolInfo{
			Name:        ToolName(name),
			Desc:        descriptions[name],
			ParamsOneOf: schema.NewParamsOneOfByParams(params(name)),
		},
		func(ctx context.Context, in *Input) (*Output, error) {
			city := strings.TrimSpace(in.City)
			if city == "" {
				return nil, errx.BadRequest(fmt.Errorf("city is required"))
			}
			res := a.Fetch(ctx, city, in.Filters())
			if res == nil {
				res = model.EmptyResult(name)
			}
			return &Output{Collaborator: name, City: city, Count: res.Len(), Records: res}, nil
		},
	)
}

// Toolbox exposes every registered collaborator as an eino tool.
type Toolbox struct {
	tools map[string]tool.InvokableTool
	names []string
}

func New(reg *collaborators.Registry) *Toolbox {
	b := &Toolbox{tools: map[string]tool.InvokableTool{}}
	for _, c := range reg.Names() {
		a, _ := reg.Get(c)
		b.tools[ToolName(c)] = newTool(a)
		b.names = append(b.names, ToolName(c))
	}
	return b
}

// Get accepts either the tool name or the bare collaborator name.
func (b *Toolbox) Get(name string) (tool.InvokableTool, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if t, ok := b.tools[name]; ok {
		return t, true
	}
	t, ok := b.tools[toolPrefix+name]
	return t, ok
}

// Names lists the tool names in collaborator order.
func (b *Toolbox) Names() []string {
	return append([]string(nil), b.names...)
}

// Infos returns the tool schemas, suitable for binding to a chat model.
func (b *Toolbox) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(b.names))
	for _, n := range b.names {
		info, err := b.tools[n].Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool %s info: %w", n, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Run invokes a tool with a JSON argument object and returns its JSON result.
// Handlers receive the tool's start, end and error callbacks.
func (b *Toolbox) Run(ctx context.Context, name string, in Input, handlers ...einocb.Handler) (string, error) {
	t, ok := b.Get(name)
	if !ok {
		return "", errx.New(fmt.Errorf("%w: %s", ErrUnknownTool, name), http.StatusNotFound, "tool not found")
	}
	args, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal tool arguments: %w", err)
	}

	info, err := t.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("tool info: %w", err)
	}
	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      info.Name,
		Type:      "CollaboratorTool",
		Component: components.ComponentOfTool,
	}, handlers...)
	ctx = einocb.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: string(args)})

	out, err := t.InvokableRun(ctx, string(args))
	if err != nil {
		einocb.OnError(ctx, err)
		return "", err
	}
	einocb.OnEnd(ctx, &tool.CallbackOutput{Response: out})
	return out, nil
}
