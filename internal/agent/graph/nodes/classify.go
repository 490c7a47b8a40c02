package nodes

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	"github.com/cantrip-core/server/internal/agent/intent"
	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/router"
	logx "github.com/cantrip-core/server/pkg/logger"
)

// taskCollaborators are the fixed collaborator sets of the structured tasks.
var taskCollaborators = map[model.Task][]model.Collaborator{
	model.TaskItinerary: {model.CollabWeather, model.CollabAttractions, model.CollabPlanning},
	model.TaskExplore:   {model.CollabWeather, model.CollabEvents, model.CollabAttractions},
	model.TaskPacking:   {model.CollabWeather},
}

var taskIntents = map[model.Task]model.Intent{
	model.TaskItinerary: model.IntentItinerary,
	model.TaskExplore:   model.IntentExplore,
	model.TaskPacking:   model.IntentPacking,
}

// NewClassifyPreHandler seeds the run state from the request.
func NewClassifyPreHandler() func(context.Context, model.RequestContext, *model.GraphState) (model.RequestContext, error) {
	return func(ctx context.Context, in model.RequestContext, s *model.GraphState) (model.RequestContext, error) {
		if strings.TrimSpace(in.SessionID) == "" {
			in.SessionID = uuid.NewString()
		}
		in.Task = model.ParseTask(string(in.Task))
		s.SessionID = in.SessionID
		s.Task = in.Task
		s.Message = in.Message
		s.History = in.History
		if !in.ReceivedAt.IsZero() {
			s.StartedAt = in.ReceivedAt
		}
		return in, nil
	}
}

// NewClassifyNode labels the request, picks the collaborators to consult and
// routes the run to a model profile.
func NewClassifyNode(cls *intent.Classifier, rt *router.Router, defaults model.SchedulerConfig, now func() time.Time) *compose.Lambda {
	return compose.InvokableLambda(guarded(NodeClassify,
		func(ctx context.Context, in model.RequestContext) (model.Intent, error) {
			var out model.Intent
			err := compose.ProcessState(ctx, func(_ context.Context, s *model.GraphState) error {
				var err error
				out, err = Classify(cls, rt, defaults, now(), in, s)
				return err
			})
			return out, err
		},
		func(ctx context.Context, _ model.RequestContext) model.Intent {
			out, _ := readState(ctx, func(s *model.GraphState) model.Intent {
				if s.Intent() == "" {
					_ = s.SetIntent(model.IntentGeneral)
				}
				s.Collaborators = nil
				return s.Intent()
			})
			return out
		},
	))
}

// Classify fills s from the request. It sets the intent last so a failure
// leaves it unset for the degraded path.
func Classify(cls *intent.Classifier, rt *router.Router, defaults model.SchedulerConfig, now time.Time, in model.RequestContext, s *model.GraphState) (model.Intent, error) {
	res := cls.Classify(in.Message, in.History)
	s.Cities = res.Cities

	var (
		label model.Intent
		trip  = in.Trip
	)
	if taskIntent, ok := taskIntents[in.Task]; ok {
		label = taskIntent
		trip.City = strings.TrimSpace(trip.City)
		if trip.City == "" {
			trip.City = res.City
		}
		s.Collaborators = append([]model.Collaborator(nil), taskCollaborators[in.Task]...)
		s.Packing = in.Packing
	} else {
		label = res.Intent
		s.Collaborators = res.Collaborators
		trip = intent.TripFromMessage(in.Message, res.City, now)
		if trip.Budget <= 0 {
			trip.Budget = defaults.DefaultBudget
		}
	}
	if trip.GroupSize <= 0 {
		trip.GroupSize = defaults.DefaultGroupSize
	}

	s.City = trip.City
	if len(s.Cities) == 0 && s.City != "" {
		s.Cities = []string{s.City}
	}
	s.Trip = trip
	s.Filters = filtersFor(in, label, trip, now)

	decision := rt.Route(roleFor(in.Task, label, s.City), router.Signals{
		Prompt:        promptText(in),
		Cities:        len(s.Cities),
		DateSpanDays:  trip.Span(),
		ToolChain:     len(s.Collaborators),
		Multimodal:    in.HasImages,
		PreviousError: in.PreviousError,
	})
	s.Model = decision.Profile.Model
	s.Escalated = decision.Escalated

	if err := s.SetIntent(label); err != nil {
		return "", err
	}
	s.Logf("classify: intent=%s city=%q collaborators=%v", label, s.City, s.Collaborators)

	logx.Debug().
		Str("session_id", s.SessionID).
		Str("stage", NodeClassify).
		Str("intent", string(label)).
		Str("city", s.City).
		Int("collaborators", len(s.Collaborators)).
		Str("role", string(decision.Role)).
		Str("profile", decision.Profile.Name).
		Bool("escalated", decision.Escalated).
		Str("reason", decision.Reason).
		Msg("request classified")
	return label, nil
}

// filtersFor derives adapter hints. Chat messages only contribute a date when
// one is named; structured tasks pass their trip window.
func filtersFor(in model.RequestContext, label model.Intent, trip model.TripParams, now time.Time) model.Filters {
	f := model.Filters{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			f[k] = v
		}
	}

	if _, structured := taskIntents[in.Task]; structured {
		if _, _, ok := trip.Range(); ok {
			set(model.FilterStartDate, trip.StartDate)
			set(model.FilterEndDate, trip.EndDate)
			set(model.FilterDays, strconv.Itoa(trip.Span()))
		}
	} else {
		set(model.FilterDate, intent.ExtractDate(in.Message, now))
		if label == model.IntentEvents {
			set(model.FilterCategory, intent.ExtractEventType(in.Message))
		}
	}
	set(model.FilterInterests, strings.Join(trip.Interests, ","))
	set(model.FilterMood, trip.Mood)
	return f
}

func roleFor(task model.Task, label model.Intent, city string) router.Role {
	switch SelectBranch(task, label, city) {
	case model.BranchItinerary:
		return router.RoleItinerary
	case model.BranchExplore:
		return router.RoleExplore
	case model.BranchPacking:
		return router.RolePacking
	}
	if label == model.IntentEvents {
		return router.RoleEvents
	}
	return router.RoleChat
}

// promptText approximates what generation will send, for token estimation.
func promptText(in model.RequestContext) string {
	var b strings.Builder
	for _, t := range in.History {
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}
	b.WriteString(in.Message)
	return b.String()
}

// SelectBranch picks exactly one synthesize branch.
func SelectBranch(task model.Task, label model.Intent, city string) model.Branch {
	switch {
	case task == model.TaskItinerary:
		return model.BranchItinerary
	case task == model.TaskExplore:
		return model.BranchExplore
	case task == model.TaskPacking:
		return model.BranchPacking
	case label == model.IntentPlanning && intent.KnownCity(city):
		return model.BranchItinerary
	default:
		return model.BranchChat
	}
}
