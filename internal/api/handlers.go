package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cantrip-core/server/internal/agent/graph"
	"github.com/cantrip-core/server/internal/agent/graph/observers"
	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/tools"
	errx "github.com/cantrip-core/server/internal/core/error"
	logx "github.com/cantrip-core/server/pkg/logger"
)

const (
	serviceName     = "cantrip-agent"
	maxBodyBytes    = 1 << 20
	defaultExplore  = 7
	defaultTripCost = 1000.0
)

// Handler serves the travel endpoints over a graph runner and the adapter toolbox.
type Handler struct {
	runner graph.Runner
	tools  *tools.Toolbox
	now    func() time.Time
}

func NewHandler(runner graph.Runner, toolbox *tools.Toolbox, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{runner: runner, tools: toolbox, now: now}
}

type chatRequest struct {
	Message   string       `json:"message"`
	SessionID string       `json:"session_id"`
	History   []model.Turn `json:"history"`
	HasImages bool         `json:"has_images"`
}

type itineraryRequest struct {
	City          string   `json:"city"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Interests     []string `json:"interests"`
	Budget        *float64 `json:"budget"`
	GroupSize     int      `json:"group_size"`
	Pace          string   `json:"pace"`
	Accommodation string   `json:"accommodation"`
}

type exploreRequest struct {
	City      string   `json:"city"`
	Mood      string   `json:"mood"`
	Budget    *float64 `json:"budget"`
	Duration  int      `json:"duration"`
	Interests []string `json:"interests"`
}

type packingRequest struct {
	Destination  string   `json:"destination"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Activities   []string `json:"activities"`
	GroupSize    int      `json:"group_size"`
	AgeGroup     string   `json:"age_group"`
	SpecialNeeds []string `json:"special_needs"`
	BaggageType  string   `json:"baggage_type"`
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": serviceName})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, errx.BadRequest(errors.New("message is required")))
		return
	}
	h.invoke(w, r, model.RequestContext{
		Task:      model.TaskChat,
		Message:   req.Message,
		SessionID: req.SessionID,
		History:   req.History,
		HasImages: req.HasImages,
	})
}

func (h *Handler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req itineraryRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.City) == "" {
		respondError(w, errx.BadRequest(errors.New("city is required")))
		return
	}
	h.invoke(w, r, model.RequestContext{
		Task: model.TaskItinerary,
		Trip: model.TripParams{
			City:          req.City,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
			Interests:     req.Interests,
			Budget:        budgetOr(req.Budget),
			GroupSize:     req.GroupSize,
			Pace:          model.Pace(strings.ToLower(strings.TrimSpace(req.Pace))),
			Accommodation: req.Accommodation,
		},
	})
}

// ExploreDestination turns the requested duration into a window starting today.
func (h *Handler) ExploreDestination(w http.ResponseWriter, r *http.Request) {
	var req exploreRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.City) == "" {
		respondError(w, errx.BadRequest(errors.New("city is required")))
		return
	}
	days := req.Duration
	if days <= 0 {
		days = defaultExplore
	}
	start := h.now().UTC()
	h.invoke(w, r, model.RequestContext{
		Task: model.TaskExplore,
		Trip: model.TripParams{
			City:      req.City,
			StartDate: start.Format(model.DateLayout),
			EndDate:   start.AddDate(0, 0, days-1).Format(model.DateLayout),
			Interests: req.Interests,
			Budget:    budgetOr(req.Budget),
			Mood:      req.Mood,
		},
	})
}

func (h *Handler) GeneratePackingList(w http.ResponseWriter, r *http.Request) {
	var req packingRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Destination) == "" {
		respondError(w, errx.BadRequest(errors.New("destination is required")))
		return
	}
	h.invoke(w, r, model.RequestContext{
		Task: model.TaskPacking,
		Trip: model.TripParams{
			City:      req.Destination,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			GroupSize: req.GroupSize,
		},
		Packing: model.PackingParams{
			Activities:   req.Activities,
			AgeGroup:     req.AgeGroup,
			SpecialNeeds: req.SpecialNeeds,
			BaggageType:  req.BaggageType,
		},
	})
}

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	infos, err := h.tools.Infos(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	type toolSummary struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	out := make([]toolSummary, 0, len(infos))
	for _, info := range infos {
		out = append(out, toolSummary{Name: info.Name, Description: info.Desc})
	}
	respondJSON(w, http.StatusOK, map[string]any{"tools": out})
}

// RunTool calls one collaborator directly, e.g. GET /tools/events?city=Toronto&date=2025-08-02.
func (h *Handler) RunTool(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := tools.Input{
		City:      q.Get("city"),
		Date:      q.Get("date"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Category:  q.Get("category"),
		Mood:      q.Get("mood"),
	}
	if v := q.Get("interests"); v != "" {
		in.Interests = strings.Split(v, ",")
	}
	if in.Category == "all" {
		in.Category = ""
	}

	out, err := h.tools.Run(r.Context(), chi.URLParam(r, "name"), in, observers.NewToolCallbacks())
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func (h *Handler) invoke(w http.ResponseWriter, r *http.Request, in model.RequestContext) {
	in.ReceivedAt = h.now()
	env, err := h.runner.Invoke(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, env)
}

func budgetOr(b *float64) float64 {
	if b == nil {
		return defaultTripCost
	}
	return *b
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		respondError(w, errx.BadRequest(fmt.Errorf("decode body: %w", err)))
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError hides internal detail on 5xx responses.
func respondError(w http.ResponseWriter, err error) {
	status := errx.StatusOf(err)
	message := errx.MessageOf(err)
	if status < http.StatusInternalServerError {
		message = err.Error()
	}
	respondJSON(w, status, map[string]string{"error": message})
}
