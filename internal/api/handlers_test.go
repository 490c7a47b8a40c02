package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantrip-core/server/internal/agent/collaborators"
	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/tools"
	errx "github.com/cantrip-core/server/internal/core/error"
	"github.com/cantrip-core/server/internal/metrics"
)

var fixedNow = time.Date(2025, 7, 30, 9, 0, 0, 0, time.UTC)

type fakeRunner struct {
	got model.RequestContext
	env *model.Envelope
	err error
}

func (f *fakeRunner) Invoke(_ context.Context, in model.RequestContext) (*model.Envelope, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return f.env, nil
}

type eventsAdapter struct {
	filters model.Filters
}

func (e *eventsAdapter) Name() model.Collaborator { return model.CollabEvents }

func (e *eventsAdapter) Fetch(_ context.Context, _ string, filters model.Filters) model.Result {
	e.filters = filters
	return model.EventList{{Name: "Caribana", Date: "2025-08-02"}}
}

func newServer(t *testing.T, runner *fakeRunner) (*httptest.Server, *eventsAdapter) {
	t.Helper()
	events := &eventsAdapter{}
	box := tools.New(collaborators.NewRegistry(events))
	srv := httptest.NewServer(NewRouter(NewHandler(runner, box, func() time.Time { return fixedNow }), metrics.New()))
	t.Cleanup(srv.Close)
	return srv, events
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t, &fakeRunner{})
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "healthy", out["status"])
}

func TestChat(t *testing.T) {
	runner := &fakeRunner{env: &model.Envelope{
		Kind:      model.BranchChat,
		SessionID: "s-1",
		Intent:    model.IntentEvents,
		Chat:      &model.ChatEnvelope{Response: "Caribana!", Suggestions: []string{"more"}},
	}}
	srv, _ := newServer(t, runner)

	resp, out := post(t, srv.URL+"/chat", `{"message":"events in Toronto?","session_id":"s-1","history":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "chat", out["kind"])
	assert.Equal(t, "events_inquiry", out["intent"])
	assert.Equal(t, "Caribana!", out["chat"].(map[string]any)["response"])

	assert.Equal(t, model.TaskChat, runner.got.Task)
	assert.Equal(t, "s-1", runner.got.SessionID)
	assert.Len(t, runner.got.History, 1)
	assert.Equal(t, fixedNow, runner.got.ReceivedAt)
}

func TestChatValidation(t *testing.T) {
	srv, _ := newServer(t, &fakeRunner{})

	resp, out := post(t, srv.URL+"/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out["error"], "message is required")

	resp, _ = post(t, srv.URL+"/chat", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateItineraryKeepsZeroBudget(t *testing.T) {
	runner := &fakeRunner{env: &model.Envelope{Kind: model.BranchItinerary}}
	srv, _ := newServer(t, runner)

	resp, _ := post(t, srv.URL+"/generate-itinerary", `{"city":"Toronto","start_date":"2025-08-01","end_date":"2025-08-03","budget":0,"pace":"Relaxed"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.TaskItinerary, runner.got.Task)
	assert.Equal(t, 0.0, runner.got.Trip.Budget)
	assert.Equal(t, model.PaceRelaxed, runner.got.Trip.Pace)

	post(t, srv.URL+"/generate-itinerary", `{"city":"Toronto"}`)
	assert.Equal(t, defaultTripCost, runner.got.Trip.Budget)
}

func TestExploreDestinationWindow(t *testing.T) {
	runner := &fakeRunner{env: &model.Envelope{Kind: model.BranchExplore}}
	srv, _ := newServer(t, runner)

	resp, _ := post(t, srv.URL+"/explore-destination", `{"city":"Montreal","mood":"relaxed","duration":3}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2025-07-30", runner.got.Trip.StartDate)
	assert.Equal(t, "2025-08-01", runner.got.Trip.EndDate)
	assert.Equal(t, "relaxed", runner.got.Trip.Mood)
}

func TestGeneratePackingList(t *testing.T) {
	runner := &fakeRunner{env: &model.Envelope{Kind: model.BranchPacking}}
	srv, _ := newServer(t, runner)

	resp, _ := post(t, srv.URL+"/generate-packing-list", `{"destination":"Banff","start_date":"2025-01-10","end_date":"2025-01-14","activities":["skiing"],"age_group":"adult"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Banff", runner.got.Trip.City)
	assert.Equal(t, []string{"skiing"}, runner.got.Packing.Activities)

	resp, _ = post(t, srv.URL+"/generate-packing-list", `{"start_date":"2025-01-10"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunnerFailureHidesDetail(t *testing.T) {
	runner := &fakeRunner{err: errx.FatalEnvelope(errors.New("state lost at finalize"))}
	srv, _ := newServer(t, runner)

	resp, out := post(t, srv.URL+"/chat", `{"message":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, errx.EnvelopeErrorMessage, out["error"])
}

func TestTools(t *testing.T) {
	srv, events := newServer(t, &fakeRunner{})

	resp, err := http.Get(srv.URL + "/tools/events?city=Toronto&date=2025-08-02&category=all")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Collaborator string `json:"collaborator"`
		Count        int    `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "events", out.Collaborator)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, model.Filters{model.FilterDate: "2025-08-02"}, events.filters)

	missing, err := http.Get(srv.URL + "/tools/flights?city=Toronto")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	noCity, err := http.Get(srv.URL + "/tools/events")
	require.NoError(t, err)
	noCity.Body.Close()
	assert.Equal(t, http.StatusBadRequest, noCity.StatusCode)

	list, err := http.Get(srv.URL + "/tools")
	require.NoError(t, err)
	defer list.Body.Close()
	var listed struct {
		Tools []struct{ Name string } `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&listed))
	require.Len(t, listed.Tools, 1)
	assert.Equal(t, "get_events", listed.Tools[0].Name)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newServer(t, &fakeRunner{})

	resp, err := http.Get(srv.URL + "/tools/events?city=Toronto")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cantrip_http_requests_total{method="GET",route="/tools/{name}",status="200"} 1`)
}
