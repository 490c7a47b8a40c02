package evallog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantrip-core/server/internal/agent/model"
)

type line struct {
	SessionID     string   `json:"session_id"`
	Task          string   `json:"task"`
	Intent        string   `json:"intent"`
	Branch        string   `json:"branch"`
	Collaborators []string `json:"collaborators"`
	Confidence    float64  `json:"confidence"`
	TotalCostUSD  float64  `json:"total_cost_usd"`
	LatencyMS     int64    `json:"latency_ms"`
	Degraded      []string `json:"degraded"`
	Error         string   `json:"error"`
}

func TestRecordWritesOneLinePerRun(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Record(context.Background(), model.RunRecord{
		SessionID:    "s-1",
		Task:         model.TaskChat,
		Intent:       model.IntentEvents,
		Branch:       model.BranchChat,
		ToolsUsed:    []model.Collaborator{model.CollabEvents, model.CollabPlanning},
		Confidence:   0.9,
		TotalCostUSD: 0.0008,
		Latency:      1500 * time.Millisecond,
		StageErrors:  map[string]string{"gather": "x", "chat": "y"},
	})
	r.Record(context.Background(), model.RunRecord{SessionID: "s-2", Error: "boom"})

	sc := bufio.NewScanner(&buf)
	var lines []line
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		lines = append(lines, l)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "s-1", lines[0].SessionID)
	assert.Equal(t, "events_inquiry", lines[0].Intent)
	assert.Equal(t, []string{"events", "planning"}, lines[0].Collaborators)
	assert.Equal(t, int64(1500), lines[0].LatencyMS)
	assert.Equal(t, []string{"chat", "gather"}, lines[0].Degraded)
	assert.Empty(t, lines[0].Error)
	assert.Equal(t, "boom", lines[1].Error)
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval", "runs.jsonl")

	for i := 0; i < 2; i++ {
		r, err := Open(path)
		require.NoError(t, err)
		r.Record(context.Background(), model.RunRecord{SessionID: "s"})
		require.NoError(t, r.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}
