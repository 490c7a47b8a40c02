package evallog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/cantrip-core/server/internal/agent/model"
	logx "github.com/cantrip-core/server/pkg/logger"
)

// Recorder appends one JSON line per orchestration run.
type Recorder struct {
	out    zerolog.Logger
	closer io.Closer
}

// New writes records to w.
func New(w io.Writer) *Recorder {
	return &Recorder{out: zerolog.New(zerolog.SyncWriter(w))}
}

// Open appends records to the file at path, creating it and its directory.
func Open(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create eval log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open eval log: %w", err)
	}
	r := New(f)
	r.closer = f
	logx.Info().Str("path", path).Msg("evaluation log enabled")
	return r, nil
}

func (r *Recorder) Record(_ context.Context, rec model.RunRecord) {
	tools := make([]string, 0, len(rec.ToolsUsed))
	for _, c := range rec.ToolsUsed {
		tools = append(tools, string(c))
	}
	degraded := make([]string, 0, len(rec.StageErrors))
	for stage := range rec.StageErrors {
		degraded = append(degraded, stage)
	}
	sort.Strings(degraded)

	ev := r.out.Log().
		Time("timestamp", time.Now().UTC()).
		Str("session_id", rec.SessionID).
		Str("task", string(rec.Task)).
		Str("intent", string(rec.Intent)).
		Str("branch", string(rec.Branch)).
		Str("city", rec.City).
		Strs("collaborators", tools).
		Str("model", rec.Model).
		Bool("escalated", rec.Escalated).
		Float64("confidence", rec.Confidence).
		Float64("total_cost_usd", rec.TotalCostUSD).
		Int64("latency_ms", rec.Latency.Milliseconds()).
		Strs("degraded", degraded)
	if rec.Error != "" {
		ev = ev.Str("error", rec.Error)
	}
	ev.Send()
}

func (r *Recorder) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
