package model

import "time"

// RunRecord summarizes one orchestration run for offline evaluation.
type RunRecord struct {
	SessionID    string            `json:"session_id"`
	Task         Task              `json:"task"`
	Message      string            `json:"message,omitempty"`
	Intent       Intent            `json:"intent,omitempty"`
	Branch       Branch            `json:"branch,omitempty"`
	City         string            `json:"city,omitempty"`
	ToolsUsed    []Collaborator    `json:"tools_used,omitempty"`
	Model        string            `json:"model,omitempty"`
	Escalated    bool              `json:"escalated"`
	Confidence   float64           `json:"confidence"`
	TotalCostUSD float64           `json:"total_cost_usd"`
	StageErrors  map[string]string `json:"stage_errors,omitempty"`
	Log          []string          `json:"log,omitempty"`
	Latency      time.Duration     `json:"latency_ns"`
	Error        string            `json:"error,omitempty"`
	StartedAt    time.Time         `json:"started_at"`
}

// NewRunRecord builds a record from the final run state. s may be the zero
// value when the run failed before finalize.
func NewRunRecord(in RequestContext, s GraphState, latency time.Duration, err error) RunRecord {
	rec := RunRecord{
		SessionID:    s.SessionID,
		Task:         s.Task,
		Message:      in.Message,
		Intent:       s.Intent(),
		Branch:       s.Branch(),
		City:         s.City,
		ToolsUsed:    s.Results.Names(),
		Model:        s.Model,
		Escalated:    s.Escalated,
		Confidence:   s.Confidence,
		TotalCostUSD: s.TotalCostUSD,
		StageErrors:  s.StageErrors,
		Log:          s.Log,
		Latency:      latency,
		StartedAt:    s.StartedAt,
	}
	if rec.SessionID == "" {
		rec.SessionID = in.SessionID
	}
	if rec.Task == "" {
		rec.Task = in.Task
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}
