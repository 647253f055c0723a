package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Task is a client-authored unit of work pending scoring.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	DueDate        *string  `json:"due_date"`
	Importance     int      `json:"importance"`
	EstimatedHours float64  `json:"estimated_hours"`
	Dependencies   []string `json:"dependencies"`
}

// ScoredTask is a task as returned by the triage service.
//
// Numeric fields are kept as json.Number so they render exactly as the
// service sent them.
type ScoredTask struct {
	ID             string      `json:"id,omitempty"`
	Title          string      `json:"title"`
	DueDate        *string     `json:"due_date"`
	Importance     json.Number `json:"importance,omitempty"`
	EstimatedHours json.Number `json:"estimated_hours,omitempty"`
	Dependencies   []string    `json:"dependencies,omitempty"`

	Score          json.Number     `json:"score,omitempty"`
	Tier           string          `json:"tier"`
	Explanation    string          `json:"explanation,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
	ScoreBreakdown json.RawMessage `json:"score_breakdown,omitempty"`
}

// HasBreakdown reports whether the service attached a breakdown worth
// showing. Missing or falsy values (null, false, "", 0) count as absent.
func (t ScoredTask) HasBreakdown() bool {
	b := bytes.TrimSpace(t.ScoreBreakdown)
	switch string(b) {
	case "", "null", "false", `""`:
		return false
	}
	if c := b[0]; c == '-' || (c >= '0' && c <= '9') {
		f, err := strconv.ParseFloat(string(b), 64)
		return err != nil || f != 0
	}
	return true
}

type AnalysisResponse struct {
	AnalyzedTasks []ScoredTask   `json:"analyzed_tasks"`
	Meta          map[string]any `json:"meta"`
}

// SuggestionResponse distinguishes a missing list (nil pointer) from an
// empty one.
type SuggestionResponse struct {
	SuggestedTasks *[]ScoredTask  `json:"suggested_tasks,omitempty"`
	AnalyzedTasks  *[]ScoredTask  `json:"analyzed_tasks,omitempty"`
	Meta           map[string]any `json:"meta"`
}

// AnalyzeRequest is the body of POST /api/tasks/analyze/.
//
// Tasks are forwarded exactly as they appear in the buffer.
type AnalyzeRequest struct {
	Tasks    []json.RawMessage  `json:"tasks"`
	Strategy string             `json:"strategy"`
	Weights  map[string]float64 `json:"weights,omitempty"`
}

// Strategy presets known to the service. The client never interprets them.
const (
	StrategySmartBalance   = "smart_balance"
	StrategyDeadlineDriven = "deadline_driven"
	StrategyHighImpact     = "high_impact"
	StrategyFastestWins    = "fastest_wins"
)

func Strategies() []string {
	return []string{StrategySmartBalance, StrategyDeadlineDriven, StrategyHighImpact, StrategyFastestWins}
}
