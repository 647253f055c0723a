// Package render turns scored tasks into display regions.
//
// Cards is the shared view model; the HTML renderer in this package and the
// terminal renderer in internal/tui both draw from it.
package render

import (
	"bytes"
	"encoding/json"
	"strings"

	"triage-cli/internal/model"
)

const DueNotSet = "Not set"

type Mode int

const (
	// ModeResults is the full ranked list, with breakdown toggles.
	ModeResults Mode = iota
	// ModeSuggestion is the compact top-picks style, without breakdowns.
	ModeSuggestion
)

// Card is one rendered task. Text fields are raw; escaping is left to the
// output format.
type Card struct {
	Index       int
	Title       string
	Tier        string
	TierClass   string
	Score       string
	Importance  string
	Hours       string
	Due         string
	Explanation string
	Warnings    []string

	HasBreakdown bool
	Breakdown    string
	Expanded     bool

	Last bool
}

func Cards(tasks []model.ScoredTask, mode Mode, expanded map[int]bool) []Card {
	out := make([]Card, 0, len(tasks))
	for i, t := range tasks {
		c := Card{
			Index:       i,
			Title:       t.Title,
			Tier:        t.Tier,
			TierClass:   strings.ToLower(t.Tier),
			Score:       t.Score.String(),
			Importance:  t.Importance.String(),
			Hours:       t.EstimatedHours.String(),
			Due:         DueNotSet,
			Explanation: t.Explanation,
			Warnings:    t.Warnings,
			Last:        i == len(tasks)-1,
		}
		if t.DueDate != nil && *t.DueDate != "" {
			c.Due = *t.DueDate
		}
		if mode == ModeResults && t.HasBreakdown() {
			c.HasBreakdown = true
			c.Breakdown = PrettyJSON(t.ScoreBreakdown)
			c.Expanded = expanded[i]
		}
		out = append(out, c)
	}
	return out
}

// PrettyJSON indents raw with two spaces. Invalid input is returned as is.
func PrettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// MetaJSON pretty-prints meta. It reports false when there is nothing to show.
func MetaJSON(meta map[string]any) (string, bool) {
	if len(meta) == 0 {
		return "", false
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", false
	}
	return string(b), true
}
