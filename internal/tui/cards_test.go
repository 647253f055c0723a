package tui

import (
	"encoding/json"
	"strings"
	"testing"

	"triage-cli/internal/model"
	"triage-cli/internal/render"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"\x1b[31mred\x1b[0m", "red"},
		{"two\nlines\r\n", "two lines "},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderResults_EmptyState(t *testing.T) {
	t.Parallel()

	got := xansi.Strip(renderResults(nil, nil, 60, -1))
	if got != emptyResults {
		t.Fatalf("got %q", got)
	}
}

func TestRenderCard(t *testing.T) {
	t.Parallel()

	due := "2025-12-01"
	tasks := []model.ScoredTask{{
		Title:          "Ship \x1b[2Jreport",
		Tier:           "Critical",
		Score:          json.Number("0.9100"),
		Importance:     json.Number("8"),
		EstimatedHours: json.Number("2"),
		DueDate:        &due,
		Explanation:    "Due soon",
		Warnings:       []string{"Blocks t2"},
		ScoreBreakdown: json.RawMessage(`{"urgency":0.5}`),
	}}

	collapsed := xansi.Strip(renderResults(tasks, map[int]bool{}, 80, -1))
	for _, want := range []string{"Ship report", "Critical", "Score: 0.9100", "Importance: 8/10", "Effort: 2h", "Due: 2025-12-01", "Due soon", "! Blocks t2", "View score breakdown"} {
		if !strings.Contains(collapsed, want) {
			t.Errorf("collapsed card missing %q:\n%s", want, collapsed)
		}
	}
	if strings.Contains(collapsed, "urgency") {
		t.Errorf("collapsed card shows the breakdown")
	}

	expanded := xansi.Strip(renderResults(tasks, map[int]bool{0: true}, 80, -1))
	if !strings.Contains(expanded, `"urgency": 0.5`) {
		t.Errorf("expanded card missing breakdown:\n%s", expanded)
	}
}

func TestRenderCard_DueNotSet(t *testing.T) {
	t.Parallel()

	card := render.Cards([]model.ScoredTask{{Title: "x"}}, render.ModeResults, nil)[0]
	if got := xansi.Strip(renderCard(card, 80, false)); !strings.Contains(got, "Due: "+render.DueNotSet) {
		t.Fatalf("got %q", got)
	}
}

func TestRenderSuggestions(t *testing.T) {
	t.Parallel()

	if got := renderSuggestions(nil, 60); got != "" {
		t.Fatalf("empty suggestions rendered %q", got)
	}
	got := xansi.Strip(renderSuggestions([]model.ScoredTask{
		{Title: "Call bank", ScoreBreakdown: json.RawMessage(`{"x":1}`)},
	}, 60))
	if !strings.Contains(got, "Top 3 Suggestions for Today") || !strings.Contains(got, "Call bank") {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(got, "breakdown") {
		t.Fatalf("suggestions should not offer breakdowns: %q", got)
	}
}
