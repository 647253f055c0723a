package tui

import (
	"strings"

	"triage-cli/internal/model"
	"triage-cli/internal/render"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const emptyResults = "No tasks analyzed yet. Add some tasks and run an analysis."

// sanitize drops any escape sequences the service sent so they cannot
// restyle the terminal, and flattens newlines.
func sanitize(s string) string {
	s = xansi.Strip(s)
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return xansi.Truncate(s, width, "…")
}

// renderCard draws one task card. width is the outer width including the
// border.
func renderCard(c render.Card, width int, selected bool) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	title := lipgloss.NewStyle().Bold(true).Render(truncate(sanitize(c.Title), inner-len(c.Tier)-4))
	header := title
	if c.Tier != "" {
		header = title + "  " + styleBadge(c.TierClass).Render(sanitize(c.Tier))
	}

	lines := []string{
		header,
		"Score: " + lipgloss.NewStyle().Bold(true).Render(c.Score),
		styleMuted().Render(truncate(
			"Importance: "+c.Importance+"/10 · Effort: "+c.Hours+"h · Due: "+sanitize(c.Due), inner)),
	}
	if c.Explanation != "" {
		lines = append(lines, lipgloss.NewStyle().Width(inner).Render(sanitize(c.Explanation)))
	}
	for _, w := range c.Warnings {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorWarning).Width(inner).Render("! "+sanitize(w)))
	}
	if c.HasBreakdown {
		if c.Expanded {
			lines = append(lines, styleMuted().Render("▾ score breakdown (b)"))
			for _, l := range strings.Split(c.Breakdown, "\n") {
				lines = append(lines, truncate(xansi.Strip(l), inner))
			}
		} else {
			lines = append(lines, styleMuted().Render("▸ View score breakdown (b)"))
		}
	}
	return styleCard(selected).Width(width - 2).Render(strings.Join(lines, "\n"))
}

// renderResults draws the ranked list, or the empty-state message.
func renderResults(tasks []model.ScoredTask, expanded map[int]bool, width, selected int) string {
	if len(tasks) == 0 {
		return styleMuted().Render(emptyResults)
	}
	cards := render.Cards(tasks, render.ModeResults, expanded)
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, renderCard(c, width, c.Index == selected))
	}
	return strings.Join(out, "\n")
}

// renderSuggestions draws the top-picks box; it is empty when there is
// nothing to suggest.
func renderSuggestions(tasks []model.ScoredTask, width int) string {
	if len(tasks) == 0 {
		return ""
	}
	cards := render.Cards(tasks, render.ModeSuggestion, nil)
	lines := []string{lipgloss.NewStyle().Bold(true).Render("Top 3 Suggestions for Today")}
	for _, c := range cards {
		lines = append(lines, renderCard(c, width-4, false))
	}
	return lipgloss.NewStyle().
		Background(colorSuggestBg).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}
