package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette helpers.
//
// The TUI must stay readable on light and dark backgrounds, so colors are
// lipgloss.AdaptiveColor pairs and faint is only applied on dark terminals.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg   lipgloss.TerminalColor = ac("255", "235")
	colorCardBorder lipgloss.TerminalColor = ac("250", "243")
	colorSelected   lipgloss.TerminalColor = ac("232", "255")
	colorError      lipgloss.TerminalColor = ac("160", "203")
	colorWarning    lipgloss.TerminalColor = ac("130", "214")
	colorDisabled   lipgloss.TerminalColor = ac("250", "239")
	colorNoticeBg   lipgloss.TerminalColor = ac("254", "236")
	colorSuggestBg  lipgloss.TerminalColor = ac("195", "17")

	// Tier badges, keyed by the lower-cased tier label.
	tierColors = map[string]lipgloss.TerminalColor{
		"critical": ac("160", "196"),
		"high":     ac("166", "208"),
		"medium":   ac("136", "220"),
		"low":      ac("28", "114"),
	}
	colorTierDefault lipgloss.TerminalColor = ac("240", "245")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleLabel(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Width(12)
	if focused {
		return st.Bold(true).Foreground(colorAccent)
	}
	return st.Foreground(colorMuted)
}

func styleBadge(tierClass string) lipgloss.Style {
	bg, ok := tierColors[tierClass]
	if !ok {
		bg = colorTierDefault
	}
	return lipgloss.NewStyle().Background(bg).Foreground(colorAccentFg).Padding(0, 1).Bold(true)
}

func styleCard(selected bool) lipgloss.Style {
	st := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if selected {
		return st.BorderForeground(colorSelected)
	}
	return st.BorderForeground(colorCardBorder)
}

func styleButton(enabled bool) lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 1)
	if !enabled {
		return st.Foreground(colorDisabled)
	}
	return st.Foreground(colorAccent).Bold(true)
}

// applyColorProfilePreference honors no_color / NO_COLOR and otherwise
// follows the terminal's capabilities.
func applyColorProfilePreference(noColor bool) {
	if noColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

// applyThemePreference lets TRIAGE_TUI_THEME=light|dark override background
// detection, falling back to the COLORFGBG heuristic ("fg;bg").
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TRIAGE_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
