package tui

import (
	"strings"

	"triage-cli/internal/form"

	"github.com/charmbracelet/lipgloss"
)

const idleNotice = "Ready"

var fieldForInput = map[int]form.Field{
	inputTitle:      form.FieldTitle,
	inputImportance: form.FieldImportance,
	inputHours:      form.FieldHours,
}

func (m appModel) View() string {
	left, _ := m.columns()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(left).Render(m.viewForm(left)),
		"  ",
		m.viewport.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewNotice(), m.viewHelp())
}

func (m appModel) viewForm(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Add task"))
	b.WriteString("\n")
	for i := range m.scr.inputs {
		b.WriteString(styleLabel(m.focus == focusTarget(i)).Render(inputLabels[i]))
		b.WriteString(m.scr.inputs[i].View())
		b.WriteString("\n")
		if f, ok := fieldForInput[i]; ok {
			if msg := m.scr.fieldErrors[f]; msg != "" {
				b.WriteString(styleError().Render("  " + msg))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(styleLabel(m.focus == focusBuffer).Render("Tasks (JSON)"))
	b.WriteString("\n")
	b.WriteString(m.scr.buffer.View())
	b.WriteString("\n")
	if msg := m.scr.fieldErrors[form.FieldBuffer]; msg != "" {
		b.WriteString(styleError().Width(width).Render(msg))
		b.WriteString("\n")
	}

	b.WriteString(styleLabel(m.focus == focusStrategy).Render("Strategy"))
	b.WriteString("‹ " + m.scr.Strategy() + " ›\n\n")

	enabled := m.scr.enabled
	b.WriteString(strings.Join([]string{
		styleButton(enabled).Render("Add (enter)"),
		styleButton(enabled).Render("Analyze (ctrl+s)"),
		styleButton(enabled).Render("Suggest (ctrl+g)"),
	}, " "))
	return b.String()
}

// resultsContent is everything the right-hand viewport scrolls through.
func (m appModel) resultsContent(width int) string {
	var parts []string
	if s := renderSuggestions(m.scr.suggestions, width); s != "" {
		parts = append(parts, s)
	}
	heading := "Results"
	if m.focus == focusResults {
		heading = lipgloss.NewStyle().Foreground(colorAccent).Render(heading)
	}
	parts = append(parts, lipgloss.NewStyle().Bold(true).Render(heading))
	parts = append(parts, renderResults(m.scr.results, m.scr.expanded, width, m.selectedCard()))
	if m.scr.metaVisible {
		parts = append(parts,
			lipgloss.NewStyle().Bold(true).Render("Meta (m)"),
			styleMuted().Render(m.scr.meta))
	}
	return strings.Join(parts, "\n")
}

// selectedCard is the highlighted card, or -1 when the results column does
// not have focus.
func (m appModel) selectedCard() int {
	if m.focus != focusResults {
		return -1
	}
	return m.selected
}

func (m *appModel) refreshViewport() {
	_, right := m.columns()
	m.viewport.SetContent(m.resultsContent(right))
}

func (m appModel) viewNotice() string {
	text := idleNotice
	if m.scr.noticeActive {
		text = sanitize(m.scr.notice)
	}
	if m.st.Busy {
		text = m.spinner.View() + " " + text
	}
	st := lipgloss.NewStyle().Background(colorNoticeBg).Width(m.width)
	if strings.HasPrefix(text, "Error: ") {
		st = st.Foreground(colorError)
	}
	return st.Render(truncate(text, m.width))
}

func (m appModel) viewHelp() string {
	help := "tab focus · enter add · ctrl+s analyze · ctrl+g suggest · ctrl+w save · ctrl+c quit"
	switch m.focus {
	case focusStrategy:
		help = "←/→ strategy · " + help
	case focusResults:
		help = "↑/↓ select · b breakdown · m meta · pgup/pgdn scroll · " + help
	}
	return styleMuted().Render(truncate(help, m.width))
}
