package tui

import (
	"triage-cli/internal/form"
	"triage-cli/internal/model"
	"triage-cli/internal/render"
	"triage-cli/internal/session"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
)

// Form field order, which is also the focus order.
const (
	inputTitle = iota
	inputDue
	inputImportance
	inputHours
	inputDeps
	inputCount
)

var inputLabels = [inputCount]string{"Title", "Due date", "Importance", "Hours", "Depends on"}

// screen holds the widgets the orchestrator reads and writes. It implements
// session.Ports.
type screen struct {
	inputs [inputCount]textinput.Model
	buffer textarea.Model

	strategies []string
	strategy   int

	enabled     bool
	fieldErrors map[form.Field]string

	notice       string
	noticeActive bool

	results     []model.ScoredTask
	expanded    map[int]bool
	suggestions []model.ScoredTask

	meta        string
	metaVisible bool
}

var _ session.Ports = (*screen)(nil)

func newScreen(strategy, bufferText string) *screen {
	s := &screen{
		strategies:  model.Strategies(),
		enabled:     true,
		fieldErrors: map[form.Field]string{},
		expanded:    map[int]bool{},
	}
	placeholders := [inputCount]string{"Ship report", "YYYY-MM-DD", "1-10", "e.g. 1.5", "t1, t2"}
	for i := range s.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		s.inputs[i] = in
	}
	s.inputs[inputImportance].SetValue("5")

	s.buffer = textarea.New()
	s.buffer.ShowLineNumbers = false
	s.buffer.Placeholder = "[]"
	s.buffer.CharLimit = 0
	s.buffer.MaxHeight = 0
	s.buffer.SetValue(bufferText)

	s.setStrategy(strategy)
	return s
}

// setStrategy selects name, adding it to the list when it is not a preset.
func (s *screen) setStrategy(name string) {
	if name == "" {
		name = model.StrategySmartBalance
	}
	for i, v := range s.strategies {
		if v == name {
			s.strategy = i
			return
		}
	}
	s.strategies = append(s.strategies, name)
	s.strategy = len(s.strategies) - 1
}

func (s *screen) cycleStrategy(delta int) {
	n := len(s.strategies)
	s.strategy = ((s.strategy+delta)%n + n) % n
}

func (s *screen) FormValues() form.Input {
	return form.Input{
		Title:        s.inputs[inputTitle].Value(),
		DueDate:      s.inputs[inputDue].Value(),
		Importance:   s.inputs[inputImportance].Value(),
		Hours:        s.inputs[inputHours].Value(),
		Dependencies: s.inputs[inputDeps].Value(),
	}
}

func (s *screen) ClearForm() {
	for i := range s.inputs {
		s.inputs[i].SetValue("")
	}
	s.inputs[inputImportance].SetValue("5")
}

func (s *screen) BufferText() string { return s.buffer.Value() }

func (s *screen) SetBufferText(text string) { s.buffer.SetValue(text) }

func (s *screen) Strategy() string { return s.strategies[s.strategy] }

func (s *screen) SetControlsEnabled(enabled bool) { s.enabled = enabled }

func (s *screen) SetFieldError(f form.Field, msg string) {
	if msg == "" {
		delete(s.fieldErrors, f)
		return
	}
	s.fieldErrors[f] = msg
}

func (s *screen) ShowNotice(n session.Notice) {
	s.notice = n.Text
	s.noticeActive = true
}

func (s *screen) NoticeIdle() { s.noticeActive = false }

func (s *screen) ShowResults(tasks []model.ScoredTask, expanded map[int]bool) {
	s.results = tasks
	s.expanded = expanded
}

func (s *screen) ShowSuggestions(tasks []model.ScoredTask) { s.suggestions = tasks }

func (s *screen) ShowMeta(meta map[string]any) {
	s.meta, s.metaVisible = render.MetaJSON(meta)
}
