package session

import (
	"maps"

	"triage-cli/internal/form"
	"triage-cli/internal/model"
)

// Op identifies an orchestrated request.
type Op int

const (
	OpNone Op = iota
	OpAnalyze
	OpSuggest
)

func (o Op) String() string {
	switch o {
	case OpAnalyze:
		return "analyze"
	case OpSuggest:
		return "suggest"
	default:
		return "none"
	}
}

// Notice is the notification line. Gen increases with every notice so a
// scheduled revert can tell whether it has been superseded.
type Notice struct {
	Text   string
	Gen    uint64
	Active bool
}

// Result is the last successful response. At most one field is set.
type Result struct {
	Analysis   *model.AnalysisResponse
	Suggestion *model.SuggestionResponse
}

// State is the session's UI state. Actions take a State and return the
// updated one; nothing else holds it.
type State struct {
	LastResult *Result

	Busy     bool
	InFlight Op

	FieldErrors map[form.Field]string
	Notice      Notice

	Meta        map[string]any
	MetaVisible bool

	Results     []model.ScoredTask
	Suggestions []model.ScoredTask
	// Expanded holds breakdown toggles keyed by result index. It is reset
	// whenever Results is replaced.
	Expanded map[int]bool
}

func NewState() State {
	return State{
		FieldErrors: map[form.Field]string{},
		Expanded:    map[int]bool{},
	}
}

// clone copies the maps so earlier State values are not mutated.
func (s State) clone() State {
	s.FieldErrors = maps.Clone(s.FieldErrors)
	if s.FieldErrors == nil {
		s.FieldErrors = map[form.Field]string{}
	}
	s.Expanded = maps.Clone(s.Expanded)
	if s.Expanded == nil {
		s.Expanded = map[int]bool{}
	}
	return s
}
