package session

import (
	"context"

	"triage-cli/internal/form"
	"triage-cli/internal/model"
)

// Ports is everything the orchestrator reads from or pushes to the screen.
type Ports interface {
	// FormValues returns the raw text of the five task-entry fields.
	FormValues() form.Input
	ClearForm()

	BufferText() string
	SetBufferText(text string)

	Strategy() string

	// SetControlsEnabled toggles add, analyze and suggest together.
	SetControlsEnabled(enabled bool)

	// SetFieldError shows msg next to f; an empty msg clears it.
	SetFieldError(f form.Field, msg string)

	ShowNotice(n Notice)
	NoticeIdle()

	ShowResults(tasks []model.ScoredTask, expanded map[int]bool)
	// ShowSuggestions with an empty list clears the panel.
	ShowSuggestions(tasks []model.ScoredTask)
	// ShowMeta with a nil map clears and hides the panel.
	ShowMeta(meta map[string]any)
}

// Service is the remote triage service.
type Service interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalysisResponse, error)
	Suggest(ctx context.Context, strategy string) (*model.SuggestionResponse, error)
}
