package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"triage-cli/internal/model"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// HTML renders the three display regions as markup. All task text goes
// through html/template escaping.
type HTML struct {
	tmpl *template.Template
	log  *zap.Logger
}

func NewHTML(log *zap.Logger) (*HTML, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := template.New("render").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &HTML{tmpl: tmpl, log: log}, nil
}

func (h *HTML) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("render failed", zap.String("template", name), zap.Error(err))
		return "", err
	}
	return buf.String(), nil
}

// Results renders the ranked list, or an empty-state placeholder.
func (h *HTML) Results(tasks []model.ScoredTask, expanded map[int]bool) (string, error) {
	return h.execute("results", Cards(tasks, ModeResults, expanded))
}

// Suggestions renders the top-picks panel; an empty list renders nothing.
func (h *HTML) Suggestions(tasks []model.ScoredTask) (string, error) {
	return h.execute("suggestions", Cards(tasks, ModeSuggestion, nil))
}

// Meta renders the diagnostic panel. It reports false (and "") when meta is
// empty and the panel should be hidden.
func (h *HTML) Meta(meta map[string]any) (string, bool, error) {
	s, ok := MetaJSON(meta)
	if !ok {
		return "", false, nil
	}
	out, err := h.execute("meta", s)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// Report is a standalone page holding all three regions.
type Report struct {
	Title       string
	Strategy    string
	Generated   time.Time
	Results     []model.ScoredTask
	Suggestions []model.ScoredTask
	Meta        map[string]any
}

func (h *HTML) Page(r Report) (string, error) {
	results, err := h.Results(r.Results, nil)
	if err != nil {
		return "", err
	}
	suggestions, err := h.Suggestions(r.Suggestions)
	if err != nil {
		return "", err
	}
	meta, _, err := h.Meta(r.Meta)
	if err != nil {
		return "", err
	}
	title := r.Title
	if title == "" {
		title = "Task triage"
	}
	// The fragments below were produced by the escaping templates above.
	return h.execute("page", struct {
		Title       string
		Strategy    string
		Generated   string
		Results     template.HTML
		Suggestions template.HTML
		Meta        template.HTML
	}{
		Title:       title,
		Strategy:    r.Strategy,
		Generated:   r.Generated.Format(time.RFC3339),
		Results:     template.HTML(results),
		Suggestions: template.HTML(suggestions),
		Meta:        template.HTML(meta),
	})
}
