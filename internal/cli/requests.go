package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"triage-cli/internal/format"
	"triage-cli/internal/model"
	"triage-cli/internal/render"
	"triage-cli/internal/session"

	"github.com/spf13/cobra"
)

// savedResult is what --save writes and `triage render` reads.
type savedResult struct {
	Operation  string                    `json:"operation"`
	Strategy   string                    `json:"strategy"`
	SavedAt    time.Time                 `json:"saved_at"`
	Analysis   *model.AnalysisResponse   `json:"analysis,omitempty"`
	Suggestion *model.SuggestionResponse `json:"suggestion,omitempty"`
}

func (s savedResult) report() render.Report {
	r := render.Report{Strategy: s.Strategy, Generated: s.SavedAt}
	if r.Generated.IsZero() {
		r.Generated = time.Now().UTC()
	}
	switch {
	case s.Analysis != nil:
		r.Results = s.Analysis.AnalyzedTasks
		r.Meta = s.Analysis.Meta
	case s.Suggestion != nil:
		r.Suggestions = session.SuggestionSet(s.Suggestion)
		if s.Suggestion.AnalyzedTasks != nil {
			r.Results = *s.Suggestion.AnalyzedTasks
		}
		r.Meta = s.Suggestion.Meta
	}
	return r
}

// outputFiles are the optional side outputs of analyze and suggest.
type outputFiles struct {
	save string
	html string
}

func (o *outputFiles) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.save, "save", "", "Write the response to this file (input for `triage render`)")
	cmd.Flags().StringVar(&o.html, "html", "", "Write an HTML report to this file")
}

func (o *outputFiles) write(app *App, s savedResult) error {
	if o.save != "" {
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.save, append(b, '\n'), 0o644); err != nil {
			return fmt.Errorf("save response: %w", err)
		}
	}
	if o.html != "" {
		page, err := renderPage(app, s)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.html, []byte(page), 0o644); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
	}
	return nil
}

func renderPage(app *App, s savedResult) (string, error) {
	h, err := render.NewHTML(app.log)
	if err != nil {
		return "", err
	}
	return h.Page(s.report())
}

func newAnalyzeCmd(app *App) *cobra.Command {
	out := &outputFiles{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Send the buffer's tasks for scoring and print the ranked result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := newConsolePorts(app.bufferFile(), app.cfg.Strategy, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}

			st := newOrchestrator(app, p, c).Analyze(cmd.Context(), session.NewState())
			if st.LastResult == nil || st.LastResult.Analysis == nil {
				return errReported(st.Notice.Text)
			}
			resp := st.LastResult.Analysis

			if err := out.write(app, savedResult{
				Operation: session.OpAnalyze.String(),
				Strategy:  p.Strategy(),
				SavedAt:   time.Now().UTC(),
				Analysis:  resp,
			}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{
				Data: map[string]any{"analyzed_tasks": p.results},
				Meta: resp.Meta,
			})
		},
	}

	out.bind(cmd)
	return cmd
}

func newSuggestCmd(app *App) *cobra.Command {
	out := &outputFiles{}

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the service for today's top picks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			// Suggest does not read the buffer.
			p, err := newConsolePorts(nil, app.cfg.Strategy, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}

			st := newOrchestrator(app, p, c).Suggest(cmd.Context(), session.NewState())
			if st.LastResult == nil || st.LastResult.Suggestion == nil {
				return errReported(st.Notice.Text)
			}
			resp := st.LastResult.Suggestion

			if err := out.write(app, savedResult{
				Operation:  session.OpSuggest.String(),
				Strategy:   p.Strategy(),
				SavedAt:    time.Now().UTC(),
				Suggestion: resp,
			}); err != nil {
				return writeErr(cmd, err)
			}
			data := map[string]any{
				"suggested_tasks": p.suggestions,
			}
			if resp.AnalyzedTasks != nil {
				data["analyzed_tasks"] = p.results
			}
			return writeOut(cmd, app, format.Envelope{Data: data, Meta: resp.Meta})
		},
	}

	out.bind(cmd)
	return cmd
}
