package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"triage-cli/internal/model"
	"triage-cli/internal/session"

	"github.com/spf13/cobra"
)

func newRenderCmd(app *App) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a saved response as a standalone HTML report",
		Example: `  triage analyze --save last.json
  triage render --in last.json --out report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(in)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := decodeSaved(b)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%s: %w", in, err))
			}
			page, err := renderPage(app, s)
			if err != nil {
				return writeErr(cmd, err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				w = f
			}
			if _, err := io.WriteString(w, page); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Saved response (from --save, or a raw service response)")
	cmd.Flags().StringVar(&out, "out", "", "Write the page here instead of stdout")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// decodeSaved accepts a file written by --save or a response body exactly as
// the service returned it.
func decodeSaved(b []byte) (savedResult, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return savedResult{}, errors.New("empty file")
	}
	var s savedResult
	if err := json.Unmarshal(b, &s); err != nil {
		return savedResult{}, err
	}
	if s.Analysis != nil || s.Suggestion != nil {
		return s, nil
	}

	var raw model.SuggestionResponse
	if err := json.Unmarshal(b, &raw); err != nil {
		return savedResult{}, err
	}
	switch {
	case raw.SuggestedTasks != nil:
		s.Operation = session.OpSuggest.String()
		s.Suggestion = &raw
	case raw.AnalyzedTasks != nil:
		s.Operation = session.OpAnalyze.String()
		s.Analysis = &model.AnalysisResponse{AnalyzedTasks: *raw.AnalyzedTasks, Meta: raw.Meta}
	default:
		return savedResult{}, errors.New("no analyzed_tasks or suggested_tasks")
	}
	return s, nil
}
