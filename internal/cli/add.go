package cli

import (
	"fmt"

	"triage-cli/internal/buffer"
	"triage-cli/internal/form"
	"triage-cli/internal/format"
	"triage-cli/internal/session"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var in form.Input

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Validate a task and append it to the buffer file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := app.bufferFile()
			p, err := newConsolePorts(f, app.cfg.Strategy, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			p.input = in

			st := newOrchestrator(app, p, nil).AddTask(session.NewState())
			if p.writeErr != nil {
				return writeErr(cmd, fmt.Errorf("write buffer %s: %w", f.Path, p.writeErr))
			}
			if len(st.FieldErrors) > 0 || st.Notice.Text != session.MsgTaskAdded {
				return errReported(st.Notice.Text)
			}

			res := buffer.Parse(p.BufferText())
			if !res.OK || len(res.Items) == 0 {
				return writeErr(cmd, fmt.Errorf("buffer %s: task was not appended", f.Path))
			}
			return writeOut(cmd, app, format.Envelope{
				Data: res.Items[len(res.Items)-1],
				Meta: map[string]any{
					"buffer": f.Path,
					"tasks":  len(res.Items),
				},
				Hints: []string{"triage analyze"},
			})
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Importance, "importance", "5", "Importance (1-10)")
	cmd.Flags().StringVar(&in.Hours, "hours", "", "Estimated hours (>= 0)")
	cmd.Flags().StringVar(&in.Dependencies, "deps", "", "Comma-separated ids this task depends on")
	return cmd
}
