// Package tui is the interactive terminal front end: the task form, the JSON
// buffer, the strategy selector and the result panels.
package tui

import (
	"context"
	"time"

	"triage-cli/internal/buffer"
	"triage-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Service  session.Service
	Strategy string
	Weights  map[string]float64

	// File backs the JSON buffer; its contents are loaded on start and
	// ctrl+w writes the buffer back. Nil disables saving.
	File *buffer.File

	NotifyDelay time.Duration
	NoColor     bool
	Logger      *zap.Logger
}

func Run(ctx context.Context, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference(opts.NoColor)

	m, err := newAppModel(ctx, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
