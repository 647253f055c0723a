package tui

import (
	"context"
	"fmt"
	"time"

	"triage-cli/internal/buffer"
	"triage-cli/internal/config"
	"triage-cli/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type focusTarget int

const (
	focusTitle focusTarget = iota
	focusDue
	focusImportance
	focusHours
	focusDeps
	focusBuffer
	focusStrategy
	focusResults
	focusCount
)

type requestDoneMsg struct{ out session.Outcome }

type noticeExpiredMsg struct{ gen uint64 }

type appModel struct {
	ctx  context.Context
	log  *zap.Logger
	orch *session.Orchestrator
	st   session.State
	scr  *screen
	file *buffer.File

	notifyDelay  time.Duration
	scheduledGen uint64

	focus    focusTarget
	selected int

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
}

func newAppModel(ctx context.Context, opts Options) (appModel, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	text := ""
	if opts.File != nil {
		t, err := opts.File.Read()
		if err != nil {
			return appModel{}, fmt.Errorf("read buffer: %w", err)
		}
		text = t
	}
	delay := opts.NotifyDelay
	if delay <= 0 {
		delay = config.DefaultNotifyDelay
	}

	scr := newScreen(opts.Strategy, text)
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := appModel{
		ctx:         ctx,
		log:         log,
		scr:         scr,
		orch:        session.New(scr, opts.Service, session.WithLogger(log), session.WithWeights(opts.Weights)),
		st:          session.NewState(),
		file:        opts.File,
		notifyDelay: delay,
		spinner:     sp,
		viewport:    viewport.New(80, 20),
		width:       100,
		height:      30,
	}
	m.setFocus(focusTitle)
	return m, nil
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case requestDoneMsg:
		m.st = m.orch.Complete(m.st, msg.out)
		m.selected = 0

	case noticeExpiredMsg:
		m.st, _ = m.orch.ExpireNotice(m.st, msg.gen)

	case spinner.TickMsg:
		if m.st.Busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.scheduleNoticeExpiry())
	m.refreshViewport()
	return m, tea.Batch(cmds...)
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return nil, true
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return nil, false
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return nil, false
	case "ctrl+g":
		st, p := m.orch.BeginSuggest(m.st)
		m.st = st
		return m.start(p), false
	case "ctrl+w":
		m.saveBuffer()
		return nil, false
	}
	if session.IsAnalyzeShortcut(key) {
		st, p := m.orch.Shortcut(m.st, key)
		m.st = st
		return m.start(p), false
	}

	switch m.focus {
	case focusStrategy:
		switch key {
		case "left", "h", "up", "k":
			m.scr.cycleStrategy(-1)
		case "right", "l", "down", "j", " ":
			m.scr.cycleStrategy(1)
		}
		return nil, false

	case focusResults:
		switch key {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.st.Results)-1 {
				m.selected++
			}
		case "b", "enter":
			m.st = m.orch.ToggleBreakdown(m.st, m.selected)
		case "m":
			m.st = m.orch.ToggleMeta(m.st)
		case "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd, false
		}
		return nil, false

	case focusBuffer:
		var cmd tea.Cmd
		m.scr.buffer, cmd = m.scr.buffer.Update(msg)
		return cmd, false
	}

	// Form fields.
	if key == "enter" {
		if !m.scr.enabled {
			return nil, false
		}
		m.st = m.orch.AddTask(m.st)
		if len(m.st.FieldErrors) == 0 {
			m.setFocus(focusTitle)
		}
		return nil, false
	}
	i := int(m.focus)
	var cmd tea.Cmd
	m.scr.inputs[i], cmd = m.scr.inputs[i].Update(msg)
	return cmd, false
}

// start runs p off the event loop and reports back with requestDoneMsg.
func (m *appModel) start(p *session.Pending) tea.Cmd {
	if p == nil {
		return nil
	}
	ctx := m.ctx
	run := func() tea.Msg {
		return requestDoneMsg{out: p.Run(ctx)}
	}
	return tea.Batch(run, m.spinner.Tick)
}

// scheduleNoticeExpiry arms a revert timer for a notice that has not been
// scheduled yet. Superseded timers still fire; ExpireNotice ignores them.
func (m *appModel) scheduleNoticeExpiry() tea.Cmd {
	n := m.st.Notice
	if !n.Active || n.Gen == m.scheduledGen {
		return nil
	}
	m.scheduledGen = n.Gen
	gen := n.Gen
	return tea.Tick(m.notifyDelay, func(time.Time) tea.Msg {
		return noticeExpiredMsg{gen: gen}
	})
}

func (m *appModel) saveBuffer() {
	if m.file == nil || m.file.Path == "" {
		m.st = m.orch.Notify(m.st, "No buffer file configured")
		return
	}
	if err := m.file.Write(m.scr.BufferText()); err != nil {
		m.log.Error("save buffer error", zap.String("path", m.file.Path), zap.Error(err))
		m.st = m.orch.Notify(m.st, "Error: "+err.Error())
		return
	}
	m.st = m.orch.Notify(m.st, "Saved "+m.file.Path)
}

func (m *appModel) setFocus(f focusTarget) {
	m.focus = f
	for i := range m.scr.inputs {
		if focusTarget(i) == f {
			m.scr.inputs[i].Focus()
		} else {
			m.scr.inputs[i].Blur()
		}
	}
	if f == focusBuffer {
		m.scr.buffer.Focus()
	} else {
		m.scr.buffer.Blur()
	}
}

func (m *appModel) resize() {
	left, right := m.columns()
	for i := range m.scr.inputs {
		m.scr.inputs[i].Width = left - 16
	}
	m.scr.buffer.SetWidth(left - 2)
	bh := m.height - 16
	if bh < 3 {
		bh = 3
	}
	m.scr.buffer.SetHeight(bh)
	m.viewport.Width = right
	m.viewport.Height = max(m.height-3, 3)
}

// columns splits the width into the form column and the results column.
func (m appModel) columns() (int, int) {
	left := m.width / 2
	if left > 60 {
		left = 60
	}
	if left < 30 {
		left = 30
	}
	right := m.width - left - 2
	if right < 20 {
		right = 20
	}
	return left, right
}
