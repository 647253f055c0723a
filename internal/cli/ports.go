package cli

import (
	"fmt"
	"io"

	"triage-cli/internal/buffer"
	"triage-cli/internal/form"
	"triage-cli/internal/model"
	"triage-cli/internal/session"
)

// consolePorts backs one scriptable invocation: the form comes from flags,
// the buffer is a file, and notices and field errors go to stderr.
type consolePorts struct {
	input    form.Input
	strategy string
	file     *buffer.File
	stderr   io.Writer

	text     string
	writeErr error

	fieldErrors map[form.Field]string
	lastNotice  string

	results     []model.ScoredTask
	suggestions []model.ScoredTask
	meta        map[string]any
}

var _ session.Ports = (*consolePorts)(nil)

func newConsolePorts(file *buffer.File, strategy string, stderr io.Writer) (*consolePorts, error) {
	p := &consolePorts{
		strategy:    strategy,
		file:        file,
		stderr:      stderr,
		fieldErrors: map[form.Field]string{},
	}
	if file != nil {
		text, err := file.Read()
		if err != nil {
			return nil, fmt.Errorf("read buffer %s: %w", file.Path, err)
		}
		p.text = text
	}
	return p, nil
}

func (p *consolePorts) FormValues() form.Input { return p.input }

func (p *consolePorts) ClearForm() { p.input = form.Input{} }

func (p *consolePorts) BufferText() string { return p.text }

func (p *consolePorts) SetBufferText(text string) {
	p.text = text
	if p.file != nil {
		p.writeErr = p.file.Write(text)
	}
}

func (p *consolePorts) Strategy() string { return p.strategy }

func (p *consolePorts) SetControlsEnabled(bool) {}

func (p *consolePorts) SetFieldError(f form.Field, msg string) {
	if msg == "" {
		delete(p.fieldErrors, f)
		return
	}
	p.fieldErrors[f] = msg
	fmt.Fprintf(p.stderr, "%s: %s\n", f, msg)
}

func (p *consolePorts) ShowNotice(n session.Notice) {
	p.lastNotice = n.Text
	fmt.Fprintln(p.stderr, n.Text)
}

func (p *consolePorts) NoticeIdle() {}

func (p *consolePorts) ShowResults(tasks []model.ScoredTask, _ map[int]bool) { p.results = tasks }

func (p *consolePorts) ShowSuggestions(tasks []model.ScoredTask) { p.suggestions = tasks }

func (p *consolePorts) ShowMeta(meta map[string]any) { p.meta = meta }
