// Package session orchestrates task composition and the analyze/suggest
// requests, and decides what each screen region shows.
//
// Execution is cooperative: every method except Pending.Run is meant to be
// called from the owner's event loop, and Pending.Run is the only place that
// blocks.
package session

import (
	"context"
	"errors"

	"triage-cli/internal/api"
	"triage-cli/internal/buffer"
	"triage-cli/internal/form"
	"triage-cli/internal/model"

	"go.uber.org/zap"
)

// User-facing messages.
const (
	MsgFixFormErrors    = "Please fix form errors"
	MsgTaskAdded        = "Task added to JSON input"
	MsgInvalidJSON      = "Invalid JSON"
	MsgAddAtLeastOne    = "Please add at least one task"
	MsgNoTasksToAnalyze = "No tasks to analyze"
	MsgAnalyzing        = "Analyzing tasks..."
	MsgAnalysisComplete = "Analysis complete"
	MsgSuggesting       = "Getting suggestions..."
	MsgSuggestionsReady = "Suggestions loaded"

	errorPrefix = "Error: "
)

// SuggestionCount is how many analyzed tasks stand in for missing suggestions.
const SuggestionCount = 3

// PreconditionError is a buffer that parses but cannot be analyzed.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

type Orchestrator struct {
	ports   Ports
	svc     Service
	log     *zap.Logger
	newID   func() string
	weights map[string]float64
}

type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithIDs overrides the task id generator.
func WithIDs(next func() string) Option {
	return func(o *Orchestrator) {
		if next != nil {
			o.newID = next
		}
	}
}

// WithWeights attaches custom scoring weights to every analyze request.
func WithWeights(w map[string]float64) Option {
	return func(o *Orchestrator) { o.weights = w }
}

func New(p Ports, svc Service, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ports: p,
		svc:   svc,
		log:   zap.NewNop(),
		newID: form.NewIDSource(nil).Next,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Pending is a request that passed its preconditions and has not run yet.
type Pending struct {
	Op  Op
	run func(ctx context.Context) Outcome
}

// Run performs the network exchange. It touches no ports, so it may run off
// the event loop; hand its Outcome back to Complete.
func (p *Pending) Run(ctx context.Context) Outcome {
	return p.run(ctx)
}

// Outcome is the result of Pending.Run.
type Outcome struct {
	Op         Op
	Analysis   *model.AnalysisResponse
	Suggestion *model.SuggestionResponse
	Err        error
}

// AddTask validates the form and appends the task to the buffer.
func (o *Orchestrator) AddTask(st State) State {
	if st.Busy {
		return st
	}
	st = st.clone()
	for _, f := range form.ErrorFields {
		o.setFieldError(&st, f, "")
	}

	task, errs := form.Validate(o.ports.FormValues(), o.newID)
	if len(errs) > 0 {
		for _, f := range form.ErrorFields {
			if msg, ok := errs[f]; ok {
				o.setFieldError(&st, f, msg)
			}
		}
		o.notify(&st, MsgFixFormErrors)
		return st
	}

	text, err := buffer.Append(o.ports.BufferText(), task)
	if err != nil {
		o.log.Error("add task error", zap.Error(err))
		o.notify(&st, errorPrefix+err.Error())
		return st
	}
	o.ports.SetBufferText(text)
	o.ports.ClearForm()
	o.notify(&st, MsgTaskAdded)
	return st
}

// BeginAnalyze checks the buffer and, when it holds at least one task,
// disables the controls and returns the request to run.
func (o *Orchestrator) BeginAnalyze(st State) (State, *Pending) {
	if st.Busy {
		return st, nil
	}
	st = st.clone()
	o.setFieldError(&st, form.FieldBuffer, "")

	res := buffer.Parse(o.ports.BufferText())
	if !res.OK {
		o.setFieldError(&st, form.FieldBuffer, res.Err.Error())
		o.notify(&st, MsgInvalidJSON)
		return st, nil
	}
	if len(res.Items) == 0 {
		perr := &PreconditionError{Reason: MsgAddAtLeastOne}
		o.setFieldError(&st, form.FieldBuffer, perr.Error())
		o.notify(&st, MsgNoTasksToAnalyze)
		return st, nil
	}

	req := model.AnalyzeRequest{
		Tasks:    res.Items,
		Strategy: o.ports.Strategy(),
		Weights:  o.weights,
	}
	o.begin(&st, OpAnalyze, MsgAnalyzing)

	svc := o.svc
	return st, &Pending{
		Op: OpAnalyze,
		run: func(ctx context.Context) Outcome {
			resp, err := svc.Analyze(ctx, req)
			return Outcome{Op: OpAnalyze, Analysis: resp, Err: err}
		},
	}
}

// BeginSuggest disables the controls and returns the request to run. It does
// not read the buffer.
func (o *Orchestrator) BeginSuggest(st State) (State, *Pending) {
	if st.Busy {
		return st, nil
	}
	st = st.clone()
	strategy := o.ports.Strategy()
	o.begin(&st, OpSuggest, MsgSuggesting)

	svc := o.svc
	return st, &Pending{
		Op: OpSuggest,
		run: func(ctx context.Context) Outcome {
			resp, err := svc.Suggest(ctx, strategy)
			return Outcome{Op: OpSuggest, Suggestion: resp, Err: err}
		},
	}
}

// Complete applies the outcome of the in-flight request and re-enables the
// controls whether it succeeded or not.
func (o *Orchestrator) Complete(st State, out Outcome) State {
	if !st.Busy || out.Op != st.InFlight {
		o.log.Warn("ignoring stale outcome", zap.Stringer("op", out.Op), zap.Stringer("in_flight", st.InFlight))
		return st
	}
	st = st.clone()
	o.apply(&st, out)
	st.Busy = false
	st.InFlight = OpNone
	o.ports.SetControlsEnabled(true)
	return st
}

func (o *Orchestrator) apply(st *State, out Outcome) {
	if out.Err == nil && out.Analysis == nil && out.Suggestion == nil {
		out.Err = errors.New("empty response")
	}
	if out.Err != nil {
		o.fail(st, out.Op, out.Err)
		return
	}

	switch out.Op {
	case OpAnalyze:
		resp := out.Analysis
		st.LastResult = &Result{Analysis: resp}
		o.setResults(st, resp.AnalyzedTasks)
		st.Suggestions = nil
		o.ports.ShowSuggestions(nil)
		o.setMeta(st, resp.Meta)
		o.notify(st, MsgAnalysisComplete)
	case OpSuggest:
		resp := out.Suggestion
		st.LastResult = &Result{Suggestion: resp}
		st.Suggestions = SuggestionSet(resp)
		o.ports.ShowSuggestions(st.Suggestions)
		if resp.AnalyzedTasks != nil {
			o.setResults(st, *resp.AnalyzedTasks)
		}
		o.setMeta(st, resp.Meta)
		o.notify(st, MsgSuggestionsReady)
	}
}

// Analyze runs BeginAnalyze, the exchange and Complete in one call.
func (o *Orchestrator) Analyze(ctx context.Context, st State) State {
	st, p := o.BeginAnalyze(st)
	if p == nil {
		return st
	}
	return o.Complete(st, p.Run(ctx))
}

// Suggest runs BeginSuggest, the exchange and Complete in one call.
func (o *Orchestrator) Suggest(ctx context.Context, st State) State {
	st, p := o.BeginSuggest(st)
	if p == nil {
		return st
	}
	return o.Complete(st, p.Run(ctx))
}

// IsAnalyzeShortcut reports whether key is the modifier+Enter analyze
// shortcut. Terminals rarely report ctrl+enter, so alt+enter and ctrl+s are
// accepted too.
func IsAnalyzeShortcut(key string) bool {
	switch key {
	case "ctrl+enter", "alt+enter", "ctrl+s":
		return true
	}
	return false
}

// Shortcut handles a key press; it only acts on the analyze shortcut, and
// only while the controls are enabled.
func (o *Orchestrator) Shortcut(st State, key string) (State, *Pending) {
	if !IsAnalyzeShortcut(key) || st.Busy {
		return st, nil
	}
	return o.BeginAnalyze(st)
}

// ToggleBreakdown flips the breakdown panel of the result at index.
func (o *Orchestrator) ToggleBreakdown(st State, index int) State {
	if index < 0 || index >= len(st.Results) || !st.Results[index].HasBreakdown() {
		return st
	}
	st = st.clone()
	st.Expanded[index] = !st.Expanded[index]
	o.ports.ShowResults(st.Results, st.Expanded)
	return st
}

// ToggleMeta shows or hides a non-empty metadata panel.
func (o *Orchestrator) ToggleMeta(st State) State {
	if len(st.Meta) == 0 {
		return st
	}
	st.MetaVisible = !st.MetaVisible
	if st.MetaVisible {
		o.ports.ShowMeta(st.Meta)
	} else {
		o.ports.ShowMeta(nil)
	}
	return st
}

// ExpireNotice reverts the notification to idle if gen is still the current
// notice. It reports false when gen was superseded.
func (o *Orchestrator) ExpireNotice(st State, gen uint64) (State, bool) {
	if !st.Notice.Active || st.Notice.Gen != gen {
		return st, false
	}
	st.Notice.Active = false
	o.ports.NoticeIdle()
	return st, true
}

// Notify shows text on the notification line as a new notice.
func (o *Orchestrator) Notify(st State, text string) State {
	o.notify(&st, text)
	return st
}

// SuggestionSet picks the tasks for the suggestion panel: the explicit
// suggestions if present, else the first three analyzed tasks, else none.
func SuggestionSet(resp *model.SuggestionResponse) []model.ScoredTask {
	if resp == nil {
		return []model.ScoredTask{}
	}
	if resp.SuggestedTasks != nil {
		return *resp.SuggestedTasks
	}
	if resp.AnalyzedTasks != nil {
		all := *resp.AnalyzedTasks
		if len(all) > SuggestionCount {
			all = all[:SuggestionCount]
		}
		return all
	}
	return []model.ScoredTask{}
}

func (o *Orchestrator) begin(st *State, op Op, msg string) {
	st.Busy = true
	st.InFlight = op
	o.ports.SetControlsEnabled(false)
	o.notify(st, msg)
}

func (o *Orchestrator) fail(st *State, op Op, err error) {
	label := "analysis error"
	if op == OpSuggest {
		label = "suggestion error"
	}
	o.log.Error(label, append([]zap.Field{zap.Error(err)}, errorFields(err)...)...)
	o.notify(st, errorPrefix+err.Error())
	o.setMeta(st, nil)
}

func (o *Orchestrator) setResults(st *State, tasks []model.ScoredTask) {
	if tasks == nil {
		tasks = []model.ScoredTask{}
	}
	st.Results = tasks
	st.Expanded = map[int]bool{}
	o.ports.ShowResults(st.Results, st.Expanded)
}

func (o *Orchestrator) setMeta(st *State, meta map[string]any) {
	if len(meta) == 0 {
		st.Meta = nil
		st.MetaVisible = false
		o.ports.ShowMeta(nil)
		return
	}
	st.Meta = meta
	st.MetaVisible = true
	o.ports.ShowMeta(meta)
}

func (o *Orchestrator) setFieldError(st *State, f form.Field, msg string) {
	if msg == "" {
		delete(st.FieldErrors, f)
	} else {
		st.FieldErrors[f] = msg
	}
	o.ports.SetFieldError(f, msg)
}

func (o *Orchestrator) notify(st *State, text string) {
	st.Notice = Notice{Text: text, Gen: st.Notice.Gen + 1, Active: true}
	o.ports.ShowNotice(st.Notice)
}

func errorFields(err error) []zap.Field {
	var (
		se *api.StatusError
		te *api.TransportError
		pe *api.ProtocolError
	)
	switch {
	case errors.As(err, &se):
		return []zap.Field{zap.String("kind", "status"), zap.Int("status", se.StatusCode)}
	case errors.As(err, &te):
		return []zap.Field{zap.String("kind", "transport")}
	case errors.As(err, &pe):
		return []zap.Field{zap.String("kind", "protocol")}
	}
	return []zap.Field{zap.String("kind", "other")}
}
