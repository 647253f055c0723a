package form

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"triage-cli/internal/model"

	"github.com/go-playground/validator/v10"
)

// Field names an input that can carry an inline error.
type Field string

const (
	FieldTitle      Field = "title"
	FieldImportance Field = "importance"
	FieldHours      Field = "hours"
	// FieldBuffer is the JSON task buffer, not a form input, but it shares the
	// inline error surface.
	FieldBuffer Field = "json"
)

// ErrorFields lists every field with an inline error slot, in display order.
var ErrorFields = []Field{FieldTitle, FieldImportance, FieldHours, FieldBuffer}

const (
	MsgTitleRequired    = "Title is required"
	MsgImportanceRange  = "Importance must be between 1 and 10"
	MsgHoursNonNegative = "Hours must be 0 or greater"
)

// Input holds the raw text of the five task-entry fields.
type Input struct {
	Title        string
	DueDate      string
	Importance   string
	Hours        string
	Dependencies string
}

// Errors maps fields to their messages. A nil or empty Errors means valid.
type Errors map[Field]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for f := range e {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[Field(k)]))
	}
	return strings.Join(parts, "; ")
}

var validate = validator.New()

// candidate carries the parsed values through the range rules.
type candidate struct {
	Title      string  `validate:"required"`
	Importance int     `validate:"min=1,max=10"`
	Hours      float64 `validate:"gte=0"`
}

var fieldMessages = map[string]struct {
	field Field
	msg   string
}{
	"Title":      {FieldTitle, MsgTitleRequired},
	"Importance": {FieldImportance, MsgImportanceRange},
	"Hours":      {FieldHours, MsgHoursNonNegative},
}

// Validate checks every rule and returns either a task or the full set of
// field errors, never both.
func Validate(in Input, newID func() string) (model.Task, Errors) {
	errs := Errors{}

	c := candidate{Title: strings.TrimSpace(in.Title)}

	imp, err := strconv.Atoi(strings.TrimSpace(in.Importance))
	if err != nil {
		errs[FieldImportance] = MsgImportanceRange
	}
	c.Importance = imp

	hours, err := strconv.ParseFloat(strings.TrimSpace(in.Hours), 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		errs[FieldHours] = MsgHoursNonNegative
	}
	c.Hours = hours

	var verrs validator.ValidationErrors
	if err := validate.Struct(c); errors.As(err, &verrs) {
		for _, fe := range verrs {
			if m, ok := fieldMessages[fe.StructField()]; ok {
				errs[m.field] = m.msg
			}
		}
	}

	if len(errs) > 0 {
		return model.Task{}, errs
	}

	t := model.Task{
		ID:             newID(),
		Title:          c.Title,
		Importance:     c.Importance,
		EstimatedHours: c.Hours,
		Dependencies:   SplitDependencies(in.Dependencies),
	}
	if d := strings.TrimSpace(in.DueDate); d != "" {
		t.DueDate = &d
	}
	return t, nil
}

// SplitDependencies splits comma-separated ids, trimming each and dropping
// empty segments. The result is never nil.
func SplitDependencies(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IDSource hands out "t<unix-millis>" ids that strictly increase even when
// the clock does not move between calls.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return "t" + strconv.FormatInt(ms, 10)
}
