// Package buffer implements the editable JSON task list.
//
// The buffer is free text. It is parsed lazily where it is used and is
// never rewritten except when a task is appended.
package buffer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"triage-cli/internal/model"
)

var errNotArray = errors.New("JSON must be an array of tasks")

// ParseError reports a buffer that is not valid JSON or not an array.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Result is the outcome of Parse. Exactly one of Items (when OK) or Err is set.
type Result struct {
	OK    bool
	Items []json.RawMessage
	Err   *ParseError
}

// Parse reads text as a JSON array. Empty text is treated as "[]".
// Elements are kept verbatim so hand-edited fields survive a rewrite.
func Parse(text string) Result {
	if text == "" {
		text = "[]"
	}
	raw := []byte(text)
	if !json.Valid(raw) {
		var v any
		err := json.Unmarshal(raw, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return Result{Err: &ParseError{Err: err}}
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return Result{Err: &ParseError{Err: errNotArray}}
	}
	items := []json.RawMessage{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return Result{Err: &ParseError{Err: err}}
	}
	return Result{OK: true, Items: items}
}

// Format pretty-prints items with two-space indentation.
func Format(items []json.RawMessage) (string, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format buffer: %w", err)
	}
	return string(b), nil
}

// Append adds t to a fresh parse of text and returns the new buffer text.
// An unparseable buffer is replaced by a list holding only t.
func Append(text string, t model.Task) (string, error) {
	var items []json.RawMessage
	if res := Parse(text); res.OK {
		items = res.Items
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode task: %w", err)
	}
	items = append(items, b)
	return Format(items)
}

// Decode converts parsed items into typed tasks.
func Decode(items []json.RawMessage) ([]model.Task, error) {
	out := make([]model.Task, 0, len(items))
	for i, it := range items {
		var t model.Task
		if err := json.Unmarshal(it, &t); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Normalize returns text with a trailing newline, the way buffer files are
// written to disk.
func Normalize(text string) string {
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}
