package buffer

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"triage-cli/internal/model"
)

func strPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		ok      bool
		n       int
		errText string
	}{
		{name: "empty text reads as empty list", text: "", ok: true, n: 0},
		{name: "empty array", text: "[]", ok: true, n: 0},
		{name: "two tasks", text: `[{"id":"a"},{"id":"b"}]`, ok: true, n: 2},
		{name: "object is not a list", text: `{"tasks":[]}`, errText: "JSON must be an array of tasks"},
		{name: "null is not a list", text: "null", errText: "JSON must be an array of tasks"},
		{name: "number is not a list", text: " 42 ", errText: "JSON must be an array of tasks"},
		{name: "syntax error", text: `[{"id":}]`},
		{name: "whitespace only", text: "   "},
		{name: "trailing garbage", text: `[] x`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Parse(tt.text)
			if res.OK != tt.ok {
				t.Fatalf("ok: got %v want %v (err=%v)", res.OK, tt.ok, res.Err)
			}
			if tt.ok {
				if res.Err != nil {
					t.Fatalf("unexpected err: %v", res.Err)
				}
				if len(res.Items) != tt.n {
					t.Fatalf("items: got %d want %d", len(res.Items), tt.n)
				}
				return
			}
			if res.Err == nil {
				t.Fatalf("expected error")
			}
			if tt.errText != "" && res.Err.Error() != tt.errText {
				t.Fatalf("error: got %q want %q", res.Err.Error(), tt.errText)
			}
			var pe *ParseError
			if !errors.As(error(res.Err), &pe) {
				t.Fatalf("expected *ParseError")
			}
		})
	}
}

func TestAppend_AddsExactlyOneTask(t *testing.T) {
	t.Parallel()

	prior := []model.Task{
		{ID: "t1", Title: "First", Importance: 3, EstimatedHours: 1, Dependencies: []string{}},
		{ID: "t2", Title: "Second", DueDate: strPtr("2026-10-20"), Importance: 9, EstimatedHours: 0.5, Dependencies: []string{"t1"}},
	}
	b, err := json.Marshal(prior)
	if err != nil {
		t.Fatal(err)
	}

	add := model.Task{ID: "t3", Title: "Ship report", Importance: 8, EstimatedHours: 2.5, Dependencies: []string{}}
	out, err := Append(string(b), add)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	res := Parse(out)
	if !res.OK {
		t.Fatalf("appended buffer does not parse: %v", res.Err)
	}
	got, err := Decode(res.Items)
	if err != nil {
		t.Fatal(err)
	}
	want := append(append([]model.Task{}, prior...), add)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tasks:\n got: %#v\nwant: %#v", got, want)
	}
	if !strings.Contains(out, `"due_date": null`) {
		t.Fatalf("expected explicit null due_date in pretty output:\n%s", out)
	}
}

func TestAppend_UnparseableBufferStartsFresh(t *testing.T) {
	t.Parallel()

	add := model.Task{ID: "t1", Title: "x", Importance: 1, Dependencies: []string{}}
	out, err := Append("{not json", add)
	if err != nil {
		t.Fatal(err)
	}
	res := Parse(out)
	if !res.OK || len(res.Items) != 1 {
		t.Fatalf("expected single-task list, got %+v", res)
	}
}

func TestAppend_PreservesHandEditedFields(t *testing.T) {
	t.Parallel()

	in := `[{"title":"kept","zeta":1,"alpha":{"nested":true}}]`
	out, err := Append(in, model.Task{ID: "t2", Title: "new", Importance: 2, Dependencies: []string{}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"zeta": 1`) || strings.Index(out, `"zeta"`) > strings.Index(out, `"alpha"`) {
		t.Fatalf("expected unknown fields kept in original order:\n%s", out)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{
		{ID: "a", Title: "A", Importance: 1, EstimatedHours: 0, Dependencies: []string{}},
		{ID: "b", Title: "B <b>", DueDate: strPtr("2026-01-02"), Importance: 10, EstimatedHours: 12.25, Dependencies: []string{"a"}},
	}
	items := make([]json.RawMessage, 0, len(tasks))
	for _, tk := range tasks {
		b, err := json.Marshal(tk)
		if err != nil {
			t.Fatal(err)
		}
		items = append(items, b)
	}
	text, err := Format(items)
	if err != nil {
		t.Fatal(err)
	}
	res := Parse(text)
	if !res.OK {
		t.Fatalf("parse: %v", res.Err)
	}
	got, err := Decode(res.Items)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Fatalf("round trip mismatch:\n got: %#v\nwant: %#v", got, tasks)
	}
}

func TestFile_ReadMissingAndWrite(t *testing.T) {
	t.Parallel()

	f := File{Path: filepath.Join(t.TempDir(), "sub", "tasks.json")}
	text, err := f.Read()
	if err != nil || text != "" {
		t.Fatalf("missing file: got %q, %v", text, err)
	}
	if err := f.Write("[]"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	text, err = f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if text != "[]\n" {
		t.Fatalf("got %q", text)
	}
}
