package form

import (
	"reflect"
	"testing"
	"time"
)

func fixedID() string { return "t1" }

func TestValidate_ShipReportExample(t *testing.T) {
	t.Parallel()

	task, errs := Validate(Input{Title: "Ship report", Importance: "8", Hours: "2.5"}, fixedID)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if task.ID != "t1" || task.Title != "Ship report" {
		t.Fatalf("unexpected id/title: %+v", task)
	}
	if task.Importance != 8 {
		t.Fatalf("importance: got %d want 8", task.Importance)
	}
	if task.EstimatedHours != 2.5 {
		t.Fatalf("hours: got %v want 2.5", task.EstimatedHours)
	}
	if task.DueDate != nil {
		t.Fatalf("expected nil due date, got %q", *task.DueDate)
	}
	if task.Dependencies == nil || len(task.Dependencies) != 0 {
		t.Fatalf("expected empty non-nil deps, got %#v", task.Dependencies)
	}
}

func TestValidate_TrimsTitleAndKeepsDate(t *testing.T) {
	t.Parallel()

	task, errs := Validate(Input{
		Title:        "  Write tests  ",
		DueDate:      "2026-11-01",
		Importance:   " 10 ",
		Hours:        "0",
		Dependencies: " t1, ,t2 ,, ",
	}, fixedID)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if task.Title != "Write tests" {
		t.Fatalf("title not trimmed: %q", task.Title)
	}
	if task.DueDate == nil || *task.DueDate != "2026-11-01" {
		t.Fatalf("due date: %v", task.DueDate)
	}
	if want := []string{"t1", "t2"}; !reflect.DeepEqual(task.Dependencies, want) {
		t.Fatalf("deps: got %#v want %#v", task.Dependencies, want)
	}
}

func TestValidate_ReportsAllErrorsTogether(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Input
		want Errors
	}{
		{
			name: "everything wrong",
			in:   Input{Title: "   ", Importance: "abc", Hours: "-1"},
			want: Errors{
				FieldTitle:      MsgTitleRequired,
				FieldImportance: MsgImportanceRange,
				FieldHours:      MsgHoursNonNegative,
			},
		},
		{
			name: "importance too high",
			in:   Input{Title: "x", Importance: "11", Hours: "1"},
			want: Errors{FieldImportance: MsgImportanceRange},
		},
		{
			name: "importance zero",
			in:   Input{Title: "x", Importance: "0", Hours: "1"},
			want: Errors{FieldImportance: MsgImportanceRange},
		},
		{
			name: "hours missing",
			in:   Input{Title: "x", Importance: "5", Hours: ""},
			want: Errors{FieldHours: MsgHoursNonNegative},
		},
		{
			name: "hours NaN",
			in:   Input{Title: "x", Importance: "5", Hours: "NaN"},
			want: Errors{FieldHours: MsgHoursNonNegative},
		},
		{
			name: "title missing only",
			in:   Input{Importance: "1", Hours: "3"},
			want: Errors{FieldTitle: MsgTitleRequired},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			called := false
			task, errs := Validate(tt.in, func() string { called = true; return "t9" })
			if !reflect.DeepEqual(errs, tt.want) {
				t.Fatalf("errors:\n got: %#v\nwant: %#v", errs, tt.want)
			}
			if called || task.ID != "" {
				t.Fatalf("expected no task to be produced, got %+v", task)
			}
		})
	}
}

func TestIDSource_StrictlyIncreasing(t *testing.T) {
	t.Parallel()

	frozen := time.UnixMilli(1700000000000)
	src := NewIDSource(func() time.Time { return frozen })

	a, b, c := src.Next(), src.Next(), src.Next()
	if a != "t1700000000000" || b != "t1700000000001" || c != "t1700000000002" {
		t.Fatalf("unexpected ids: %s %s %s", a, b, c)
	}
}

func TestErrors_ErrorIsStable(t *testing.T) {
	t.Parallel()

	e := Errors{FieldTitle: MsgTitleRequired, FieldHours: MsgHoursNonNegative}
	want := "hours: Hours must be 0 or greater; title: Title is required"
	if got := e.Error(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// Numbers must be whole strings: no truncated fractions, no trailing units.
func TestValidate_NumbersParseStrictly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Input
		want Errors
	}{
		{"fractional importance", Input{Title: "x", Importance: "8.5", Hours: "1"}, Errors{FieldImportance: MsgImportanceRange}},
		{"importance with suffix", Input{Title: "x", Importance: "8abc", Hours: "1"}, Errors{FieldImportance: MsgImportanceRange}},
		{"hours with unit", Input{Title: "x", Importance: "5", Hours: "2.5h"}, Errors{FieldHours: MsgHoursNonNegative}},
		{"hours infinite", Input{Title: "x", Importance: "5", Hours: "Inf"}, Errors{FieldHours: MsgHoursNonNegative}},
		{"padded values accepted", Input{Title: "x", Importance: " 8 ", Hours: " 2.5 "}, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, errs := Validate(tt.in, fixedID)
			if len(errs) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(errs, tt.want) {
				t.Fatalf("errors:\n got: %#v\nwant: %#v", errs, tt.want)
			}
		})
	}
}
