package format

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	v := map[string]any{
		"analyzed_tasks": []any{map[string]any{"title": "A", "score": json.Number("0.9100"), "due_date": nil}},
		"ok":             true,
	}

	tests := []struct {
		name   string
		format string
		pretty bool
		want   string
	}{
		{
			name:   "json compact",
			format: "json",
			want:   `{"analyzed_tasks":[{"due_date":null,"score":0.9100,"title":"A"}],"ok":true}` + "\n",
		},
		{
			name:   "edn compact",
			format: "edn",
			want:   `{:analyzed-tasks [{:due-date nil :score 0.9100 :title "A"}] :ok true}` + "\n",
		},
		{
			name:   "edn pretty",
			format: "edn",
			pretty: true,
			want:   "{\n  :analyzed-tasks [\n    {\n      :due-date nil\n      :score 0.9100\n      :title \"A\"\n    }\n  ]\n  :ok true\n}\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := Write(&buf, v, tt.format, tt.pretty); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteEDN_EmptyCollections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []any{}, "b": map[string]any{}}, true); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "{\n  :a []\n  :b {}\n}\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWrite_Envelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		env    Envelope
		format string
		want   string
	}{
		{
			name:   "json omits empty meta and hints",
			env:    Envelope{Data: map[string]any{"analyzed_tasks": []any{}}},
			format: "json",
			want:   `{"data":{"analyzed_tasks":[]}}` + "\n",
		},
		{
			name:   "json full",
			env:    Envelope{Data: "t1", Meta: map[string]any{"tasks": 1}, Hints: []string{"triage analyze"}},
			format: "json",
			want:   `{"data":"t1","meta":{"tasks":1},"_hints":["triage analyze"]}` + "\n",
		},
		{
			name:   "edn keys",
			env:    Envelope{Data: "t1", Meta: map[string]any{"strategy": "high_impact"}, Hints: []string{"triage analyze"}},
			format: "edn",
			want:   `{:-hints ["triage analyze"] :data "t1" :meta {:strategy "high_impact"}}` + "\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := Write(&buf, tt.env, tt.format, false); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}
