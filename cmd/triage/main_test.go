package main

import (
	"reflect"
	"testing"
)

func TestRewriteBufferFileArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"triage"},
			want: []string{"triage"},
		},
		{
			name: "buffer file first token",
			in:   []string{"triage", "work.json"},
			want: []string{"triage", "--buffer", "work.json"},
		},
		{
			name: "buffer file after value flag",
			in:   []string{"triage", "--server", "http://localhost:9000", "work.json"},
			want: []string{"triage", "--server", "http://localhost:9000", "--buffer", "work.json"},
		},
		{
			name: "buffer file after equals flag",
			in:   []string{"triage", "--strategy=high_impact", "work.JSON"},
			want: []string{"triage", "--strategy=high_impact", "--buffer", "work.JSON"},
		},
		{
			name: "buffer file after bool flag",
			in:   []string{"triage", "--debug", "work.json"},
			want: []string{"triage", "--debug", "--buffer", "work.json"},
		},
		{
			name: "buffer file after double dash",
			in:   []string{"triage", "--", "work.json"},
			want: []string{"triage", "--buffer", "work.json"},
		},
		{
			name: "explicit buffer flag not rewritten",
			in:   []string{"triage", "--buffer", "work.json"},
			want: []string{"triage", "--buffer", "work.json"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"triage", "render", "--in", "last.json"},
			want: []string{"triage", "render", "--in", "last.json"},
		},
		{
			name: "bare extension not rewritten",
			in:   []string{"triage", ".json"},
			want: []string{"triage", ".json"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteBufferFileArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v want %#v", got, tt.want)
			}
		})
	}
}
