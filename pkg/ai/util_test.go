package ai

import (
	"testing"
)

func TestUnmarshalFlexible(t *testing.T) {
	type record struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid json",
			input: `{"name":"Alice"}`,
			want:  "Alice",
		},
		{
			name:  "trailing comma",
			input: `{"name":"Alice",}`,
			want:  "Alice",
		},
		{
			name:  "unquoted key single quotes",
			input: `{name: 'Alice'}`,
			want:  "Alice",
		},
		{
			name:  "missing closing brace",
			input: `{"name":"Alice"`,
			want:  "Alice",
		},
		{
			name:  "surrounding whitespace",
			input: "  {\"name\":\"Alice\"}\n",
			want:  "Alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got record
			if err := UnmarshalFlexible(tt.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Name != tt.want {
				t.Fatalf("UnmarshalFlexible() name = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestUnmarshalFlexible_Array(t *testing.T) {
	type record struct {
		Name string `json:"name"`
	}

	var got []record
	if err := UnmarshalFlexible(`[{name:'A'},{name:'B'},]`, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want A and B", got)
	}
}
