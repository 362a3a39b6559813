package record

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecord_MarshalJSON_KeepsOrder(t *testing.T) {
	r := Record{
		{Key: "zeta", Value: "z"},
		{Key: "alpha", Value: 3},
		{Key: "term", Value: nil},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"zeta":"z","alpha":3,"term":null}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestRecord_MarshalJSON_Escaping(t *testing.T) {
	r := Record{{Key: `a"b`, Value: "line\nbreak <tag>"}}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded[`a"b`] != "line\nbreak <tag>" {
		t.Errorf("decoded value = %q", decoded[`a"b`])
	}
}

func TestRecord_Empty(t *testing.T) {
	data, err := json.Marshal(Record{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Marshal() = %s, want {}", data)
	}
}

func TestRecord_KeysAndGet(t *testing.T) {
	r := Record{
		{Key: "department", Value: "CS"},
		{Key: "units", Value: 3},
	}

	if diff := cmp.Diff([]string{"department", "units"}, r.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	v, ok := r.Get("units")
	if !ok || v != 3 {
		t.Errorf("Get(units) = %v, %v; want 3, true", v, ok)
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) reported present")
	}
}

func TestString(t *testing.T) {
	term := "Spring 2024"
	var nilTerm *string

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "CS", "CS"},
		{"int", 5, "5"},
		{"string pointer", &term, "Spring 2024"},
		{"nil string pointer", nilTerm, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.in); got != tt.want {
				t.Errorf("String(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
