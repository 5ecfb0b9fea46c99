package httpclient

import (
	"net/url"
	"testing"
)

func TestEncodeParams(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{"nil", nil, ""},
		{"flat", map[string]any{"query": "hello"}, "query=hello"},
		{"sorted keys", map[string]any{"b": 2, "a": 1.5}, "a=1.5&b=2"},
		{"scalar array", map[string]any{"ids": []int{1, 2}}, "ids%5B%5D=1&ids%5B%5D=2"},
		{"nested object", map[string]any{"filter": map[string]any{"kind": "x", "on": true}}, "filter%5Bkind%5D=x&filter%5Bon%5D=true"},
		{"array of objects", map[string]any{"sort": []any{map[string]any{"f": "name"}}}, "sort%5B0%5D%5Bf%5D=name"},
		{"nil value", map[string]any{"empty": nil}, "empty="},
		{"escaping", map[string]any{"q": "a b&c"}, "q=a+b%26c"},
		{"struct", struct {
			Query string `json:"query"`
		}{"hello"}, "query=hello"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeParams(tc.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("EncodeParams() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEncodeParams_RoundTripsThroughURL(t *testing.T) {
	got, err := EncodeParams(map[string]any{"filter": map[string]any{"tags": []string{"a", "b"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, err := url.ParseQuery(got)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	tags := values["filter[tags][]"]
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("unexpected tags: %v", tags)
	}
}

func TestEncodeParams_Errors(t *testing.T) {
	if _, err := EncodeParams([]any{1}); err == nil {
		t.Error("expected error for top-level array")
	}
	if _, err := EncodeParams("text"); err == nil {
		t.Error("expected error for top-level string")
	}
	if _, err := EncodeParams(map[string]any{"f": func() {}}); err == nil {
		t.Error("expected error for unserialisable value")
	}
}

func TestEncodeParams_LargeInteger(t *testing.T) {
	got, err := EncodeParams(map[string]any{"id": int64(9007199254740993)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "id=9007199254740993" {
		t.Errorf("expected exact integer, got %q", got)
	}
}
