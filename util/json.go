package util

import (
	"bytes"
	"encoding/json"
	"maps"
	"math/big"
	"reflect"
)

// JSONShape converts v to the value encoding/json would decode it into:
// map[string]any, []any, json.Number, string, bool or nil. Numbers keep
// their exact text, so integers beyond 2^53 survive. Values already in that
// shape are copied so callers can keep mutating theirs.
func JSONShape(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeBody decodes a response body into its JSON shape. A body that is
// not valid JSON is returned as a string, an empty body as nil.
func DecodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return string(body)
	}
	return out
}

// DeepEqual reports whether a and b have the same JSON structure.
// A struct equals a map with the same encoded fields; 1 and 1.0 are equal,
// whether held as float64 or json.Number.
func DeepEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if jsonEqual(a, b) {
		return true
	}
	sa, err := JSONShape(a)
	if err != nil {
		return reflect.DeepEqual(a, b)
	}
	sb, err := JSONShape(b)
	if err != nil {
		return false
	}
	return jsonEqual(sa, sb)
}

// jsonEqual compares two values already in JSON shape.
func jsonEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !jsonEqual(v, other) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case float64, json.Number:
		return numberEqual(a, b)
	case string, bool:
		return a == b
	case map[string]string:
		bv, ok := b.(map[string]string)
		return ok && maps.Equal(av, bv)
	default:
		return false
	}
}

// numberEqual compares float64 and json.Number values exactly.
func numberEqual(a, b any) bool {
	ra, ok := toRat(a)
	if !ok {
		return false
	}
	rb, ok := toRat(b)
	return ok && ra.Cmp(rb) == 0
}

func toRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case float64:
		r := new(big.Rat).SetFloat64(n)
		return r, r != nil
	case json.Number:
		return new(big.Rat).SetString(string(n))
	}
	return nil, false
}
