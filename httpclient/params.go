package httpclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/apiwatch/util"
)

// EncodeParams serialises an object into a query string.
//
//	{"q": "hi", "filter": {"tag": ["a", "b"]}, "sort": [{"f": "x"}]}
//	→ filter[tag][]=a&filter[tag][]=b&q=hi&sort[0][f]=x
//
// Keys are emitted in sorted order. Arrays of scalars use empty brackets,
// arrays holding objects or arrays use indices. nil encodes as an empty value.
func EncodeParams(params any) (string, error) {
	if params == nil {
		return "", nil
	}
	shaped, err := util.JSONShape(params)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	obj, ok := shaped.(map[string]any)
	if !ok {
		return "", fmt.Errorf("encode params: must be an object, got %T", params)
	}

	var parts []string
	for _, k := range sortedKeys(obj) {
		parts = appendParam(parts, k, obj[k])
	}
	return strings.Join(parts, "&"), nil
}

func appendParam(parts []string, key string, v any) []string {
	switch tv := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(tv) {
			parts = appendParam(parts, key+"["+k+"]", tv[k])
		}
	case []any:
		indexed := slices.ContainsFunc(tv, isComposite)
		for i, item := range tv {
			if indexed {
				parts = appendParam(parts, key+"["+strconv.Itoa(i)+"]", item)
			} else {
				parts = appendParam(parts, key+"[]", item)
			}
		}
	default:
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(scalarString(tv)))
	}
	return parts
}

func isComposite(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func scalarString(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case bool:
		return strconv.FormatBool(tv)
	case json.Number:
		return tv.String()
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	default:
		return fmt.Sprint(tv)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
