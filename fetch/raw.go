package fetch

import (
	"encoding/json"
	"math"
	"time"

	"github.com/kbukum/apiwatch/errors"
)

// ParseConfig converts a dynamically typed configuration object, as decoded
// from JSON or YAML, into a Config. pollInterval is in milliseconds.
//
// Recognised keys: endpoint, pollInterval (or poll_interval), payload,
// method, headers, changed.
func ParseConfig(raw map[string]any) (Config, error) {
	var cfg Config

	endpoint, ok := raw["endpoint"]
	if !ok || endpoint == nil {
		return Config{}, errors.Config(MsgEndpointRequired)
	}
	s, ok := endpoint.(string)
	if !ok {
		return Config{}, errors.Config(MsgEndpointNotString)
	}
	cfg.Endpoint = s

	interval, ok := raw["pollInterval"]
	if !ok {
		interval, ok = raw["poll_interval"]
	}
	if ok && interval != nil {
		ms, isNum := toFloat(interval)
		if !isNum {
			return Config{}, errors.Config(MsgPollIntervalNotNum)
		}
		if ms < 0 {
			return Config{}, errors.Config(MsgPollIntervalNegative)
		}
		if ms > maxIntervalMillis {
			return Config{}, errors.Config(MsgPollIntervalTooLarge)
		}
		cfg.PollInterval = time.Duration(ms * float64(time.Millisecond))
	}

	if m, ok := raw["method"]; ok && m != nil {
		ms, isStr := m.(string)
		if !isStr {
			return Config{}, errors.Config(MsgInvalidMethod)
		}
		cfg.Method = ms
	}

	if h, ok := raw["headers"]; ok && h != nil {
		headers, err := toStringMap(h)
		if err != nil {
			return Config{}, err
		}
		cfg.Headers = headers
	}

	if c, ok := raw["changed"]; ok && c != nil {
		switch fn := c.(type) {
		case ChangeFunc:
			cfg.OnChanged = fn
		case func(any):
			cfg.OnChanged = fn
		default:
			return Config{}, errors.Config(MsgChangedNotFunc)
		}
	}

	cfg.Payload = raw["payload"]
	return cfg, nil
}

// maxIntervalMillis is the largest interval a time.Duration can hold.
const maxIntervalMillis = float64(math.MaxInt64 / int64(time.Millisecond))

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case time.Duration:
		f = float64(n) / float64(time.Millisecond)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toStringMap(v any) (map[string]string, error) {
	switch m := v.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, errors.Config(MsgHeadersNotStrings).WithDetail("header", k)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, errors.Config(MsgHeadersNotStrings)
	}
}
