package fetch

import (
	"maps"
	"strings"

	"github.com/kbukum/apiwatch/errors"
	"github.com/kbukum/apiwatch/util"
	"github.com/kbukum/apiwatch/validation"
)

// Normalizer validates configurations and keeps payload and headers
// reference-stable across semantically equal updates.
type Normalizer struct {
	payload any
	headers map[string]string
}

// Normalize validates cfg. On success the returned payload and headers are
// the previously retained values whenever they are deep-equal to the new ones.
func (n *Normalizer) Normalize(cfg Config) (Normalized, error) {
	if cfg.Endpoint == "" {
		return Normalized{}, errors.Config(MsgEndpointRequired)
	}
	if !validation.IsURL(cfg.Endpoint) {
		return Normalized{}, errors.Config(MsgEndpointInvalidURL).WithDetail("endpoint", cfg.Endpoint)
	}
	if cfg.PollInterval < 0 {
		return Normalized{}, errors.Config(MsgPollIntervalNegative)
	}

	method, err := normalizeMethod(cfg.Method)
	if err != nil {
		return Normalized{}, err
	}

	payload, err := util.JSONShape(cfg.Payload)
	if err != nil {
		return Normalized{}, errors.Config(MsgPayloadUnencodable).WithCause(err)
	}
	if _, isObject := payload.(map[string]any); method == MethodGet && payload != nil && !isObject {
		return Normalized{}, errors.Config(MsgPayloadNotObject)
	}
	if util.DeepEqual(payload, n.payload) {
		payload = n.payload
	} else {
		n.payload = payload
	}

	headers := n.headers
	if !maps.Equal(cfg.Headers, n.headers) {
		headers = maps.Clone(cfg.Headers)
		n.headers = headers
	}

	return Normalized{
		Endpoint:     cfg.Endpoint,
		Method:       method,
		PollInterval: cfg.PollInterval,
		Payload:      payload,
		Headers:      headers,
		OnChanged:    cfg.OnChanged,
	}, nil
}

func normalizeMethod(m string) (string, error) {
	if m == "" {
		return MethodGet, nil
	}
	if !validation.IsSupportedMethod(m) {
		return "", errors.Config(MsgInvalidMethod).WithDetail("method", m)
	}
	return strings.ToLower(m), nil
}
