package fetch

import (
	"maps"
	"net/http"
	"time"

	"github.com/kbukum/apiwatch/httpclient"
	"github.com/kbukum/apiwatch/util"
)

// Supported methods after case folding.
const (
	MethodGet  = "get"
	MethodPost = "post"
)

// Configuration error messages, reported verbatim through State.Error.
const (
	MsgEndpointRequired     = "endpoint required"
	MsgEndpointNotString    = "endpoint not a string"
	MsgEndpointInvalidURL   = "endpoint not a valid URL"
	MsgPollIntervalNotNum   = "invalid poll interval, must be a number"
	MsgPollIntervalNegative = "negative poll interval not allowed"
	MsgPollIntervalTooLarge = "poll interval out of range"
	MsgInvalidMethod        = "invalid method, must be GET or POST"
	MsgChangedNotFunc       = "changed must be a function"
	MsgHeadersNotStrings    = "headers must be a map of strings"
	MsgPayloadUnencodable   = "payload not serializable"
	MsgPayloadNotObject     = "payload must be an object for GET"
)

// ChangeFunc receives each payload that differs from the last accepted one.
// The value is shared with State.Data and must be treated as read-only.
type ChangeFunc func(data any)

// Config is the caller-supplied hook configuration.
type Config struct {
	// Endpoint is the absolute URL to fetch. Required.
	Endpoint string
	// PollInterval re-fetches this long after each settlement. 0 disables polling.
	PollInterval time.Duration
	// Payload is sent as query parameters for GET and as a JSON body for POST.
	Payload any
	// Method is GET or POST in any letter case. Defaults to GET.
	Method string
	// Headers are attached to every exchange verbatim.
	Headers map[string]string
	// OnChanged enables change tracking when set.
	OnChanged ChangeFunc
}

// Normalized is a validated configuration snapshot.
type Normalized struct {
	Endpoint     string
	Method       string
	PollInterval time.Duration
	Payload      any
	Headers      map[string]string
	OnChanged    ChangeFunc
}

// Equal reports whether o would issue the same exchange and poll the same
// way. The callback is not compared.
func (n Normalized) Equal(o Normalized) bool {
	return n.Endpoint == o.Endpoint &&
		n.Method == o.Method &&
		n.PollInterval == o.PollInterval &&
		maps.Equal(n.Headers, o.Headers) &&
		util.DeepEqual(n.Payload, o.Payload)
}

// Tracking reports whether change detection is on.
func (n Normalized) Tracking() bool {
	return n.OnChanged != nil
}

// Request builds the transport request for one exchange.
func (n Normalized) Request() httpclient.Request {
	req := httpclient.Request{
		Method:  http.MethodGet,
		Path:    n.Endpoint,
		Headers: n.Headers,
	}
	if n.Method == MethodPost {
		req.Method = http.MethodPost
		req.Body = n.Payload
		req.JSON = true
	} else {
		req.Params = n.Payload
	}
	return req
}
