// Package httpclient is the transport used by apiwatch hooks: a small HTTP
// client that sends one exchange per call, encodes nested query parameters
// and JSON bodies, and classifies failures so callers can tell a cancelled
// request from a genuine one.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/search",
//	    Params: map[string]any{"query": "hello"},
//	})
//
// Status failures carry the message "Request failed with status code N".
// Use IsCanceled to recognise a request whose context was cancelled.
package httpclient
