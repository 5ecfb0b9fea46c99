// Package mockapi is a scriptable HTTP API for tests.
//
//	api := mockapi.New()
//	testutil.T(t).Setup(api)
//	api.On("GET", "/items").Reply(200, []any{"a", "b"})
//	api.On("POST", "/slow").Delay(time.Second).Reply(503, nil)
//
// Every request is recorded and available through Requests, whether or
// not a route matched it. Unmatched requests get 404.
package mockapi
