// Package testutil ties test components to the component lifecycle.
//
// A TestComponent is a component.Component that can also be reset between
// cases. T(t).Setup starts one and registers its Stop with t.Cleanup:
//
//	func TestWatch(t *testing.T) {
//	    api := mockapi.New()
//	    testutil.T(t).Setup(api)
//	    api.On("GET", "/status").Reply(200, map[string]any{"ok": true})
//	}
//
// Subpackage mockapi provides a scriptable HTTP API for exercising fetch
// hooks against real network exchanges.
package testutil
