// Package fetch implements a polling data-fetch hook: an object that owns
// one logical request slot against one endpoint and exposes its lifecycle
// as observable state.
//
// A Hook is driven explicitly. Update supplies configuration, Refresh
// forces a re-fetch, a poll timer re-triggers after each settlement, and
// Close detaches. Every trigger cancels the attempt it supersedes, so a
// stale response can never overwrite fresher state.
//
//	client, _ := httpclient.New(httpclient.Config{})
//	hook, err := fetch.Use(client, fetch.Config{
//	    Endpoint:     "https://api.example.com/status",
//	    PollInterval: 5 * time.Second,
//	    OnChanged:    func(data any) { fmt.Println("changed:", data) },
//	})
//	defer hook.Close()
//
//	updates, cancel := hook.Subscribe()
//	defer cancel()
//	for s := range updates {
//	    fmt.Println(s.Loading, s.Error, s.Data)
//	}
//
// With OnChanged set the hook tracks changes: a response deep-equal to the
// last accepted one leaves Data untouched and reports Changed=false.
// Without it every response is adopted and Changed is unused.
package fetch
