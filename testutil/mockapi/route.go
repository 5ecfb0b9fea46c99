package mockapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Route scripts the responses for one method and path.
type Route struct {
	mu     sync.Mutex
	status int
	body   any
	once   []reply
	fn     func(Recorded) (int, any)
	delay  time.Duration
	gate   chan struct{}
}

type reply struct {
	status int
	body   any
}

// Reply sets the default response. A string body is sent as text/plain,
// []byte as-is, nil as an empty body and anything else as JSON.
func (r *Route) Reply(status int, body any) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status, r.body, r.fn = status, body, nil
	return r
}

// ReplyOnce queues a response used by exactly one request before the
// default applies. Queued responses are used in order.
func (r *Route) ReplyOnce(status int, body any) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.once = append(r.once, reply{status: status, body: body})
	return r
}

// ReplyFunc computes the default response from the request.
func (r *Route) ReplyFunc(fn func(req Recorded) (int, any)) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fn = fn
	return r
}

// Delay holds every response for d. The wait ends early if the client
// goes away.
func (r *Route) Delay(d time.Duration) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = d
	return r
}

// Hold blocks responses until Release.
func (r *Route) Hold() *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gate == nil {
		r.gate = make(chan struct{})
	}
	return r
}

// Release lets held responses through.
func (r *Route) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gate != nil {
		close(r.gate)
		r.gate = nil
	}
}

func (r *Route) next(req Recorded) (reply, time.Duration, <-chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rep reply
	switch {
	case len(r.once) > 0:
		rep = r.once[0]
		r.once = r.once[1:]
	case r.fn != nil:
		rep.status, rep.body = r.fn(req)
	default:
		rep = reply{status: r.status, body: r.body}
	}
	var gate <-chan struct{}
	if r.gate != nil {
		gate = r.gate
	}
	return rep, r.delay, gate
}

func (rep reply) write(c *gin.Context) {
	switch b := rep.body.(type) {
	case nil:
		c.Status(rep.status)
	case string:
		c.Data(rep.status, "text/plain; charset=utf-8", []byte(b))
	case []byte:
		c.Data(rep.status, "application/octet-stream", b)
	default:
		c.JSON(rep.status, b)
	}
}

// StatusText is a convenience body for error replies.
func StatusText(code int) map[string]any {
	return map[string]any{"error": http.StatusText(code)}
}
