package mockapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/apiwatch/component"
	"github.com/kbukum/apiwatch/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Recorded is a request as received by the mock.
type Recorded struct {
	Method   string
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

// Server is a scriptable HTTP API backed by a gin engine.
type Server struct {
	engine *gin.Engine

	mu       sync.Mutex
	ts       *httptest.Server
	routes   map[string]*Route
	requests []Recorded
	notify   chan struct{}
}

var (
	_ component.Component    = (*Server)(nil)
	_ testutil.TestComponent = (*Server)(nil)
)

// New creates a mock API. It serves nothing until Start.
func New() *Server {
	s := &Server{
		routes: make(map[string]*Route),
		notify: make(chan struct{}),
	}
	s.engine = gin.New()
	s.engine.Any("/*path", s.handle)
	return s
}

// On returns the route for method and path, creating it on first use.
// An unscripted route replies 200 with an empty JSON object.
func (s *Server) On(method, path string) *Route {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := routeKey(method, path)
	r, ok := s.routes[key]
	if !ok {
		r = &Route{status: http.StatusOK, body: map[string]any{}}
		s.routes[key] = r
	}
	return r
}

// URL returns the base URL, or "" before Start.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL
}

// Endpoint returns the absolute URL of path.
func (s *Server) Endpoint(path string) string {
	return s.URL() + path
}

// Requests returns every request received so far, in arrival order.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if strings.EqualFold(r.Method, method) && r.Path == path {
			n++
		}
	}
	return n
}

// WaitForRequests blocks until at least n requests have arrived or timeout
// elapses, and returns what has arrived.
func (s *Server) WaitForRequests(n int, timeout time.Duration) []Recorded {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		s.mu.Lock()
		if len(s.requests) >= n {
			out := make([]Recorded, len(s.requests))
			copy(out, s.requests)
			s.mu.Unlock()
			return out
		}
		notify := s.notify
		s.mu.Unlock()

		select {
		case <-notify:
		case <-deadline.C:
			return s.Requests()
		}
	}
}

func (s *Server) handle(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	rec := Recorded{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Query:    c.Request.URL.Query(),
		Header:   c.Request.Header.Clone(),
		Body:     body,
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	route := s.routes[routeKey(rec.Method, rec.Path)]
	close(s.notify)
	s.notify = make(chan struct{})
	s.mu.Unlock()

	if route == nil {
		c.String(http.StatusNotFound, "no mock for %s %s", rec.Method, rec.Path)
		return
	}

	rep, delay, gate := route.next(rec)
	if !wait(c.Request.Context(), delay, gate) {
		c.Abort()
		return
	}
	rep.write(c)
}

func wait(ctx context.Context, delay time.Duration, gate <-chan struct{}) bool {
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return false
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// Name implements component.Component.
func (s *Server) Name() string { return "mockapi" }

// Start serves the engine on a loopback port.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		return fmt.Errorf("mockapi already started")
	}
	s.ts = httptest.NewServer(s.engine)
	return nil
}

// Stop drops open connections, which also unblocks held requests.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	ts := s.ts
	s.ts = nil
	s.mu.Unlock()

	if ts != nil {
		ts.CloseClientConnections()
		ts.Close()
	}
	return nil
}

// Health implements component.Component.
func (s *Server) Health(ctx context.Context) component.Health {
	if s.URL() == "" {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// Reset forgets all routes and recorded requests.
func (s *Server) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.routes {
		r.Release()
	}
	s.routes = make(map[string]*Route)
	s.requests = nil
	return nil
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
