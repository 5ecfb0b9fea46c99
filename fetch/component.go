package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/apiwatch/component"
)

// Component runs one hook under a component.Registry.
type Component struct {
	name string
	ex   Exchanger
	cfg  Config
	opts []Option

	mu   sync.RWMutex
	hook *Hook
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component that watches cfg once started.
func NewComponent(name string, ex Exchanger, cfg Config, opts ...Option) *Component {
	return &Component{name: name, ex: ex, cfg: cfg, opts: opts}
}

// Name implements component.Component.
func (c *Component) Name() string { return c.name }

// Start creates the hook. A rejected configuration fails the start.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		return nil
	}
	h, err := Use(c.ex, c.cfg, c.opts...)
	if err != nil {
		h.Close()
		return fmt.Errorf("watch %s: %w", c.name, err)
	}
	c.hook = h
	return nil
}

// Stop closes the hook.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	h := c.hook
	c.hook = nil
	c.mu.Unlock()

	if h != nil {
		h.Close()
	}
	return nil
}

// Hook returns the running hook, or nil before Start.
func (c *Component) Hook() *Hook {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hook
}

// Health reports unhealthy while the last exchange failed and degraded
// while the first one is still outstanding.
func (c *Component) Health(ctx context.Context) component.Health {
	h := c.Hook()
	if h == nil {
		return component.Health{Name: c.name, Status: component.StatusUnhealthy, Message: "not started"}
	}
	s := h.State()
	switch {
	case s.Error != "":
		return component.Health{Name: c.name, Status: component.StatusUnhealthy, Message: s.Error}
	case s.Loading && s.Generation <= 1:
		return component.Health{Name: c.name, Status: component.StatusDegraded, Message: "awaiting first response"}
	default:
		return component.Health{Name: c.name, Status: component.StatusHealthy}
	}
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	method := c.cfg.Method
	if method == "" {
		method = MethodGet
	}
	details := strings.ToUpper(method) + " " + c.cfg.Endpoint
	if c.cfg.PollInterval > 0 {
		details += " every " + c.cfg.PollInterval.String()
	}
	if c.cfg.OnChanged != nil {
		details += " (tracking)"
	}
	return component.Description{Name: c.name, Type: "watch", Details: details}
}
