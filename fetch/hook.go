package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apiwatch/errors"
	"github.com/kbukum/apiwatch/httpclient"
	"github.com/kbukum/apiwatch/logger"
	"github.com/kbukum/apiwatch/observability"
	"github.com/kbukum/apiwatch/util"
)

// ErrClosed is returned by Update on a detached hook.
var ErrClosed = errors.New(errors.ErrCodeCanceled, "hook closed")

// Exchanger performs one request/response exchange. *httpclient.Client
// satisfies it.
type Exchanger interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

// Hook owns one logical request slot. All state transitions run on a single
// event-loop goroutine; public methods hand commands to it.
type Hook struct {
	id      string
	ex      Exchanger
	log     *logger.Logger
	metrics *observability.FetchMetrics

	updates   chan updateCmd
	refreshes chan chan struct{}
	ticks     chan uint64
	results   chan result
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.RWMutex
	state State
	subs  broadcaster

	dispatch *dispatcher

	// Owned by the event loop.
	ctx        context.Context
	cancel     context.CancelFunc
	normalizer Normalizer
	detector   ChangeDetector
	current    *Normalized
	invalid    *errors.AppError
	attempt    *attempt
	timer      *time.Timer
	timerGen   uint64
	generation uint64
}

type updateCmd struct {
	cfg      Config
	rejected *errors.AppError
	reply    chan error
}

type result struct {
	gen  uint64
	resp *httpclient.Response
	err  error
}

type attempt struct {
	gen      uint64
	cancel   context.CancelFunc
	ctx      context.Context
	span     trace.Span
	endpoint string
	started  time.Time
}

// New creates an attached hook with no configuration. Nothing is fetched
// until the first Update.
func New(ex Exchanger, opts ...Option) *Hook {
	h := &Hook{
		id:        uuid.NewString(),
		ex:        ex,
		log:       logger.NewNop(),
		updates:   make(chan updateCmd),
		refreshes: make(chan chan struct{}),
		ticks:     make(chan uint64),
		results:   make(chan result),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		state:     State{Data: map[string]any{}},
		dispatch:  newDispatcher(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("fetch").ForHook(h.id)
	h.ctx, h.cancel = context.WithCancel(context.Background())

	go h.run()
	return h
}

// Use creates a hook and applies cfg. The hook is returned even when cfg is
// rejected; its state then carries the validation message.
func Use(ex Exchanger, cfg Config, opts ...Option) (*Hook, error) {
	h := New(ex, opts...)
	return h, h.Update(cfg)
}

// UsePositional is Use with the configuration spelled out.
func UsePositional(ex Exchanger, endpoint string, pollInterval time.Duration, payload any, method string, opts ...Option) (*Hook, error) {
	return Use(ex, Config{
		Endpoint:     endpoint,
		PollInterval: pollInterval,
		Payload:      payload,
		Method:       method,
	}, opts...)
}

// ID returns the identifier used in logs and spans.
func (h *Hook) ID() string {
	return h.id
}

// Update applies a new configuration. A configuration equal to the last
// accepted one only refreshes the callback reference. Validation failures put
// the hook into an error state and are returned as *errors.AppError.
func (h *Hook) Update(cfg Config) error {
	reply := make(chan error, 1)
	select {
	case h.updates <- updateCmd{cfg: cfg, reply: reply}:
	case <-h.done:
		return ErrClosed
	}
	return <-reply
}

// UpdateRaw parses a dynamically typed configuration and applies it.
// Parse failures are reported through state like any validation failure.
func (h *Hook) UpdateRaw(raw map[string]any) error {
	cfg, err := ParseConfig(raw)
	if err != nil {
		return h.reject(err)
	}
	return h.Update(cfg)
}

// Refresh re-fetches immediately, superseding any in-flight exchange.
func (h *Hook) Refresh() {
	reply := make(chan struct{})
	select {
	case h.refreshes <- reply:
		<-reply
	case <-h.done:
	}
}

// State returns the current snapshot.
func (h *Hook) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Subscribe returns a channel that receives the current snapshot followed by
// every later one. An unread snapshot is replaced by a newer one. The channel
// is closed by the returned func or by Close.
func (h *Hook) Subscribe() (<-chan State, func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.subs.subscribe(h.state)
}

// Close detaches the hook: the in-flight exchange is cancelled, the poll
// timer disarmed and pending callbacks dropped. Safe to call more than once
// and from within a callback.
func (h *Hook) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
	<-h.done
}

func (h *Hook) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.teardown()
			return
		default:
		}

		select {
		case <-h.quit:
			h.teardown()
			return
		case cmd := <-h.updates:
			if cmd.rejected != nil {
				h.enterInvalid(cmd.rejected)
				cmd.reply <- cmd.rejected
				continue
			}
			cmd.reply <- h.handleUpdate(cmd.cfg)
		case reply := <-h.refreshes:
			h.handleRefresh()
			close(reply)
		case gen := <-h.ticks:
			h.handleTick(gen)
		case res := <-h.results:
			h.handleResult(res)
		}
	}
}

// reject routes a parse error through the loop so it lands in state.
func (h *Hook) reject(err error) error {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Config(err.Error())
	}
	reply := make(chan error, 1)
	select {
	case h.updates <- updateCmd{rejected: appErr, reply: reply}:
	case <-h.done:
		return ErrClosed
	}
	return <-reply
}

func (h *Hook) handleUpdate(cfg Config) error {
	n, err := h.normalizer.Normalize(cfg)
	if err != nil {
		appErr, _ := errors.AsAppError(err)
		h.enterInvalid(appErr)
		return appErr
	}

	wasInvalid := h.invalid != nil
	h.invalid = nil
	if !wasInvalid && h.current != nil && h.current.Equal(n) {
		h.current.OnChanged = n.OnChanged
		return nil
	}

	h.current = &n
	h.trigger("update")
	return nil
}

func (h *Hook) enterInvalid(err *errors.AppError) {
	h.stopAttempt(true)
	h.disarm()
	h.invalid = err
	h.log.Warn("configuration rejected", logger.Fields(logger.FieldError, err.Message))
	h.setState(func(s *State) {
		s.Loading = false
		s.Error = err.Message
	})
}

func (h *Hook) handleRefresh() {
	if h.invalid != nil {
		h.enterInvalid(h.invalid)
		return
	}
	if h.current == nil {
		return
	}
	h.trigger("refresh")
}

func (h *Hook) handleTick(gen uint64) {
	if h.timer == nil || gen != h.timerGen {
		return
	}
	h.timer = nil
	h.trigger("poll")
}

// trigger supersedes the current attempt and issues a new exchange.
func (h *Hook) trigger(reason string) {
	h.stopAttempt(true)
	h.disarm()

	h.generation++
	gen := h.generation
	cfg := h.current

	ctx, cancel := context.WithCancel(h.ctx)
	ctx, span := observability.StartSpan(ctx, observability.SpanFetchAttempt,
		trace.WithAttributes(
			attribute.String(observability.AttrHookID, h.id),
			attribute.String(observability.AttrEndpoint, cfg.Endpoint),
			attribute.String(observability.AttrMethod, cfg.Method),
			attribute.Int64(observability.AttrGeneration, int64(gen)),
		),
	)
	h.attempt = &attempt{
		gen:      gen,
		cancel:   cancel,
		ctx:      ctx,
		span:     span,
		endpoint: cfg.Endpoint,
		started:  time.Now(),
	}
	h.metrics.RecordAttempt(ctx, cfg.Endpoint, cfg.Method)

	h.setState(func(s *State) {
		s.Loading = true
		s.Generation = gen
	})
	if h.log.DebugEnabled() {
		h.log.Debug("fetch triggered", logger.Fields(
			"reason", reason,
			logger.FieldEndpoint, cfg.Endpoint,
			logger.FieldMethod, cfg.Method,
			logger.FieldGeneration, gen,
		))
	}

	req := cfg.Request()
	go func() {
		resp, err := h.ex.Do(ctx, req)
		select {
		case h.results <- result{gen: gen, resp: resp, err: err}:
		case <-h.done:
		}
	}()
}

func (h *Hook) handleResult(res result) {
	a := h.attempt
	if a == nil || res.gen != a.gen {
		return
	}
	h.attempt = nil
	a.cancel()
	elapsed := time.Since(a.started)

	if isCancellation(res.err) {
		h.finishAttempt(a, observability.OutcomeCancel, elapsed)
		return
	}

	cfg := h.current
	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldEndpoint, cfg.Endpoint,
		logger.FieldGeneration, res.gen,
	), elapsed)

	if res.err != nil {
		msg := httpclient.Message(res.err)
		a.span.RecordError(res.err)
		a.span.SetStatus(codes.Error, msg)
		h.finishAttempt(a, observability.OutcomeError, elapsed)
		fields[logger.FieldError] = msg
		fields["error_kind"] = httpclient.Kind(res.err)
		h.log.Warn("fetch failed", fields)
		h.setState(func(s *State) {
			s.Error = msg
			s.Loading = false
		})
	} else {
		body := util.DecodeBody(res.resp.Body)
		tracking := cfg.Tracking()
		adopt, changed := h.detector.Apply(body, tracking)
		h.finishAttempt(a, observability.OutcomeOK, elapsed)
		fields[logger.FieldStatus] = res.resp.StatusCode
		fields["changed"] = changed
		h.log.Debug("fetch settled", fields)
		h.setState(func(s *State) {
			s.Error = ""
			if adopt {
				s.Data = body
			}
			s.Changed = changed
			s.Loading = false
		})
		if changed {
			h.metrics.RecordChange(a.ctx, cfg.Endpoint)
			cb := cfg.OnChanged
			h.dispatch.enqueue(func() { cb(body) })
		}
	}

	if cfg.PollInterval > 0 {
		h.arm(cfg.PollInterval)
	}
}

func (h *Hook) finishAttempt(a *attempt, outcome string, elapsed time.Duration) {
	a.span.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
	a.span.End()
	h.metrics.RecordSettled(context.WithoutCancel(a.ctx), a.endpoint, outcome, elapsed)
}

// stopAttempt cancels the in-flight exchange, if any. Its result will be
// discarded by generation.
func (h *Hook) stopAttempt(superseded bool) {
	a := h.attempt
	if a == nil {
		return
	}
	h.attempt = nil
	a.cancel()
	if superseded {
		h.metrics.RecordSuperseded(context.WithoutCancel(a.ctx), a.endpoint)
	}
	h.finishAttempt(a, observability.OutcomeStale, time.Since(a.started))
}

func (h *Hook) arm(d time.Duration) {
	h.timerGen++
	gen := h.timerGen
	h.timer = time.AfterFunc(d, func() {
		select {
		case h.ticks <- gen:
		case <-h.done:
		}
	})
}

func (h *Hook) disarm() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.timerGen++
}

func (h *Hook) teardown() {
	h.stopAttempt(false)
	h.disarm()
	h.cancel()
	h.dispatch.close()
	h.subs.close()
	h.log.Debug("hook detached")
}

func (h *Hook) setState(mutate func(*State)) {
	h.mu.Lock()
	mutate(&h.state)
	s := h.state
	h.mu.Unlock()
	h.subs.publish(s)
}

func isCancellation(err error) bool {
	return err != nil && (httpclient.IsCanceled(err) || errors.Is(err, context.Canceled))
}
