package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/apiwatch/component"
	"github.com/kbukum/apiwatch/config"
	"github.com/kbukum/apiwatch/fetch"
	"github.com/kbukum/apiwatch/httpclient"
	"github.com/kbukum/apiwatch/logger"
	"github.com/kbukum/apiwatch/observability"
)

const shutdownTimeout = 15 * time.Second

type app struct {
	cfg      *config.AppConfig
	log      *logger.Logger
	registry *component.Registry
	watches  []*fetch.Component
}

func newApp(cfg *config.AppConfig) *app {
	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)
	return &app{
		cfg:      cfg,
		log:      log,
		registry: component.NewRegistry(log),
	}
}

// Run starts every watch and logs its states until ctx ends, or until each
// watch has settled once when once is set.
func (a *app) Run(ctx context.Context, once bool) error {
	shutdown, err := observability.Setup(ctx, a.cfg.Name, a.cfg.Version, a.cfg.Environment, a.cfg.Observability)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			a.log.Warn("Telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	if err := a.build(); err != nil {
		return err
	}

	if err := a.registry.StartAll(ctx); err != nil {
		a.stop()
		return err
	}
	for _, d := range a.registry.Summary() {
		a.log.Info("Watching", logger.Fields(logger.FieldWatch, d.Name, "details", d.Details))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range a.watches {
		g.Go(func() error { return a.report(gctx, w, once) })
	}
	runErr := g.Wait()
	return errors.Join(runErr, a.stop())
}

func (a *app) build() error {
	client, err := httpclient.New(a.cfg.HTTP)
	if err != nil {
		return fmt.Errorf("http client: %w", err)
	}
	metrics, err := observability.WatchMeter(a.cfg.Name)
	if err != nil {
		return err
	}

	for _, wc := range a.cfg.Watches {
		log := a.log.ForWatch(wc.Name)
		cfg := fetch.Config{
			Endpoint:     wc.Endpoint,
			PollInterval: wc.PollInterval,
			Payload:      wc.Payload,
			Method:       wc.Method,
			Headers:      wc.Headers,
		}
		if wc.TrackChanges {
			cfg.OnChanged = func(data any) {
				log.Info("Change detected", logger.Fields("data", data))
			}
		}
		w := fetch.NewComponent(wc.Name, client, cfg, fetch.WithLogger(log), fetch.WithMetrics(metrics))
		if err := a.registry.Register(w); err != nil {
			return err
		}
		a.watches = append(a.watches, w)
	}
	return nil
}

// report logs each settled state of one watch.
func (a *app) report(ctx context.Context, w *fetch.Component, once bool) error {
	h := w.Hook()
	if h == nil {
		return nil
	}
	tracking := a.tracking(w.Name())
	log := a.log.ForWatch(w.Name())

	states, unsubscribe := h.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-states:
			if !ok {
				return nil
			}
			if s.Loading || s.Generation == 0 {
				continue
			}
			switch {
			case s.Error != "":
				log.Warn("Fetch failed", logger.Fields(logger.FieldError, s.Error, logger.FieldGeneration, s.Generation))
			case tracking:
				log.Debug("Fetch settled", logger.Fields("changed", s.Changed, logger.FieldGeneration, s.Generation))
			default:
				log.Info("Response", logger.Fields("data", s.Data, logger.FieldGeneration, s.Generation))
			}
			if once {
				if s.Error != "" {
					return fmt.Errorf("watch %s: %s", w.Name(), s.Error)
				}
				return nil
			}
		}
	}
}

func (a *app) tracking(name string) bool {
	for _, wc := range a.cfg.Watches {
		if wc.Name == name {
			return wc.TrackChanges
		}
	}
	return false
}

func (a *app) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.registry.StopAll(ctx)
}
