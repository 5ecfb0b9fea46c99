package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/apiwatch/config"
	"github.com/kbukum/apiwatch/version"
)

const serviceName = "apiwatch"

// Options are the command line flags.
type Options struct {
	Config   string            `short:"c" long:"config" description:"config file path"`
	Env      string            `short:"e" long:"env" description:".env file path"`
	Endpoint string            `short:"u" long:"endpoint" description:"watch this endpoint instead of the configured watches"`
	Interval time.Duration     `short:"i" long:"interval" description:"poll interval for --endpoint, 0 fetches once"`
	Method   string            `short:"m" long:"method" description:"HTTP method for --endpoint (GET or POST)"`
	Payload  string            `short:"p" long:"payload" description:"JSON payload for --endpoint"`
	Headers  map[string]string `short:"H" long:"header" description:"request header for --endpoint as name:value"`
	Track    bool              `short:"t" long:"track" description:"log only responses that changed"`
	Once     bool              `long:"once" description:"exit after every watch has settled once"`
	Version  bool              `short:"v" long:"version" description:"print version and exit"`
}

func buildInfo() string {
	return version.Get().String()
}

// loadConfig reads the config file and applies the command line on top.
func loadConfig(opts *Options) (*config.AppConfig, error) {
	var loaderOpts []config.LoaderOption
	if opts.Config != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.Config))
	}
	if opts.Env != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.Env))
	}

	cfg := &config.AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, loaderOpts...); err != nil {
		return nil, err
	}

	if opts.Endpoint != "" {
		w, err := opts.watch()
		if err != nil {
			return nil, err
		}
		cfg.Watches = []config.WatchConfig{w}
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	if len(cfg.Watches) == 0 {
		return nil, fmt.Errorf("nothing to watch: pass --endpoint or configure watches")
	}
	return cfg, nil
}

func (o *Options) watch() (config.WatchConfig, error) {
	w := config.WatchConfig{
		Name:         "cli",
		Endpoint:     o.Endpoint,
		PollInterval: o.Interval,
		Method:       o.Method,
		Headers:      o.Headers,
		TrackChanges: o.Track,
	}
	if o.Payload != "" {
		if err := json.Unmarshal([]byte(o.Payload), &w.Payload); err != nil {
			return w, fmt.Errorf("--payload: %w", err)
		}
	}
	return w, nil
}
