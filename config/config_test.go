package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

const sampleYAML = `
name: apiwatch
environment: staging
logging:
  level: warn
http:
  timeout: 7s
  headers:
    X-Client: apiwatch
watches:
  - name: status
    endpoint: https://api.example.com/status
    poll_interval: 5s
    track_changes: true
  - name: search
    endpoint: https://api.example.com/search
    method: POST
    payload:
      query: go
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadAppConfigFromYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", sampleYAML)

	var cfg AppConfig
	if err := LoadConfig("apiwatch-test", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Name != "apiwatch" || cfg.Environment != "staging" {
		t.Errorf("service = %+v", cfg.ServiceConfig)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q", cfg.Logging.Level)
	}
	if cfg.HTTP.Timeout != 7*time.Second {
		t.Errorf("http.timeout = %v", cfg.HTTP.Timeout)
	}
	if len(cfg.Watches) != 2 {
		t.Fatalf("expected 2 watches, got %d", len(cfg.Watches))
	}
	status := cfg.Watches[0]
	if status.PollInterval != 5*time.Second || !status.TrackChanges {
		t.Errorf("status watch = %+v", status)
	}
	search := cfg.Watches[1]
	if search.Method != "POST" {
		t.Errorf("search method = %q", search.Method)
	}
	if p, ok := search.Payload.(map[string]any); !ok || p["query"] != "go" {
		t.Errorf("search payload = %#v", search.Payload)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", sampleYAML)
	t.Setenv("APIWATCHENV_HTTP_TIMEOUT", "2s")
	t.Setenv("APIWATCHENV_LOGGING_LEVEL", "error")

	var cfg AppConfig
	if err := LoadConfig("apiwatchenv", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTP.Timeout != 2*time.Second {
		t.Errorf("http.timeout = %v, want env override", cfg.HTTP.Timeout)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("logging.level = %q, want env override", cfg.Logging.Level)
	}
	if len(cfg.Watches) != 2 {
		t.Errorf("env overlay dropped watches: %d", len(cfg.Watches))
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", sampleYAML)
	envPath := writeFile(t, dir, ".env", "APIWATCHDOT_ENVIRONMENT=production\n")
	t.Cleanup(func() { os.Unsetenv("APIWATCHDOT_ENVIRONMENT") })

	var cfg AppConfig
	if err := LoadConfig("apiwatchdot", &cfg, WithConfigFile(path), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("environment = %q, want value from .env", cfg.Environment)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg AppConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "watches: [\n")
	var cfg AppConfig
	if err := LoadConfig("apiwatch", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestAppConfigValidate(t *testing.T) {
	base := func() AppConfig {
		cfg := AppConfig{Watches: []WatchConfig{{Name: "a", Endpoint: "https://a.test"}}}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*AppConfig)
		errMsg string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"relative endpoint", func(c *AppConfig) { c.Watches[0].Endpoint = "/status" }, "endpoint"},
		{"bad method", func(c *AppConfig) { c.Watches[0].Method = "PUT" }, "method"},
		{"negative interval", func(c *AppConfig) { c.Watches[0].PollInterval = -time.Second }, "poll_interval"},
		{"duplicate names", func(c *AppConfig) {
			c.Watches = append(c.Watches, WatchConfig{Name: "a", Endpoint: "https://b.test"})
		}, "duplicate name"},
		{"bad timeout", func(c *AppConfig) { c.HTTP.Timeout = -1 }, "config.http"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestAppConfigDefaultsWatchNames(t *testing.T) {
	cfg := AppConfig{Watches: []WatchConfig{{Endpoint: "https://a.test"}, {Endpoint: "https://b.test"}}}
	cfg.ApplyDefaults()
	if cfg.Name != "apiwatch" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Watches[0].Name != "watch-1" || cfg.Watches[1].Name != "watch-2" {
		t.Errorf("watch names = %q, %q", cfg.Watches[0].Name, cfg.Watches[1].Name)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/apiwatch/config.yml": true,
		"./.env":                    true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("apiwatch", LoaderConfig{})
	if files.ConfigFile != "./cmd/apiwatch/config.yml" {
		t.Errorf("expected config file at ./cmd/apiwatch/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected env file at ./.env, got %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("apiwatch", LoaderConfig{ConfigFile: "/etc/apiwatch.yml"})
	if explicit.ConfigFile != "/etc/apiwatch.yml" {
		t.Errorf("explicit path ignored: %q", explicit.ConfigFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestKeyVariants(t *testing.T) {
	got := keyVariants("HTTP_BASE_URL")
	want := []string{"http_base_url", "http.base.url", "http.base_url", "http_base.url"}
	if len(got) != len(want) {
		t.Fatalf("keyVariants = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyVariants[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if single := keyVariants("DEBUG"); len(single) != 1 || single[0] != "debug" {
		t.Errorf("keyVariants(DEBUG) = %v", single)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("X_")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "X_" {
		t.Errorf("options not applied: %+v", lc)
	}
}

func TestLoadConfigBareNumberDurationsAreMilliseconds(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `name: apiwatch
http:
  timeout: 2500
watches:
  - name: status
    endpoint: https://api.example.com/status
    poll_interval: 1000
  - name: slow
    endpoint: https://api.example.com/slow
    poll_interval: 1m
`)

	var cfg AppConfig
	if err := LoadConfig("apiwatch-test", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTP.Timeout != 2500*time.Millisecond {
		t.Errorf("http.timeout = %v, want 2.5s", cfg.HTTP.Timeout)
	}
	if got := cfg.Watches[0].PollInterval; got != time.Second {
		t.Errorf("bare poll_interval = %v, want 1s", got)
	}
	if got := cfg.Watches[1].PollInterval; got != time.Minute {
		t.Errorf("string poll_interval = %v, want 1m", got)
	}
}
