package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable the loader reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
		"MAX_HEADER_BYTES", "GIN_MODE", "LOG_LEVEL", "LOG_PRETTY",
		"APP_ENV", "API_KEY", "API_BASE_PATH", "CORS_ALLOWED_ORIGINS",
		"ENABLE_HSTS", "HSTS_MAX_AGE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Env != EnvProduction || cfg.Development() {
		t.Fatalf("env default: %q", cfg.Env)
	}
	if cfg.APIKey == "" {
		t.Fatal("API key default missing")
	}
	if cfg.APIBasePath != "/" {
		t.Fatalf("base path default: %q", cfg.APIBasePath)
	}
	if cfg.ReadTimeout != 15*time.Second || cfg.IdleTimeout != 60*time.Second {
		t.Fatalf("timeout defaults: %+v", cfg)
	}
	if cfg.OTEL.Enabled {
		t.Fatal("OTel should be off by default")
	}
}

func TestLoad_OverridesAndNormalization(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("API_KEY", "s3cret")
	t.Setenv("API_BASE_PATH", "api/v1/")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example ,")
	t.Setenv("READ_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8081" || cfg.APIKey != "s3cret" {
		t.Fatalf("overrides: %+v", cfg)
	}
	if cfg.Env != EnvDevelopment || !cfg.Development() {
		t.Fatalf("dev alias: %q", cfg.Env)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("warning alias: %q", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("bogus gin mode should normalize: %q", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("base path normalization: %q", cfg.APIBasePath)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != "https://a.example" {
		t.Fatalf("origins: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.ReadTimeout != 2*time.Second {
		t.Fatalf("read timeout: %v", cfg.ReadTimeout)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		key, val, wantErr string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"APP_ENV", "staging", "APP_ENV"},
		{"READ_TIMEOUT", "-1s", "timeouts"},
		{"MAX_HEADER_BYTES", "-5", "MAX_HEADER_BYTES"},
		{"API_KEY", "   ", "API_KEY"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("%s=%q: err = %v", tc.key, tc.val, err)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
