package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(nil), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":5000" {
		t.Errorf("unexpected addr %s", cfg.Server.Addr())
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxBodyBytes != 1<<20 {
		t.Errorf("unexpected body limit: %d", cfg.Server.MaxBodyBytes)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"*"}) {
		t.Errorf("unexpected origins: %v", cfg.CORS.AllowedOrigins)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedMethods, []string{"GET", "POST"}) {
		t.Errorf("unexpected methods: %v", cfg.CORS.AllowedMethods)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedHeaders, []string{"Content-Type"}) {
		t.Errorf("unexpected headers: %v", cfg.CORS.AllowedHeaders)
	}
	if cfg.RateLimits.InvoicePerMinute != 60 {
		t.Errorf("unexpected rate limit: %d", cfg.RateLimits.InvoicePerMinute)
	}
	if cfg.Pricing.RejectNegativePrices {
		t.Errorf("expected negative prices to be allowed by default")
	}
	if cfg.App.Environment != "local" || cfg.App.Version != "dev" {
		t.Errorf("unexpected app config: %+v", cfg.App)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"INVOICE_SERVER_PORT":                   "9090",
		"INVOICE_SERVER_READ_TIMEOUT":           "20s",
		"INVOICE_SERVER_SHUTDOWN_TIMEOUT":       "3s",
		"INVOICE_SERVER_MAX_BODY_BYTES":         "2048",
		"INVOICE_CORS_ALLOWED_ORIGINS":          "https://shop.example.com, https://admin.example.com",
		"INVOICE_CORS_ALLOWED_METHODS":          "post",
		"INVOICE_RATE_LIMIT_INVOICE_PER_MINUTE": "0",
		"INVOICE_PRICING_REJECT_NEGATIVE":       "true",
		"INVOICE_APP_ENVIRONMENT":               " Production ",
		"INVOICE_APP_VERSION":                   "1.4.0",
		"INVOICE_APP_COMMIT":                    "abc123",
		"INVOICE_TRACE_PROJECT_ID":              "evco-prod",
		"PORT":                                  "8080",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("prefixed port must win over PORT, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("unexpected timeouts: %+v", cfg.Server)
	}
	if cfg.Server.MaxBodyBytes != 2048 {
		t.Errorf("unexpected body limit %d", cfg.Server.MaxBodyBytes)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://shop.example.com", "https://admin.example.com"}) {
		t.Errorf("unexpected origins: %v", cfg.CORS.AllowedOrigins)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedMethods, []string{"POST"}) {
		t.Errorf("unexpected methods: %v", cfg.CORS.AllowedMethods)
	}
	if cfg.RateLimits.InvoicePerMinute != 0 {
		t.Errorf("expected limiter disabled, got %d", cfg.RateLimits.InvoicePerMinute)
	}
	if !cfg.Pricing.RejectNegativePrices {
		t.Errorf("expected negative prices to be rejected")
	}
	if cfg.App.Environment != "production" || cfg.App.Commit != "abc123" {
		t.Errorf("unexpected app config: %+v", cfg.App)
	}
	if cfg.Tracing.ProjectID != "evco-prod" {
		t.Errorf("unexpected trace project %q", cfg.Tracing.ProjectID)
	}
}

func TestLoadUsesPlatformPort(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{"PORT": "7070"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected PORT fallback, got %s", cfg.Server.Port)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"INVOICE_SERVER_PORT":                   "http",
		"INVOICE_SERVER_MAX_BODY_BYTES":         "0",
		"INVOICE_CORS_ALLOWED_ORIGINS":          " , ",
		"INVOICE_RATE_LIMIT_INVOICE_PER_MINUTE": "-1",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	want := []string{"Server.Port", "Server.MaxBodyBytes", "CORS.AllowedOrigins", "RateLimits.InvoicePerMinute"}
	if !reflect.DeepEqual(vErr.Fields(), want) {
		t.Fatalf("unexpected fields: %v", vErr.Fields())
	}
}

func TestLoadDecodeError(t *testing.T) {
	_, err := Load(WithEnvMap(map[string]string{"INVOICE_PRICING_REJECT_NEGATIVE": "sometimes"}), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected decode error")
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		t.Fatalf("decode failures are not validation errors: %v", err)
	}
}

func TestLoadWithDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport INVOICE_SERVER_PORT=6060\nINVOICE_APP_VERSION=\"2.0.0\"\nnot a pair\nINVOICE_CORS_ALLOWED_ORIGINS='http://localhost:3000'\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"INVOICE_APP_VERSION": "2.1.0"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "6060" {
		t.Errorf("expected port from .env, got %s", cfg.Server.Port)
	}
	if cfg.App.Version != "2.1.0" {
		t.Errorf("explicit map must override .env, got %s", cfg.App.Version)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("unexpected origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestEnvironmentValuesPrecedence(t *testing.T) {
	t.Setenv("INVOICE_TEST_PRECEDENCE", "system")
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("INVOICE_TEST_PRECEDENCE=dotenv\nINVOICE_TEST_DOTENV_ONLY=1\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	values, err := EnvironmentValues(WithEnvFile(path))
	if err != nil {
		t.Fatalf("EnvironmentValues returned error: %v", err)
	}
	if values["INVOICE_TEST_PRECEDENCE"] != "system" {
		t.Errorf("system env must override .env, got %q", values["INVOICE_TEST_PRECEDENCE"])
	}
	if values["INVOICE_TEST_DOTENV_ONLY"] != "1" {
		t.Errorf("expected .env value to be kept")
	}

	values, err = EnvironmentValues(WithEnvFile(path), WithEnvMap(map[string]string{"INVOICE_TEST_PRECEDENCE": "explicit"}))
	if err != nil {
		t.Fatalf("EnvironmentValues returned error: %v", err)
	}
	if values["INVOICE_TEST_PRECEDENCE"] != "explicit" {
		t.Errorf("explicit map must win, got %q", values["INVOICE_TEST_PRECEDENCE"])
	}
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	values, err := EnvironmentValues(WithEnvFile(filepath.Join(t.TempDir(), "absent.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("EnvironmentValues returned error: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values, got %v", values)
	}
}
