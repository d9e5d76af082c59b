package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	defaultEnvFile = ".env"
	envPrefix      = "INVOICE_"
	// platformPortKey is the un-prefixed port variable set by most container platforms.
	platformPortKey = "PORT"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	App        AppConfig       `envPrefix:"APP_"`
	Server     ServerConfig    `envPrefix:"SERVER_"`
	CORS       CORSConfig      `envPrefix:"CORS_"`
	RateLimits RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Pricing    PricingConfig   `envPrefix:"PRICING_"`
	Tracing    TracingConfig   `envPrefix:"TRACE_"`
}

// AppConfig describes the running build.
type AppConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"local"`
	Version     string `env:"VERSION" envDefault:"dev"`
	Commit      string `env:"COMMIT"`
	LogLevel    string `env:"LOG_LEVEL"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"5000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// CORSConfig controls cross-origin access to the invoice endpoints.
type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type"`
	MaxAge         int      `env:"MAX_AGE" envDefault:"300"`
}

// RateLimitConfig controls request throttling. Zero disables the limiter.
type RateLimitConfig struct {
	InvoicePerMinute int `env:"INVOICE_PER_MINUTE" envDefault:"60"`
}

// PricingConfig holds boundary policy for submitted prices.
type PricingConfig struct {
	RejectNegativePrices bool `env:"REJECT_NEGATIVE" envDefault:"false"`
}

// TracingConfig links request logs to Cloud Trace when a project is set.
type TracingConfig struct {
	ProjectID string `env:"PROJECT_ID"`
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// EnvironmentValues returns the effective key/value environment map after applying the same precedence
// rules as Load (dotenv < OS env < explicit env map).
func EnvironmentValues(opts ...Option) (map[string]string, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	merge := func(source map[string]string) {
		for key, value := range source {
			values[key] = value
		}
	}

	merge(dotEnvValues)
	if options.useSystemEnv {
		system := make(map[string]string)
		for _, entry := range os.Environ() {
			key, value, ok := strings.Cut(entry, "=")
			if !ok || strings.TrimSpace(key) == "" {
				continue
			}
			system[strings.TrimSpace(key)] = value
		}
		merge(system)
	}
	merge(options.envMap)

	return values, nil
}

// WithEnvFile overrides the .env file path used for local overrides. An empty path skips it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration from defaults, .env overrides and
// environment variables. Keys carry the INVOICE_ prefix, e.g. INVOICE_SERVER_PORT.
func Load(opts ...Option) (Config, error) {
	values, err := EnvironmentValues(opts...)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{
		Environment: values,
		Prefix:      envPrefix,
	}); err != nil {
		return Config{}, fmt.Errorf("config: decode environment: %w", err)
	}

	if _, ok := values[envPrefix+"SERVER_PORT"]; !ok {
		if port := strings.TrimSpace(values[platformPortKey]); port != "" {
			cfg.Server.Port = port
		}
	}
	cfg.CORS.AllowedOrigins = compact(cfg.CORS.AllowedOrigins)
	cfg.CORS.AllowedMethods = upper(compact(cfg.CORS.AllowedMethods))
	cfg.CORS.AllowedHeaders = compact(cfg.CORS.AllowedHeaders)
	cfg.App.Environment = strings.ToLower(strings.TrimSpace(cfg.App.Environment))

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

func validateConfig(cfg Config) error {
	var invalid []string

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		invalid = append(invalid, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		invalid = append(invalid, "Server.WriteTimeout")
	}
	if cfg.Server.IdleTimeout <= 0 {
		invalid = append(invalid, "Server.IdleTimeout")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		invalid = append(invalid, "Server.ShutdownTimeout")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		invalid = append(invalid, "Server.MaxBodyBytes")
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		invalid = append(invalid, "CORS.AllowedOrigins")
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		invalid = append(invalid, "CORS.AllowedMethods")
	}
	if cfg.CORS.MaxAge < 0 {
		invalid = append(invalid, "CORS.MaxAge")
	}
	if cfg.RateLimits.InvoicePerMinute < 0 {
		invalid = append(invalid, "RateLimits.InvoicePerMinute")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func upper(values []string) []string {
	for i, v := range values {
		values[i] = strings.ToUpper(v)
	}
	return values
}
