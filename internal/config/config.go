// Package config loads process configuration from the environment
package config

import (
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Persistence backends
const (
	BackendRedis = "redis"
	BackendHTTP  = "http"
)

// Config is the process configuration
type Config struct {
	Environment    string        `env:"AUTHORING_ENV" envDefault:"development"`
	LogLevel       slog.Level    `env:"AUTHORING_LOG_LEVEL" envDefault:"info"`
	Backend        string        `env:"AUTHORING_BACKEND" envDefault:"redis"`
	RedisAddr      string        `env:"AUTHORING_REDIS_ADDR" envDefault:"localhost:6379"`
	APIURL         string        `env:"AUTHORING_API_URL"`
	APIToken       string        `env:"AUTHORING_API_TOKEN"`
	MediaBaseURL   string        `env:"AUTHORING_MEDIA_BASE_URL" envDefault:"http://localhost:8080/media"`
	Debounce       time.Duration `env:"AUTHORING_DEBOUNCE" envDefault:"4s"`
	RequestTimeout time.Duration `env:"AUTHORING_REQUEST_TIMEOUT" envDefault:"30s"`
}

// Load reads the optional dotenv files (".env" when none are named) and then
// parses the environment. Values already set in the environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to read env file")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cfg, nil
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("Environment", c.Environment, []string{EnvDevelopment, EnvProduction}, vb)

	switch c.Backend {
	case BackendRedis:
		if c.RedisAddr == "" {
			vb.RequiredField("RedisAddr")
		}
		if c.MediaBaseURL == "" {
			vb.RequiredField("MediaBaseURL")
		}
	case BackendHTTP:
		if c.APIURL == "" {
			vb.RequiredField("APIURL")
		} else if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			vb.Field("APIURL", "must be an absolute URL")
		}
	default:
		vb.Fieldf("Backend", "must be %q or %q", BackendRedis, BackendHTTP)
	}

	if c.Debounce <= 0 {
		vb.Field("Debounce", "must be positive")
	}
	if c.RequestTimeout <= 0 {
		vb.Field("RequestTimeout", "must be positive")
	}

	return vb.Build()
}

// IsProduction reports whether the process runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
