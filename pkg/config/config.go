// Package config loads runtime settings from a YAML file, a .env file and
// FORMBUILDER_* environment variables, in that order of precedence (later
// sources win).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMBUILDER_"

// Config is the root configuration.
type Config struct {
	// APIURL is the base the field documents are fetched from.
	APIURL string `yaml:"api_url" env:"API_URL"`
	// SaveURL receives submissions when a form has no submit URL of its own.
	SaveURL      string `yaml:"save_url" env:"SAVE_URL"`
	AssetsPrefix string `yaml:"assets_prefix" env:"ASSETS_PREFIX"`
	// Timeout bounds field fetches and submissions. Zero means unbounded.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Theme   string        `yaml:"theme" env:"THEME"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"FORMAT"` // "json" or "console"
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	Metrics      bool          `yaml:"metrics" env:"METRICS"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Theme: "default",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			Metrics:      true,
		},
	}
}

// Option adjusts how Load resolves sources.
type Option func(*loader)

type loader struct {
	envFiles []string
	environ  map[string]string
}

// WithEnvFiles names the .env files to read. Missing files are ignored.
func WithEnvFiles(paths ...string) Option {
	return func(l *loader) {
		l.envFiles = paths
	}
}

// WithEnvironment replaces the process environment, mainly for tests.
func WithEnvironment(environ map[string]string) Option {
	return func(l *loader) {
		l.environ = environ
	}
}

// Load reads path (optional), then the .env files, then the environment.
// An empty path skips the YAML step.
func Load(path string, opts ...Option) (*Config, error) {
	l := loader{envFiles: []string{".env"}}
	for _, opt := range opts {
		if opt != nil {
			opt(&l)
		}
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Decode(strings.NewReader(os.ExpandEnv(string(data))), &cfg); err != nil {
			return nil, err
		}
	}

	environ := l.environ
	if environ == nil {
		for _, file := range l.envFiles {
			if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: load %s: %w", file, err)
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Decode merges a YAML document into cfg.
func Decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

// Validate reports invalid settings.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Logger builds the zerolog logger described by the log section.
func (c Config) Logger(out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Log.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
