package tui

import (
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// DefaultMaxAttempts bounds how often a field is asked again after a
// validation failure.
const DefaultMaxAttempts = 3

// Theme captures optional message prefixes.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

type config struct {
	driver       PromptDriver
	evaluator    *validation.Evaluator
	maxAttempts  int
	theme        Theme
	outputFormat OutputFormat
	transformer  SubmitTransformer
}

// Option configures a Filler or Renderer.
type Option func(*config)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(cfg *config) {
		if driver != nil {
			cfg.driver = driver
		}
	}
}

// WithEvaluator replaces the validation evaluator used to check answers.
func WithEvaluator(evaluator *validation.Evaluator) Option {
	return func(cfg *config) {
		if evaluator != nil {
			cfg.evaluator = evaluator
		}
	}
}

// WithMaxAttempts changes how often an invalid answer is asked again.
func WithMaxAttempts(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxAttempts = n
		}
	}
}

// WithOutputFormat selects the output serialization format of Render.
func WithOutputFormat(format OutputFormat) Option {
	return func(cfg *config) {
		if format != "" {
			cfg.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(cfg *config) {
		cfg.transformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

func newConfig(options []Option) config {
	cfg := config{
		maxAttempts:  DefaultMaxAttempts,
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(nil)
	}
	if cfg.evaluator == nil {
		cfg.evaluator = validation.New()
	}
	return cfg
}
