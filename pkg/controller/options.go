package controller

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/transport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Options is what a host supplies for one form.
type Options struct {
	// Selector locates the container in the page. Element wins when both are
	// set. With neither, a div.form-container is inserted after the current
	// script.
	Selector string
	Element  *dom.Element

	FormID   string
	PortalID string

	// SubmitURL overrides the configured save_url.
	SubmitURL string

	// Hidden adds inputs after formId and tenantId, for example a CSRF token.
	Hidden []render.HiddenField

	// Data supplies the field definitions inline and skips the fetch.
	Data []model.Field
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes controller logging to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithConfig supplies api_url, save_url, assets_prefix and timeout.
func WithConfig(cfg config.Config) Option {
	return func(c *Controller) {
		c.cfg = cfg
	}
}

// WithFieldSource replaces the default HTTP field source. Inline Data still
// wins.
func WithFieldSource(source transport.FieldSource) Option {
	return func(c *Controller) {
		c.source = source
	}
}

// WithSubmitter replaces the default multipart HTTP submitter.
func WithSubmitter(submitter transport.Submitter) Option {
	return func(c *Controller) {
		c.submitter = submitter
	}
}

// WithFactory replaces the element factory.
func WithFactory(factory *element.Factory) Option {
	return func(c *Controller) {
		c.factory = factory
	}
}

// WithEvaluator replaces the validation evaluator.
func WithEvaluator(evaluator *validation.Evaluator) Option {
	return func(c *Controller) {
		c.evaluator = evaluator
	}
}

// WithDecorators registers decorators applied to the acquired form before it
// is built.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(c *Controller) {
		c.decorators = append(c.decorators, decorators...)
	}
}
