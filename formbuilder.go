// Package formbuilder is the top-level entry point: it re-exports the types a
// host needs and offers one-call helpers for rendering a field document.
package formbuilder

import (
	"context"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/controller"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/transport"
)

// Field is one entry of a field document.
type Field = model.Field

// Form is a field document bound to a form and tenant id.
type Form = model.Form

// RenderOptions describes per-request overrides renderers use to prefill
// values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Options configures a live form controller.
type Options = controller.Options

// Create resolves the container and returns a controller handle. Call Init on
// the handle once event handlers are registered.
func Create(page *dom.Page, opts Options, options ...controller.Option) (*controller.Handle, error) {
	return controller.Create(page, opts, options...)
}

// Option configures GenerateHTML and NewRegistry.
type Option func(*settings)

type settings struct {
	selector  theme.ThemeSelector
	theme     string
	variant   string
	fallbacks map[string]string
	html      []html.Option
	tui       []tui.Option
}

// WithThemeSelector resolves the theme through selector instead of the
// bundled default manifest.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(s *settings) {
		s.selector = selector
	}
}

// WithTheme picks the theme and variant. Empty values use the selector
// defaults.
func WithTheme(name, variant string) Option {
	return func(s *settings) {
		s.theme = name
		s.variant = variant
	}
}

// WithThemeFallbacks forwards fallback partials used when deriving the
// renderer configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(s *settings) {
		s.fallbacks = fallbacks
	}
}

// WithHTMLOptions passes options to the html renderer.
func WithHTMLOptions(options ...html.Option) Option {
	return func(s *settings) {
		s.html = append(s.html, options...)
	}
}

// WithTUIOptions passes options to the tui renderer.
func WithTUIOptions(options ...tui.Option) Option {
	return func(s *settings) {
		s.tui = append(s.tui, options...)
	}
}

// NewRegistry returns a registry holding the html and tui renderers.
func NewRegistry(options ...Option) (*render.Registry, error) {
	s := settings{}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}
	if s.selector == nil {
		s.selector = html.NewManifestSelector(html.DefaultThemeName, html.DefaultManifest())
	}
	selection, err := s.selector.Select(s.theme, s.variant)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: select theme: %w", err)
	}

	htmlRenderer, err := html.New(append([]html.Option{html.WithTheme(html.RendererConfig(selection, s.fallbacks))}, s.html...)...)
	if err != nil {
		return nil, err
	}
	tuiRenderer, err := tui.New(s.tui...)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(tuiRenderer)
	return registry, nil
}

// GenerateHTML loads the document from source and renders it as an HTML
// fragment (or a page with html.WithPage).
func GenerateHTML(ctx context.Context, source transport.FieldSource, form Form, renderOptions RenderOptions, options ...Option) ([]byte, error) {
	if source == nil {
		return nil, fmt.Errorf("formbuilder: source is nil")
	}
	fields, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	form.Fields = fields

	registry, err := NewRegistry(options...)
	if err != nil {
		return nil, err
	}
	out, _, err := registry.Render(ctx, html.Name, form, renderOptions)
	return out, err
}

// EmbeddedTemplates exposes the bundled form and page templates so callers
// can reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// RuntimeAssetsFS exposes the browser runtime and stylesheet so Go
// applications can serve them.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formbuilder.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return html.AssetsFS()
}
