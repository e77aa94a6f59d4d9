package html

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	gotemplatepkg "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

// Name is the registry name of the renderer.
const Name = "html"

const (
	formTemplate = "templates/form.tmpl"
	pageTemplate = "templates/page.tmpl"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	engineOptions    []gotemplatepkg.Option
	templateRenderer rendertemplate.TemplateRenderer
	factory          *element.Factory
	theme            *theme.RendererConfig
	assetsBase       string
	page             bool
	title            string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/form.tmpl and templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers a directory on disk over the template bundle:
// templates found there win, the rest come from the bundle. The layered set
// is rendered by the pongo2 engine, which also provides the trim and tojson
// filters to override templates.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithGoTemplateOptions passes options to the default go-template engine.
func WithGoTemplateOptions(options ...gotemplatepkg.Option) Option {
	return func(cfg *config) {
		cfg.engineOptions = append(cfg.engineOptions, options...)
	}
}

// WithTemplateRenderer injects a template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithFactory replaces the element factory.
func WithFactory(factory *element.Factory) Option {
	return func(cfg *config) {
		if factory != nil {
			cfg.factory = factory
		}
	}
}

// WithTheme applies theme tokens and asset URLs.
func WithTheme(rc *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = rc
	}
}

// WithAssetsBase sets the URL prefix the bundled assets are served from.
func WithAssetsBase(base string) Option {
	return func(cfg *config) {
		cfg.assetsBase = base
	}
}

// WithPage renders a complete HTML document around the form, linking the
// stylesheet and the runtime script.
func WithPage(title string) Option {
	return func(cfg *config) {
		cfg.page = true
		cfg.title = title
	}
}

// Renderer produces server-side markup for a form. The browser runtime takes
// over live validation, the custom selects and submission.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	factory    *element.Factory
	theme      *theme.RendererConfig
	assetsBase string
	page       bool
	title      string
}

var (
	_ render.Renderer                 = (*Renderer)(nil)
	_ rendertemplate.TemplateRenderer = (*gotemplatepkg.Engine)(nil)
)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), assetsBase: "/assets/"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.factory == nil {
		cfg.factory = element.NewFactory()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := newEngine(cfg)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:  templates,
		factory:    cfg.factory,
		theme:      cfg.theme,
		assetsBase: cfg.assetsBase,
		page:       cfg.page,
		title:      cfg.title,
	}, nil
}

func newEngine(cfg config) (rendertemplate.TemplateRenderer, error) {
	if cfg.templatesDir != "" {
		if _, err := os.Stat(cfg.templatesDir); err != nil {
			return nil, err
		}
		return gotemplate.New(
			gotemplate.WithBaseDir(cfg.templatesDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
	}
	options := append([]gotemplatepkg.Option{
		gotemplatepkg.WithFS(cfg.templateFS),
		gotemplatepkg.WithExtension(".tmpl"),
	}, cfg.engineOptions...)
	return gotemplatepkg.NewRenderer(options...)
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// definition is the document embedded for the browser runtime.
type definition struct {
	FormID    string        `json:"formId"`
	TenantID  string        `json:"tenantId,omitempty"`
	SubmitURL string        `json:"submitUrl,omitempty"`
	Fields    []model.Field `json:"fields"`
}

// Render writes the form markup: hidden identifiers first, then each field in
// declaration order, with Values pre-filled and Errors shown inline.
func (r *Renderer) Render(_ context.Context, form model.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	fields := prefill(form.Fields, options.Values)
	formNode := element.New("form").
		Set("id", form.ID).
		Set("novalidate", "").
		Set("method", "post").
		Set("enctype", "multipart/form-data")
	if options.SubmitURL != "" {
		formNode.Set("action", options.SubmitURL)
	}
	for _, input := range render.HiddenInputs(form, options.Hidden...) {
		formNode.Append(r.factory.Build(model.Field{Key: input.Name, Type: model.FieldTypeHidden, DefaultValue: input.Value}))
	}
	for _, field := range fields {
		node := r.factory.Build(field)
		if node == nil {
			continue
		}
		if messages := options.Errors[field.Key]; len(messages) > 0 && node.HasClass(element.ClassFormField) {
			node.Append(errorNode(messages[0]))
		}
		formNode.Append(node)
	}

	def, err := json.Marshal(definition{
		FormID:    form.ID,
		TenantID:  form.TenantID,
		SubmitURL: options.SubmitURL,
		Fields:    definitionFields(form.Fields),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: encode definition: %w", err)
	}

	data := map[string]any{
		"form_id":     form.ID,
		"markup":      Markup(formNode),
		"definition":  string(def),
		"form_errors": formErrors(options.FormErrors),
		"theme":       buildThemeContext(r.theme),
	}
	fragment, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	if !r.page {
		return []byte(fragment), nil
	}

	data["fragment"] = fragment
	data["title"] = r.title
	data["stylesheet"] = r.assetURL(AssetKeyStylesheet, StylesheetName)
	data["script"] = r.assetURL(AssetKeyRuntime, RuntimeScriptName)
	page, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(page), nil
}

func (r *Renderer) assetURL(key, file string) string {
	if r.theme != nil && r.theme.AssetURL != nil {
		if url := r.theme.AssetURL(key); url != "" {
			return url
		}
	}
	base := r.assetsBase
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + file
}

// prefill copies fields with Values applied as default values.
func prefill(fields []model.Field, values map[string]string) []model.Field {
	out := model.Clone(fields)
	if len(values) == 0 {
		return out
	}
	for idx := range out {
		if value, ok := values[out[idx].Key]; ok {
			out[idx].DefaultValue = value
		}
	}
	return out
}

// definitionFields strips markup from labels the same way the rendered text
// is stripped, leaving plain text for the runtime.
func definitionFields(fields []model.Field) []model.Field {
	out := model.Clone(fields)
	for idx := range out {
		out[idx].Label = plainText(out[idx].Label)
		for opt := range out[idx].Options {
			out[idx].Options[opt].Label = plainText(out[idx].Options[opt].Label)
		}
	}
	return out
}

func errorNode(message string) *element.Node {
	return element.New("div").
		AddClass(element.ClassError).
		Set("style", dom.ErrorStyle).
		SetText(message)
}

func formErrors(messages []string) []string {
	return render.MergeFormErrors(messages)
}
