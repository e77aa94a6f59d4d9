package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/transport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Hidden fields prepended to every form.
const (
	FieldFormID   = render.HiddenFormID
	FieldTenantID = render.HiddenTenantID
)

var (
	// ErrContainerNotFound is returned when the container cannot be resolved.
	ErrContainerNotFound = errors.New("controller: container not found")
	// ErrNotBuilt is reported when an operation needs a built form.
	ErrNotBuilt = errors.New("controller: form is not built")
	// ErrUnknownField is returned by the value helpers for keys without a
	// control.
	ErrUnknownField = errors.New("controller: unknown field")
)

// State is the lifecycle position of a Controller.
type State int

const (
	StateUnbuilt State = iota
	StateLoadingFields
	StateBuilt
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateLoadingFields:
		return "loading-fields"
	case StateBuilt:
		return "built"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Controller owns one form instance.
type Controller struct {
	page      *dom.Page
	container *dom.Element
	options   Options

	cfg        config.Config
	logger     zerolog.Logger
	source     transport.FieldSource
	submitter  transport.Submitter
	factory    *element.Factory
	evaluator  *validation.Evaluator
	decorators []model.Decorator

	events  events
	state   State
	ctx     context.Context
	form    *dom.Element
	fields  []model.Field
	selects map[string]*dom.CustomSelect
}

// New resolves the container and wires dependencies. Nothing is fetched or
// built until Init.
func New(page *dom.Page, opts Options, options ...Option) (*Controller, error) {
	container, err := resolveContainer(page, opts)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		page:      page,
		container: container,
		options:   opts,
		cfg:       config.Default(),
		logger:    zerolog.Nop(),
		ctx:       context.Background(),
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}

	if c.factory == nil {
		c.factory = element.NewFactory()
	}
	if c.evaluator == nil {
		c.evaluator = validation.New()
	}
	transportOpts := []transport.Option{
		transport.WithTimeout(c.cfg.Timeout),
		transport.WithLogger(c.logger),
	}
	switch {
	case opts.Data != nil:
		c.source = transport.StaticSource(opts.Data)
	case c.source == nil:
		c.source = transport.NewFormSource(c.cfg.APIURL, opts.FormID, opts.PortalID, c.cfg.AssetsPrefix, transportOpts...)
	}
	if c.submitter == nil {
		c.submitter = transport.NewHTTPSubmitter(transportOpts...)
	}
	c.logger = c.logger.With().Str("form_id", opts.FormID).Logger()
	return c, nil
}

func resolveContainer(page *dom.Page, opts Options) (*dom.Element, error) {
	if opts.Element != nil {
		return opts.Element, nil
	}
	if page == nil {
		return nil, fmt.Errorf("%w: no page", ErrContainerNotFound)
	}
	if opts.Selector != "" {
		container := page.QuerySelector(opts.Selector)
		if container == nil {
			return nil, fmt.Errorf("%w: %q", ErrContainerNotFound, opts.Selector)
		}
		return container, nil
	}

	container := dom.NewElement("div")
	container.AddClass(element.ClassFormContainer)
	if script := page.CurrentScript; script != nil && script.Parent() != nil {
		script.Parent().InsertAfter(container, script)
		return container, nil
	}
	page.Body.AppendChild(container)
	return container, nil
}

// On registers handler for event. Handlers accumulate and cannot be removed.
func (c *Controller) On(event string, handler Handler) {
	c.events.on(event, handler)
}

// Container returns the element the form is appended to.
func (c *Controller) Container() *dom.Element {
	return c.container
}

// Options returns the host options.
func (c *Controller) Options() Options {
	return c.options
}

// Form returns the built form element or nil.
func (c *Controller) Form() *dom.Element {
	return c.form
}

// Fields returns the definitions the current form was built from.
func (c *Controller) Fields() []model.Field {
	return c.fields
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// SubmitURL returns the submission target.
func (c *Controller) SubmitURL() string {
	if c.options.SubmitURL != "" {
		return c.options.SubmitURL
	}
	return c.cfg.SaveURL
}

// Init acquires the field definitions and builds the form. Failures are
// delivered as init{Status: false} and logged; a previously built form is
// left in place.
func (c *Controller) Init(ctx context.Context) {
	c.ctx = context.WithoutCancel(ctx)
	c.events.emit(EventBeforeInit, nil)

	previous := c.state
	c.state = StateLoadingFields
	form, err := c.acquire(ctx)
	if err != nil {
		c.state = previous
		if c.form == nil {
			c.state = StateUnbuilt
		}
		c.logger.Error().Err(err).Msg("There was a problem fetching or building the form")
		c.events.emit(EventInit, InitPayload{Status: false, Err: err})
		return
	}

	c.mount(form)
	c.events.emit(EventInit, InitPayload{Status: true, Form: c.form})
}

func (c *Controller) acquire(ctx context.Context) (model.Form, error) {
	fields, err := c.source.Load(ctx)
	if err != nil {
		return model.Form{}, err
	}
	form := model.Form{ID: c.options.FormID, TenantID: c.options.PortalID, Fields: fields}
	for _, decorator := range c.decorators {
		if err := decorator.Decorate(&form); err != nil {
			return model.Form{}, fmt.Errorf("controller: decorate: %w", err)
		}
	}
	if err := model.Check(form.Fields); err != nil {
		c.logger.Warn().Err(err).Msg("field definitions have issues")
	}
	return form, nil
}

// mount builds the form element, wires listeners and swaps it into the
// container in one step.
func (c *Controller) mount(def model.Form) {
	form := dom.NewElement("form")
	form.SetAttr("id", def.ID)
	form.SetAttr("novalidate", "")

	var fields []model.Field
	for _, input := range render.HiddenInputs(def, c.options.Hidden...) {
		fields = append(fields, model.Field{Key: input.Name, Type: model.FieldTypeHidden, DefaultValue: input.Value})
	}
	for _, field := range append(fields, def.Fields...) {
		node := c.factory.Build(field)
		if node == nil {
			c.logger.Debug().Str("field", field.Key).Str("type", string(field.Type)).Msg("skipping field of unknown type")
			continue
		}
		form.AppendChild(dom.Mount(node))
	}

	form.AddEventListener(dom.EventSubmit, func(ev *dom.Event) {
		ev.PreventDefault()
		c.Submit(c.ctx)
	})
	form.AddEventListener(dom.EventClick, func(ev *dom.Event) {
		if isSubmitter(ev.Target) {
			ev.PreventDefault()
			form.Dispatch(dom.EventSubmit)
		}
	})

	if c.form != nil {
		c.form.Remove()
	}
	c.container.AppendChild(form)
	c.form = form
	c.fields = def.Fields

	for _, control := range dom.Controls(form) {
		listener := func(*dom.Event) { c.validateLive(control) }
		control.AddEventListener(dom.EventInput, listener)
		control.AddEventListener(dom.EventChange, listener)
		control.AddEventListener(dom.EventBlur, listener)
	}

	c.selects = make(map[string]*dom.CustomSelect)
	roots := customSelectRoots(form)
	for _, field := range def.Fields {
		if field.Type != model.FieldTypeCustomSelect {
			continue
		}
		root, ok := roots[field.Key]
		if !ok {
			c.logger.Warn().Str("field", field.Key).Msg("custom select not bound: no hidden input")
			continue
		}
		cs, err := dom.BindCustomSelect(root, field.Options)
		if err != nil {
			c.logger.Warn().Err(err).Str("field", field.Key).Msg("custom select not bound")
			continue
		}
		c.selects[field.Key] = cs
	}
	c.state = StateBuilt
}

// customSelectRoots maps each custom select in form by the name of its hidden
// input. Keys are matched by name rather than through a selector so any
// string works as a key.
func customSelectRoots(form *dom.Element) map[string]*dom.Element {
	roots := make(map[string]*dom.Element)
	for _, root := range form.QuerySelectorAll("." + element.ClassCustomSelect) {
		hidden := root.QuerySelector("input[type=hidden]")
		if hidden == nil {
			continue
		}
		if _, seen := roots[hidden.Name()]; !seen {
			roots[hidden.Name()] = root
		}
	}
	return roots
}

func isSubmitter(target *dom.Element) bool {
	if target == nil {
		return false
	}
	button := target.Closest("button, input")
	if button == nil || button.Disabled() {
		return false
	}
	return button.Type() == "submit"
}
