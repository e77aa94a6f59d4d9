package element

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Class names shared with the live document and the browser runtime.
const (
	ClassFormField     = "form-field"
	ClassError         = "error"
	ClassRadioGroup    = "radio-group"
	ClassCustomSelect  = "custom-select"
	ClassSelected      = "select-selected"
	ClassItemsContent  = "select-items-content"
	ClassSearch        = "select-search"
	ClassItems         = "select-items"
	ClassItem          = "select-item"
	ClassActive        = "active"
	ClassShow          = "show"
	ClassFormContainer = "form-container"
)

const (
	// AttrDataValue carries the option value on custom-select items.
	AttrDataValue = "data-value"
	// SearchPlaceholder is the custom-select search box placeholder.
	SearchPlaceholder = "Search..."
	// SelectPlaceholder formats the leading option of a native select.
	SelectPlaceholder = "--Select %s--"
)

// IDGenerator returns a document-unique element id.
type IDGenerator func() string

// Option configures a Factory.
type Option func(*Factory)

// WithIDGenerator overrides how checkbox ids are generated.
func WithIDGenerator(gen IDGenerator) Option {
	return func(f *Factory) {
		if gen != nil {
			f.ids = gen
		}
	}
}

// WithButtonType overrides the button type attribute. By default the field
// key is used verbatim.
func WithButtonType(fn func(model.Field) string) Option {
	return func(f *Factory) {
		if fn != nil {
			f.buttonType = fn
		}
	}
}

// WithRegistry swaps the builder registry.
func WithRegistry(registry *Registry) Option {
	return func(f *Factory) {
		if registry != nil {
			f.registry = registry
		}
	}
}

// Factory turns field definitions into node trees.
type Factory struct {
	registry   *Registry
	ids        IDGenerator
	buttonType func(model.Field) string
}

// NewFactory constructs a Factory with the default builders.
func NewFactory(options ...Option) *Factory {
	f := &Factory{
		registry:   NewDefaultRegistry(),
		ids:        uuid.NewString,
		buttonType: func(field model.Field) string { return field.Key },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

var defaultFactory = NewFactory()

// Build maps field with the default factory.
func Build(field model.Field) *Node {
	return defaultFactory.Build(field)
}

// Build returns the node tree for field, or nil for unregistered types.
// Every control except bare ones is wrapped in a div.form-field container
// which also hosts the inline error message.
func (f *Factory) Build(field model.Field) *Node {
	descriptor, ok := f.registry.Descriptor(field.Type)
	if !ok {
		return nil
	}
	control := descriptor.Builder(f, field)
	if control == nil {
		return nil
	}
	if descriptor.Bare {
		return control
	}
	return New("div").AddClass(ClassFormField).Append(control)
}

// BuildAll maps fields in order, dropping unregistered types.
func (f *Factory) BuildAll(fields []model.Field) []*Node {
	out := make([]*Node, 0, len(fields))
	for _, field := range fields {
		if node := f.Build(field); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// NextID returns a fresh id from the configured generator.
func (f *Factory) NextID() string {
	return f.ids()
}
