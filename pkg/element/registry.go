package element

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Builder produces the control for a field. Builders return the bare control;
// the factory decides whether it is wrapped in a field container.
type Builder func(f *Factory, field model.Field) *Node

// Descriptor bundles a builder with its wrapping behaviour.
type Descriptor struct {
	Type    model.FieldType
	Builder Builder
	// Bare skips the field container, as hidden inputs do.
	Bare bool
}

// Registry tracks builders keyed by field type. Callers can register new
// types or override defaults.
type Registry struct {
	mu       sync.RWMutex
	builders map[model.FieldType]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[model.FieldType]Descriptor)}
}

// NewDefaultRegistry returns a registry populated with the built-in types.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(model.FieldTypeText, Descriptor{Builder: buildInput})
	registry.MustRegister(model.FieldTypeNumber, Descriptor{Builder: buildInput})
	registry.MustRegister(model.FieldTypeTextarea, Descriptor{Builder: buildTextarea})
	registry.MustRegister(model.FieldTypeCheckbox, Descriptor{Builder: buildCheckbox})
	registry.MustRegister(model.FieldTypeRadio, Descriptor{Builder: buildRadio})
	registry.MustRegister(model.FieldTypeSelect, Descriptor{Builder: buildSelect})
	registry.MustRegister(model.FieldTypeCustomSelect, Descriptor{Builder: buildCustomSelect})
	registry.MustRegister(model.FieldTypeHidden, Descriptor{Builder: buildHidden, Bare: true})
	registry.MustRegister(model.FieldTypeButton, Descriptor{Builder: buildButton})
	return registry
}

// Register associates a descriptor with a field type, replacing any existing
// entry.
func (r *Registry) Register(fieldType model.FieldType, descriptor Descriptor) error {
	fieldType = model.FieldType(strings.TrimSpace(string(fieldType)))
	if fieldType == "" {
		return fmt.Errorf("element: field type is required")
	}
	if descriptor.Builder == nil {
		return fmt.Errorf("element: builder for %q is nil", fieldType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Type = fieldType
	r.builders[fieldType] = descriptor
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(fieldType model.FieldType, descriptor Descriptor) {
	if err := r.Register(fieldType, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches the descriptor for a type.
func (r *Registry) Descriptor(fieldType model.FieldType) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.builders[fieldType]
	return descriptor, ok
}

// Types returns the registered types sorted by name.
func (r *Registry) Types() []model.FieldType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]model.FieldType, 0, len(r.builders))
	for fieldType := range r.builders {
		types = append(types, fieldType)
	}
	slices.Sort(types)
	return types
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cloned := NewRegistry()
	for fieldType, descriptor := range r.builders {
		cloned.builders[fieldType] = descriptor
	}
	return cloned
}
