package model

// Form is a field document bound to the identifiers a render carries. The
// controller and the renderers consume it once the document is acquired.
type Form struct {
	ID       string  `json:"formId"`
	TenantID string  `json:"tenantId,omitempty"`
	Fields   []Field `json:"fields"`
}

// Decorator adjusts a form after its fields are acquired and before it is
// built, for example to localise labels or inject extra rules.
type Decorator interface {
	Decorate(*Form) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Form) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *Form) error {
	return fn(form)
}
