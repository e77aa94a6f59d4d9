package controller

import (
	"github.com/goliatone/go-formbuilder/pkg/dom"
)

// Lifecycle event names.
const (
	EventBeforeInit   = "beforeInit"
	EventInit         = "init"
	EventBeforeSubmit = "beforeSubmit"
	EventAfterSubmit  = "afterSubmit"
)

// Handler receives an event payload: nil for beforeInit, InitPayload for
// init, the form element for beforeSubmit and SubmitPayload for afterSubmit.
type Handler func(payload any)

// InitPayload reports the outcome of Init.
type InitPayload struct {
	Status bool
	Form   *dom.Element
	Err    error
}

// SubmitPayload reports the outcome of a submission.
type SubmitPayload struct {
	Data    any
	Success bool
	Err     error
}

// events is an append-only handler registry. Handlers run synchronously in
// registration order; a panicking handler aborts the remaining ones.
type events struct {
	handlers map[string][]Handler
}

func (e *events) on(name string, handler Handler) {
	if handler == nil {
		return
	}
	if e.handlers == nil {
		e.handlers = make(map[string][]Handler)
	}
	e.handlers[name] = append(e.handlers[name], handler)
}

func (e *events) emit(name string, payload any) {
	for _, handler := range e.handlers[name] {
		handler(payload)
	}
}

func (e *events) count(name string) int {
	return len(e.handlers[name])
}
