package controller

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/dom"
)

// Handle is what Create returns to a host page.
type Handle struct {
	Container *dom.Element
	Options   Options

	controller *Controller
}

// On registers a lifecycle handler.
func (h *Handle) On(event string, handler Handler) *Handle {
	h.controller.On(event, handler)
	return h
}

// Controller exposes the underlying controller.
func (h *Handle) Controller() *Controller {
	return h.controller
}

// Init builds the form. Register handlers before calling it.
func (h *Handle) Init(ctx context.Context) {
	h.controller.Init(ctx)
}

// Create is the host entry point: it constructs a controller and returns its
// container, options and event registration.
func Create(page *dom.Page, opts Options, options ...Option) (*Handle, error) {
	c, err := New(page, opts, options...)
	if err != nil {
		return nil, err
	}
	return &Handle{Container: c.Container(), Options: c.Options(), controller: c}, nil
}
