package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/transport"
)

func (c *Controller) controls(key string) ([]*dom.Element, error) {
	if c.form == nil {
		return nil, ErrNotBuilt
	}
	var out []*dom.Element
	for _, control := range dom.Controls(c.form) {
		if control.Name() == key {
			out = append(out, control)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return out, nil
}

// SetValue changes the value of the control named key the way a user would,
// dispatching input and change so live validation runs. Radios check the
// option carrying value, custom selects choose the listed option and
// checkboxes are checked when value parses as true.
func (c *Controller) SetValue(key, value string) error {
	controls, err := c.controls(key)
	if err != nil {
		return err
	}
	if cs, ok := c.selects[key]; ok {
		return cs.Choose(value)
	}

	control := controls[0]
	switch control.Type() {
	case "radio":
		for _, radio := range controls {
			if radio.Value() == value {
				radio.SetChecked(true)
				radio.Dispatch(dom.EventInput)
				radio.Dispatch(dom.EventChange)
				return nil
			}
		}
		return fmt.Errorf("controller: %q has no option %q", key, value)
	case "checkbox":
		checked, _ := strconv.ParseBool(value)
		return c.Check(key, checked)
	default:
		if control.Tag == "select" && !hasOption(control, value) {
			return fmt.Errorf("controller: %q has no option %q", key, value)
		}
		control.Input(value)
		return nil
	}
}

func hasOption(sel *dom.Element, value string) bool {
	for _, opt := range sel.QuerySelectorAll("option") {
		if candidate, ok := opt.Attr("value"); ok && candidate == value {
			return true
		}
	}
	return false
}

// Check sets the checked state of the checkbox named key.
func (c *Controller) Check(key string, checked bool) error {
	controls, err := c.controls(key)
	if err != nil {
		return err
	}
	control := controls[0]
	if control.Type() != "checkbox" {
		return fmt.Errorf("controller: %q is not a checkbox", key)
	}
	control.SetChecked(checked)
	control.Dispatch(dom.EventInput)
	control.Dispatch(dom.EventChange)
	return nil
}

// Value returns the value key would be validated and submitted with.
func (c *Controller) Value(key string) (string, error) {
	controls, err := c.controls(key)
	if err != nil {
		return "", err
	}
	return c.valueOf(controls[0]), nil
}

// MapServerErrors shows the field errors carried by a rejected submission.
// err is the error of a failed SubmitResult or afterSubmit payload; its
// response body is read as {"errors": {field: [messages]}}. The returned
// mapping lists the messages that matched no field under Form.
func (c *Controller) MapServerErrors(err error) (render.ErrorMapping, error) {
	if c.form == nil {
		return render.ErrorMapping{}, ErrNotBuilt
	}
	var status *transport.StatusError
	if !errors.As(err, &status) {
		return render.ErrorMapping{}, errors.New("controller: error carries no server response")
	}
	payload, perr := render.ParseErrorPayload(status.Body)
	if perr != nil {
		return render.ErrorMapping{}, perr
	}
	mapping := render.MapErrorPayload(c.fields, payload)
	for key, messages := range mapping.Fields {
		controls, cerr := c.controls(key)
		if cerr != nil || len(messages) == 0 {
			continue
		}
		dom.ToggleError(controls[0], messages[0])
	}
	return mapping, nil
}
