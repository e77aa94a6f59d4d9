package controller

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// SubmitResult describes one Submit call. Valid is false when validation
// blocked the submission, in which case nothing was sent.
type SubmitResult struct {
	Valid bool
	Data  any
	Err   error
}

// Success reports whether the submission was sent and accepted.
func (r SubmitResult) Success() bool {
	return r.Valid && r.Err == nil
}

// Submit validates every control and, when all pass, emits beforeSubmit,
// posts the form entries and emits afterSubmit. The form is reset only after
// a successful submission. Submissions are not serialised; concurrent calls
// each post.
func (c *Controller) Submit(ctx context.Context) SubmitResult {
	if c.form == nil {
		return SubmitResult{Err: ErrNotBuilt}
	}
	if !c.Validate() {
		c.logger.Debug().Msg("submission blocked by validation")
		return SubmitResult{Valid: false}
	}

	form := c.form
	c.events.emit(EventBeforeSubmit, form)

	c.state = StateSubmitting
	target := c.SubmitURL()
	data, err := c.submitter.Submit(ctx, target, dom.FormData(form))
	c.state = StateBuilt
	if err != nil {
		c.logger.Error().Err(err).Str("url", target).Msg("form submission failed")
		c.events.emit(EventAfterSubmit, SubmitPayload{Err: err, Success: false})
		return SubmitResult{Valid: true, Err: err}
	}

	dom.Reset(form)
	c.logger.Info().Str("url", target).Msg("form submitted")
	c.events.emit(EventAfterSubmit, SubmitPayload{Data: data, Success: true})
	return SubmitResult{Valid: true, Data: data}
}

// Validate evaluates every control in document order and updates its inline
// error. It reports whether all controls passed.
func (c *Controller) Validate() bool {
	if c.form == nil {
		return false
	}
	c.state = StateValidating
	valid := true
	for _, control := range dom.Controls(c.form) {
		if !c.validateControl(control) {
			valid = false
		}
	}
	c.state = StateBuilt
	return valid
}

func (c *Controller) validateLive(control *dom.Element) {
	if c.state != StateBuilt {
		c.validateControl(control)
		return
	}
	c.state = StateValidating
	c.validateControl(control)
	c.state = StateBuilt
}

// validateControl evaluates control against the definition sharing its name.
// Controls without a definition pass.
func (c *Controller) validateControl(control *dom.Element) bool {
	field, ok := model.Find(c.fields, control.Name())
	if !ok || control.Name() == "" {
		return true
	}
	message, violated := c.evaluator.Evaluate(c.valueOf(control), field.Validations)
	if !violated {
		message = ""
	}
	dom.ToggleError(control, message)
	return !violated
}

// valueOf returns the value a control is validated with: the submitted value,
// and for a radio the value of the checked radio of its group.
func (c *Controller) valueOf(control *dom.Element) string {
	if control.Type() != "radio" {
		return control.SubmitValue()
	}
	for _, radio := range c.form.QuerySelectorAll("input[type=radio]") {
		if radio.Name() == control.Name() && radio.Checked() {
			return radio.Value()
		}
	}
	return ""
}

// Errors returns the inline error shown for each field key.
func (c *Controller) Errors() map[string]string {
	out := make(map[string]string)
	if c.form == nil {
		return out
	}
	for _, control := range dom.Controls(c.form) {
		if message := dom.ErrorFor(control); message != "" && control.Name() != "" {
			out[control.Name()] = message
		}
	}
	return out
}
