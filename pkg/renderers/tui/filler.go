package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/goliatone/go-formbuilder/pkg/controller"
	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// customSelectPageSize is the number of options a searchable select shows at
// once.
const customSelectPageSize = 10

// Filler answers a built form through terminal prompts and submits it.
// Answers are checked with the same rules the form validates with; a failing
// answer is reported and asked again.
type Filler struct {
	cfg config
}

// NewFiller constructs a Filler.
func NewFiller(options ...Option) *Filler {
	return &Filler{cfg: newConfig(options)}
}

// Fill prompts for every visible field of c, then submits it. The returned
// result is the controller's; err is set only when prompting failed.
func (f *Filler) Fill(ctx context.Context, c *controller.Controller) (controller.SubmitResult, error) {
	if err := f.Prompt(ctx, c); err != nil {
		return controller.SubmitResult{}, err
	}
	result := c.Submit(ctx)
	if err := f.report(ctx, c, result); err != nil {
		return result, err
	}
	return result, nil
}

// Prompt asks for every field in declaration order and applies the answers
// to the controller. Hidden fields and buttons are skipped.
func (f *Filler) Prompt(ctx context.Context, c *controller.Controller) error {
	if c.Form() == nil {
		return controller.ErrNotBuilt
	}
	for _, field := range c.Fields() {
		var err error
		switch field.Type {
		case model.FieldTypeText, model.FieldTypeNumber:
			err = f.promptInput(ctx, c, field)
		case model.FieldTypeTextarea:
			err = f.promptTextArea(ctx, c, field)
		case model.FieldTypeCheckbox:
			err = f.promptCheckbox(ctx, c, field)
		case model.FieldTypeRadio, model.FieldTypeSelect, model.FieldTypeCustomSelect:
			err = f.promptChoice(ctx, c, field)
		default:
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ask repeats prompt until its answer passes the field rules, then applies
// it.
func (f *Filler) ask(ctx context.Context, field model.Field, prompt func() (string, error), apply func(string) error) error {
	for attempt := 0; attempt < f.cfg.maxAttempts; attempt++ {
		answer, err := prompt()
		if err != nil {
			return err
		}
		if message, violated := f.cfg.evaluator.Evaluate(answer, field.Validations); violated {
			if err := f.cfg.driver.Info(ctx, f.cfg.theme.ErrorPrefix+message); err != nil {
				return err
			}
			continue
		}
		return apply(answer)
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Key)
}

func (f *Filler) message(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Key
	}
	return f.cfg.theme.PromptPrefix + label
}

func (f *Filler) promptInput(ctx context.Context, c *controller.Controller, field model.Field) error {
	current, err := c.Value(field.Key)
	if err != nil {
		return err
	}
	prompt := func() (string, error) {
		return f.cfg.driver.Input(ctx, InputConfig{
			Message:   f.message(field),
			Default:   current,
			Validator: f.validator(field),
		})
	}
	return f.ask(ctx, field, prompt, func(value string) error {
		return c.SetValue(field.Key, value)
	})
}

func (f *Filler) promptTextArea(ctx context.Context, c *controller.Controller, field model.Field) error {
	current, err := c.Value(field.Key)
	if err != nil {
		return err
	}
	prompt := func() (string, error) {
		return f.cfg.driver.TextArea(ctx, TextAreaConfig{Message: f.message(field), Default: current})
	}
	return f.ask(ctx, field, prompt, func(value string) error {
		return c.SetValue(field.Key, value)
	})
}

func (f *Filler) promptCheckbox(ctx context.Context, c *controller.Controller, field model.Field) error {
	current, err := c.Value(field.Key)
	if err != nil {
		return err
	}
	prompt := func() (string, error) {
		checked, err := f.cfg.driver.Confirm(ctx, ConfirmConfig{Message: f.message(field), Default: current != ""})
		if err != nil || !checked {
			return "", err
		}
		return "on", nil
	}
	return f.ask(ctx, field, prompt, func(value string) error {
		return c.Check(field.Key, value != "")
	})
}

type choice struct {
	label string
	value string
}

func (f *Filler) promptChoice(ctx context.Context, c *controller.Controller, field model.Field) error {
	current, err := c.Value(field.Key)
	if err != nil {
		return err
	}

	var choices []choice
	if !field.Required() {
		choices = append(choices, choice{label: fmt.Sprintf(element.SelectPlaceholder, field.Label)})
	}
	for _, option := range field.Options {
		choices = append(choices, choice{label: option.Label, value: option.Value})
	}
	labels := make([]string, len(choices))
	defaultIndex := 0
	for idx, item := range choices {
		labels[idx] = item.label
		if item.value == current {
			defaultIndex = idx
		}
	}
	pageSize := 0
	if field.Type == model.FieldTypeCustomSelect {
		pageSize = customSelectPageSize
	}

	prompt := func() (string, error) {
		idx, err := f.cfg.driver.Select(ctx, SelectConfig{
			Message:      f.message(field),
			Options:      labels,
			DefaultIndex: defaultIndex,
			PageSize:     pageSize,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(choices) {
			return "", fmt.Errorf("tui: %s: choice %d out of range", field.Key, idx)
		}
		return choices[idx].value, nil
	}
	return f.ask(ctx, field, prompt, func(value string) error {
		if value == "" && field.Type != model.FieldTypeSelect {
			return nil
		}
		return c.SetValue(field.Key, value)
	})
}

// validator adapts the field rules to an inline prompt validator.
func (f *Filler) validator(field model.Field) func(string) error {
	if len(field.Validations) == 0 {
		return nil
	}
	return func(value string) error {
		if message, violated := f.cfg.evaluator.Evaluate(value, field.Validations); violated {
			return errors.New(message)
		}
		return nil
	}
}

func (f *Filler) report(ctx context.Context, c *controller.Controller, result controller.SubmitResult) error {
	driver, theme := f.cfg.driver, f.cfg.theme
	switch {
	case !result.Valid:
		errs := c.Errors()
		keys := make([]string, 0, len(errs))
		for key := range errs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := driver.Info(ctx, theme.ErrorPrefix+key+": "+errs[key]); err != nil {
				return err
			}
		}
		return nil
	case result.Err != nil:
		return driver.Info(ctx, theme.ErrorPrefix+"submission failed: "+result.Err.Error())
	default:
		return driver.Info(ctx, theme.InfoPrefix+"submitted "+strconv.Quote(c.Options().FormID))
	}
}
