package model

import "slices"

// FieldType enumerates the control kinds the element factory understands.
type FieldType string

const (
	FieldTypeText         FieldType = "text"
	FieldTypeNumber       FieldType = "number"
	FieldTypeTextarea     FieldType = "textarea"
	FieldTypeCheckbox     FieldType = "checkbox"
	FieldTypeRadio        FieldType = "radio"
	FieldTypeSelect       FieldType = "select"
	FieldTypeCustomSelect FieldType = "custom-select"
	FieldTypeHidden       FieldType = "hidden"
	FieldTypeButton       FieldType = "button"
)

// FieldTypes returns every supported field type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeNumber,
		FieldTypeTextarea,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeSelect,
		FieldTypeCustomSelect,
		FieldTypeHidden,
		FieldTypeButton,
	}
}

// Known reports whether t is one of the supported field types.
func (t FieldType) Known() bool {
	for _, candidate := range FieldTypes() {
		if candidate == t {
			return true
		}
	}
	return false
}

// RequiresOptions reports whether the control renders a choice list.
func (t FieldType) RequiresOptions() bool {
	switch t {
	case FieldTypeRadio, FieldTypeSelect, FieldTypeCustomSelect:
		return true
	default:
		return false
	}
}

// RuleKind names a validation constraint.
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleMaxLength RuleKind = "maxlength"
	RulePattern   RuleKind = "pattern"
	RuleMin       RuleKind = "min"
	RuleMax       RuleKind = "max"
)

// Known reports whether k is an evaluated rule kind.
func (k RuleKind) Known() bool {
	switch k {
	case RuleRequired, RuleMaxLength, RulePattern, RuleMin, RuleMax:
		return true
	default:
		return false
	}
}

// ValidationRule is a single named constraint. Value carries the rule
// parameter as declared in the document ("true" for required, an integer for
// maxlength, a regular expression for pattern, a numeric bound for min/max).
// Message overrides the default violation text when set.
type ValidationRule struct {
	Kind    RuleKind `json:"key" yaml:"key"`
	Value   string   `json:"value" yaml:"value"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Option is a label/value pair offered by radio, select and custom-select
// controls.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Field describes one form control. Key must be unique within a document; it
// becomes the control name and is used to match controls back to their rules.
type Field struct {
	Key          string           `json:"key" yaml:"key"`
	Label        string           `json:"label" yaml:"label"`
	Type         FieldType        `json:"type" yaml:"type"`
	DefaultValue string           `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options      []Option         `json:"values,omitempty" yaml:"values,omitempty"`
	Validations  []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// Rule returns the first rule of the given kind.
func (f Field) Rule(kind RuleKind) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// Required reports whether the field declares required="true".
func (f Field) Required() bool {
	rule, ok := f.Rule(RuleRequired)
	return ok && rule.Value == "true"
}

// OptionLabel resolves the label for value, returning "" when absent.
func (f Field) OptionLabel(value string) string {
	for _, option := range f.Options {
		if option.Value == value {
			return option.Label
		}
	}
	return ""
}

// Find returns the field with the given key.
func Find(fields []Field, key string) (Field, bool) {
	for _, field := range fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// Clone returns a deep copy of fields.
func Clone(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for idx, field := range fields {
		field.Options = slices.Clone(field.Options)
		field.Validations = slices.Clone(field.Validations)
		out[idx] = field
	}
	return out
}
