package element

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func applyRules(node *Node, rules []model.ValidationRule) *Node {
	for _, attr := range validation.NativeAttributes(rules) {
		node.Set(attr.Name, attr.Value)
	}
	return node
}

func buildInput(_ *Factory, field model.Field) *Node {
	input := New("input").
		Set("name", field.Key).
		Set("type", string(field.Type)).
		Set("placeholder", field.Label)
	if field.DefaultValue != "" {
		input.Set("value", field.DefaultValue)
	}
	return applyRules(input, field.Validations)
}

func buildTextarea(_ *Factory, field model.Field) *Node {
	textarea := New("textarea").
		Set("name", field.Key).
		Set("placeholder", field.Label).
		SetText(field.DefaultValue)
	return applyRules(textarea, field.Validations)
}

func buildCheckbox(f *Factory, field model.Field) *Node {
	id := f.NextID()
	input := New("input").
		Set("name", field.Key).
		Set("id", id).
		Set("type", string(model.FieldTypeCheckbox))
	if isTruthy(field.DefaultValue) {
		input.Set("checked", "")
	}
	applyRules(input, field.Validations)

	return New("label").
		Set("for", id).
		Append(input, Text(field.Label))
}

func buildRadio(_ *Factory, field model.Field) *Node {
	group := New("div").AddClass(ClassRadioGroup)
	group.Append(New("label").SetText(field.Label))

	for idx, option := range field.Options {
		id := RadioID(field.Key, idx)
		input := New("input").
			Set("id", id).
			Set("name", field.Key).
			Set("value", option.Value).
			Set("type", string(model.FieldTypeRadio))
		if field.DefaultValue != "" && field.DefaultValue == option.Value {
			input.Set("checked", "")
		}
		applyRules(input, field.Validations)

		group.Append(input, New("label").Set("for", id).SetText(option.Label))
	}
	return group
}

// RadioID derives the id of the idx-th radio input of key.
func RadioID(key string, idx int) string {
	return key + "-" + strconv.Itoa(idx)
}

func buildSelect(_ *Factory, field model.Field) *Node {
	sel := New("select").Set("name", field.Key)
	sel.Append(option("", fmt.Sprintf(SelectPlaceholder, field.Label), false))
	for _, item := range field.Options {
		sel.Append(option(item.Value, item.Label, field.DefaultValue != "" && item.Value == field.DefaultValue))
	}
	return applyRules(sel, field.Validations)
}

func option(value, label string, selected bool) *Node {
	node := New("option").Set("value", value).SetText(label)
	if selected {
		node.Set("selected", "")
	}
	return node
}

func buildCustomSelect(_ *Factory, field model.Field) *Node {
	container := New("div").AddClass(ClassCustomSelect)

	hidden := applyRules(hiddenInput(field), field.Validations)
	container.Append(hidden)

	display := field.Label
	if label := field.OptionLabel(field.DefaultValue); field.DefaultValue != "" && label != "" {
		display = label
	}
	selected := New("div").AddClass(ClassSelected).SetText(display)

	items := New("div").AddClass(ClassItemsContent)
	items.Append(New("input").
		Set("type", "text").
		Set("placeholder", SearchPlaceholder).
		AddClass(ClassSearch))
	if len(field.Options) > 0 {
		items.Append(OptionList(field.Options, field.DefaultValue))
	}

	return container.Append(selected, items)
}

// OptionList builds the div.select-items list of a custom select, marking the
// entry whose value equals selected as active.
func OptionList(options []model.Option, selected string) *Node {
	list := New("div").AddClass(ClassItems)
	for _, item := range options {
		entry := New("div").
			AddClass(ClassItem).
			Set(AttrDataValue, item.Value).
			SetText(item.Label)
		if selected != "" && selected == item.Value {
			entry.AddClass(ClassActive)
		}
		list.Append(entry)
	}
	return list
}

// FilterOptions keeps the options whose label contains query, ignoring case.
// An empty query returns every option.
func FilterOptions(options []model.Option, query string) []model.Option {
	needle := strings.ToLower(query)
	if needle == "" {
		return options
	}
	out := make([]model.Option, 0, len(options))
	for _, item := range options {
		if strings.Contains(strings.ToLower(item.Label), needle) {
			out = append(out, item)
		}
	}
	return out
}

func hiddenInput(field model.Field) *Node {
	return New("input").
		Set("name", field.Key).
		Set("value", field.DefaultValue).
		Set("type", string(model.FieldTypeHidden))
}

func buildHidden(_ *Factory, field model.Field) *Node {
	return hiddenInput(field)
}

func buildButton(f *Factory, field model.Field) *Node {
	return New("button").
		Set("name", field.Key).
		Set("type", f.buttonType(field)).
		SetText(field.Label)
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes", "checked":
		return true
	default:
		return false
	}
}
