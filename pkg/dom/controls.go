package dom

import "slices"

// IsControl reports whether e is an input, textarea or select.
func (e *Element) IsControl() bool {
	switch e.Tag {
	case "input", "textarea", "select":
		return true
	default:
		return false
	}
}

// IsCheckable reports whether e is a checkbox or radio input.
func (e *Element) IsCheckable() bool {
	if e.Tag != "input" {
		return false
	}
	kind := e.Type()
	return kind == "checkbox" || kind == "radio"
}

// Disabled reports whether the disabled attribute is present.
func (e *Element) Disabled() bool {
	return e.HasAttr("disabled")
}

// Value returns the current control value. Checkable inputs report their
// value attribute (defaulting to "on") regardless of checked state.
func (e *Element) Value() string {
	switch e.Tag {
	case "select":
		opts := e.options()
		if e.selectedIndex < 0 || e.selectedIndex >= len(opts) {
			return ""
		}
		return optionValue(opts[e.selectedIndex])
	case "input":
		if e.IsCheckable() {
			if value, ok := e.Attr("value"); ok {
				return value
			}
			return "on"
		}
		return e.value
	case "textarea":
		return e.value
	default:
		value, _ := e.Attr("value")
		return value
	}
}

// SetValue assigns the control value. On hidden inputs the value attribute
// changes too, so reset keeps it.
func (e *Element) SetValue(value string) {
	switch e.Tag {
	case "select":
		e.selectedIndex = -1
		for idx, opt := range e.options() {
			if optionValue(opt) == value {
				e.selectedIndex = idx
				break
			}
		}
	case "input":
		switch e.Type() {
		case "checkbox", "radio":
			e.SetAttr("value", value)
		case "hidden":
			e.SetAttr("value", value)
			e.value = value
		default:
			e.value = value
			e.dirty = true
		}
	case "textarea":
		e.value = value
		e.dirty = true
	}
}

// SubmitValue returns the value the control contributes to a submission:
// checkable inputs report "" unless checked.
func (e *Element) SubmitValue() string {
	if e.IsCheckable() && !e.checked {
		return ""
	}
	return e.Value()
}

// Checked reports the checked state of a checkable input.
func (e *Element) Checked() bool {
	return e.checked
}

// SetChecked updates the checked state. Checking a radio unchecks the other
// radios sharing its name inside the same form (or document).
func (e *Element) SetChecked(checked bool) {
	e.checked = checked
	e.dirty = true
	if !checked || e.Type() != "radio" || e.Name() == "" {
		return
	}
	scope := e.Closest("form")
	if scope == nil {
		scope = e.Root()
	}
	for _, other := range scope.QuerySelectorAll("input") {
		if other != e && other.Type() == "radio" && other.Name() == e.Name() {
			other.checked = false
			other.dirty = true
		}
	}
}

// Files returns the files attached to a file input.
func (e *Element) Files() []File {
	return slices.Clone(e.files)
}

// SetFiles attaches files to a file input.
func (e *Element) SetFiles(files ...File) {
	e.files = slices.Clone(files)
}

// Reset restores the default value and checked state.
func (e *Element) Reset() {
	switch e.Tag {
	case "select":
		e.selectedIndex = e.defaultIndex
	case "input":
		e.value = e.defaultValue
		e.checked = e.defaultChecked
		e.files = nil
	case "textarea":
		e.value = e.defaultValue
	}
	e.dirty = false
}

func (e *Element) options() []*Element {
	var out []*Element
	e.walk(func(node *Element) bool {
		if node.Tag == "option" {
			out = append(out, node)
			return false
		}
		return true
	})
	return out
}

func (e *Element) initSelect() {
	e.selectedIndex = -1
	opts := e.options()
	for idx, opt := range opts {
		if opt.HasAttr("selected") {
			e.selectedIndex = idx
		}
	}
	if e.selectedIndex < 0 && len(opts) > 0 && !e.HasAttr("multiple") {
		e.selectedIndex = 0
	}
	e.defaultIndex = e.selectedIndex
}

func optionValue(opt *Element) string {
	if value, ok := opt.Attr("value"); ok {
		return value
	}
	return opt.TextContent()
}
