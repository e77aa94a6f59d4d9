package dom

import (
	"github.com/goliatone/go-formbuilder/pkg/element"
)

// ControlSelector matches every interactive control.
const ControlSelector = "input, textarea, select"

// ErrorStyle is the inline style applied to error nodes.
const ErrorStyle = "color: #f00"

// Controls returns the interactive controls below root in document order.
func Controls(root *Element) []*Element {
	if root == nil {
		return nil
	}
	return root.QuerySelectorAll(ControlSelector)
}

// ToggleError replaces the inline error of the field container holding
// control. Any existing error node is removed first; a non-empty message adds
// a fresh one, so a container never holds more than one. Controls outside a
// field container (hidden inputs) are left untouched.
func ToggleError(control *Element, message string) {
	if control == nil {
		return
	}
	field := control.Closest("." + element.ClassFormField)
	if field == nil {
		return
	}
	for _, existing := range field.QuerySelectorAll("." + element.ClassError) {
		existing.Remove()
	}
	if message == "" {
		return
	}
	node := NewElement("div")
	node.AddClass(element.ClassError)
	node.SetAttr("style", ErrorStyle)
	node.SetText(message)
	field.AppendChild(node)
}

// ErrorFor returns the inline error text shown for control, or "".
func ErrorFor(control *Element) string {
	if control == nil {
		return ""
	}
	field := control.Closest("." + element.ClassFormField)
	if field == nil {
		return ""
	}
	if node := field.QuerySelector("." + element.ClassError); node != nil {
		return node.TextContent()
	}
	return ""
}

// Entry is a single name/value pair of a form submission. File is set for
// file inputs.
type Entry struct {
	Name  string
	Value string
	File  *File
}

// FormData collects the entries a native form submission would send: named,
// enabled controls in document order; checkboxes and radios only when checked;
// the selected option of a select; every attached file of a file input.
// Buttons never contribute.
func FormData(form *Element) []Entry {
	var entries []Entry
	for _, control := range Controls(form) {
		name := control.Name()
		if name == "" || control.Disabled() {
			continue
		}
		switch control.Tag {
		case "input":
			switch control.Type() {
			case "checkbox", "radio":
				if control.Checked() {
					entries = append(entries, Entry{Name: name, Value: control.Value()})
				}
			case "file":
				files := control.Files()
				if len(files) == 0 {
					entries = append(entries, Entry{Name: name, File: &File{ContentType: "application/octet-stream"}})
					continue
				}
				for idx := range files {
					entries = append(entries, Entry{Name: name, File: &files[idx]})
				}
			case "submit", "button", "reset", "image":
			default:
				entries = append(entries, Entry{Name: name, Value: control.Value()})
			}
		case "select":
			if control.selectedIndex >= 0 {
				entries = append(entries, Entry{Name: name, Value: control.Value()})
			}
		default:
			entries = append(entries, Entry{Name: name, Value: control.Value()})
		}
	}
	return entries
}

// Reset restores every control below form to its default state.
func Reset(form *Element) {
	for _, control := range Controls(form) {
		control.Reset()
	}
}
