package dom

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrNotCustomSelect is returned when BindCustomSelect receives a subtree that
// lacks the custom select parts.
var ErrNotCustomSelect = errors.New("dom: element is not a custom select")

// CustomSelect drives a mounted custom select: the selected display toggles
// the option panel, the search box filters options by label, choosing an
// option stores its value in the hidden input, and a click outside the open
// panel closes it. Every close dispatches change on the hidden input so live
// validation runs.
type CustomSelect struct {
	root     *Element
	hidden   *Element
	selected *Element
	content  *Element
	search   *Element
	options  []model.Option
	outside  bool
}

// BindCustomSelect attaches behaviour to a div.custom-select subtree built by
// the element factory. The outside-click listener is installed on the
// top-most ancestor the first time the panel opens, so bind after the form is
// attached to its document.
func BindCustomSelect(root *Element, options []model.Option) (*CustomSelect, error) {
	if root == nil || !root.HasClass(element.ClassCustomSelect) {
		return nil, ErrNotCustomSelect
	}
	cs := &CustomSelect{
		root:     root,
		hidden:   root.QuerySelector(`input[type=hidden]`),
		selected: root.QuerySelector("." + element.ClassSelected),
		content:  root.QuerySelector("." + element.ClassItemsContent),
		search:   root.QuerySelector("." + element.ClassSearch),
		options:  options,
	}
	if cs.hidden == nil || cs.selected == nil || cs.content == nil || cs.search == nil {
		return nil, fmt.Errorf("%w: missing parts", ErrNotCustomSelect)
	}

	cs.selected.AddEventListener(EventClick, cs.onSelectedClick)
	cs.search.AddEventListener(EventInput, func(*Event) { cs.renderItems() })
	cs.bindItems()
	return cs, nil
}

// Hidden returns the hidden input carrying the chosen value.
func (cs *CustomSelect) Hidden() *Element {
	return cs.hidden
}

// Display returns the text of the selected display.
func (cs *CustomSelect) Display() string {
	return cs.selected.TextContent()
}

// Open reports whether the option panel is shown.
func (cs *CustomSelect) Open() bool {
	return cs.content.HasClass(element.ClassShow)
}

// Toggle clicks the selected display.
func (cs *CustomSelect) Toggle() {
	cs.selected.Click()
}

// Search types query into the search box.
func (cs *CustomSelect) Search(query string) {
	cs.search.SetValue(query)
	cs.search.Dispatch(EventInput)
}

// Visible returns the option values currently listed.
func (cs *CustomSelect) Visible() []string {
	var out []string
	for _, item := range cs.items() {
		value, _ := item.Attr(element.AttrDataValue)
		out = append(out, value)
	}
	return out
}

// Choose clicks the listed item carrying value.
func (cs *CustomSelect) Choose(value string) error {
	for _, item := range cs.items() {
		if candidate, _ := item.Attr(element.AttrDataValue); candidate == value {
			item.Click()
			return nil
		}
	}
	return fmt.Errorf("dom: option %q is not listed", value)
}

func (cs *CustomSelect) items() []*Element {
	return cs.content.QuerySelectorAll("." + element.ClassItem)
}

func (cs *CustomSelect) onSelectedClick(ev *Event) {
	ev.StopPropagation()
	ev.PreventDefault()
	if cs.content.ToggleClass(element.ClassShow) {
		cs.watchOutside()
		return
	}
	cs.closeAndReset()
}

func (cs *CustomSelect) watchOutside() {
	if cs.outside {
		return
	}
	cs.outside = true
	cs.root.Root().AddEventListener(EventClick, func(ev *Event) {
		if cs.Open() && !cs.content.Contains(ev.Target) {
			cs.content.RemoveClass(element.ClassShow)
			cs.closeAndReset()
		}
	})
}

func (cs *CustomSelect) closeAndReset() {
	cs.search.SetValue("")
	cs.renderItems()
	cs.hidden.Dispatch(EventChange)
}

func (cs *CustomSelect) renderItems() {
	if list := cs.content.QuerySelector("." + element.ClassItems); list != nil {
		list.Remove()
	}
	filtered := element.FilterOptions(cs.options, cs.search.Value())
	cs.content.AppendChild(Mount(element.OptionList(filtered, cs.hidden.Value())))
	cs.bindItems()
}

func (cs *CustomSelect) bindItems() {
	list := cs.content.QuerySelector("." + element.ClassItems)
	if list == nil {
		return
	}
	list.AddEventListener(EventClick, func(ev *Event) {
		item := ev.Target.Closest("." + element.ClassItem)
		if item == nil {
			return
		}
		if active := cs.content.QuerySelector("." + element.ClassItem + "." + element.ClassActive); active != nil {
			active.RemoveClass(element.ClassActive)
		}
		item.AddClass(element.ClassActive)
		cs.selected.SetText(item.TextContent())
		value, _ := item.Attr(element.AttrDataValue)
		cs.hidden.SetValue(value)
		cs.content.RemoveClass(element.ClassShow)
		cs.hidden.Dispatch(EventChange)
	})
}
