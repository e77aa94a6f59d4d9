package dom

import (
	"slices"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

// File is an attached upload on a file input.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Element is a live node. Text nodes have an empty Tag.
type Element struct {
	Tag string

	attrs    []element.Attr
	classes  []string
	text     string
	parent   *Element
	children []*Element

	value          string
	checked        bool
	selectedIndex  int
	files          []File
	defaultValue   string
	defaultChecked bool
	defaultIndex   int
	dirty          bool

	listeners map[string][]Listener
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{Tag: strings.ToLower(tag), selectedIndex: -1, defaultIndex: -1}
}

// NewText creates a detached text node.
func NewText(value string) *Element {
	return &Element{text: value}
}

// IsText reports whether e is a text node.
func (e *Element) IsText() bool {
	return e.Tag == ""
}

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// Root returns the top-most ancestor of e.
func (e *Element) Root() *Element {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for cursor := other; cursor != nil; cursor = cursor.parent {
		if cursor == e {
			return true
		}
	}
	return false
}

// ID returns the id attribute.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

// Name returns the name attribute.
func (e *Element) Name() string {
	name, _ := e.Attr("name")
	return name
}

// Type returns the lower-cased type attribute.
func (e *Element) Type() string {
	kind, _ := e.Attr("type")
	return strings.ToLower(kind)
}

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	if name == "class" {
		return strings.Join(e.classes, " "), len(e.classes) > 0
	}
	for _, attr := range e.attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Attrs returns the ordered attribute list, excluding class.
func (e *Element) Attrs() []element.Attr {
	return slices.Clone(e.attrs)
}

// SetAttr assigns an attribute. Setting value on a pristine control also
// updates its current value, the way the browser treats the default value.
func (e *Element) SetAttr(name, value string) {
	if name == "class" {
		e.classes = strings.Fields(value)
		return
	}
	for idx := range e.attrs {
		if e.attrs[idx].Name == name {
			e.attrs[idx].Value = value
			e.syncDefaults(name)
			return
		}
	}
	e.attrs = append(e.attrs, element.Attr{Name: name, Value: value})
	e.syncDefaults(name)
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) {
	e.attrs = slices.DeleteFunc(e.attrs, func(attr element.Attr) bool { return attr.Name == name })
	e.syncDefaults(name)
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

func (e *Element) syncDefaults(name string) {
	switch {
	case name == "value" && e.Tag == "input":
		e.defaultValue, _ = e.Attr("value")
		if !e.dirty {
			e.value = e.defaultValue
		}
	case name == "checked" && e.Tag == "input":
		e.defaultChecked = e.HasAttr("checked")
		if !e.dirty {
			e.checked = e.defaultChecked
		}
	}
}

// Classes returns the class list.
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

// HasClass reports whether class is set.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

// AddClass adds classes that are not present yet.
func (e *Element) AddClass(classes ...string) {
	for _, class := range classes {
		if class != "" && !slices.Contains(e.classes, class) {
			e.classes = append(e.classes, class)
		}
	}
}

// RemoveClass removes a class.
func (e *Element) RemoveClass(class string) {
	e.classes = slices.DeleteFunc(e.classes, func(candidate string) bool { return candidate == class })
}

// ToggleClass flips a class and reports whether it is now present.
func (e *Element) ToggleClass(class string) bool {
	if e.HasClass(class) {
		e.RemoveClass(class)
		return false
	}
	e.AddClass(class)
	return true
}

// OwnText returns the text stored directly on e.
func (e *Element) OwnText() string {
	return e.text
}

// TextContent concatenates the text of e and its descendants.
func (e *Element) TextContent() string {
	var builder strings.Builder
	e.walk(func(node *Element) bool {
		builder.WriteString(node.text)
		return true
	})
	return builder.String()
}

// SetText replaces the children of e with its own text, like assigning
// textContent.
func (e *Element) SetText(value string) {
	for _, child := range e.children {
		child.parent = nil
	}
	e.children = nil
	e.text = value
	if e.Tag == "textarea" {
		e.defaultValue = value
		if !e.dirty {
			e.value = value
		}
	}
}

// AppendChild attaches child as the last child of e, detaching it from any
// previous parent.
func (e *Element) AppendChild(child *Element) *Element {
	if child == nil {
		return nil
	}
	child.Remove()
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// InsertAfter places child directly after ref, which must be a child of e.
func (e *Element) InsertAfter(child, ref *Element) *Element {
	if child == nil {
		return nil
	}
	idx := slices.Index(e.children, ref)
	if idx < 0 {
		return e.AppendChild(child)
	}
	child.Remove()
	child.parent = e
	e.children = slices.Insert(e.children, idx+1, child)
	return child
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child *Element) {
	idx := slices.Index(e.children, child)
	if idx < 0 {
		return
	}
	e.children = slices.Delete(e.children, idx, idx+1)
	child.parent = nil
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

func (e *Element) walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, child := range e.children {
		child.walk(fn)
	}
}

// Mount turns a structural description into a detached live subtree.
func Mount(node *element.Node) *Element {
	if node == nil {
		return nil
	}
	if node.IsText() {
		return NewText(node.Text)
	}
	el := NewElement(node.Tag)
	el.classes = slices.Clone(node.Classes)
	for _, attr := range node.Attrs {
		el.SetAttr(attr.Name, attr.Value)
	}
	if node.Text != "" {
		el.SetText(node.Text)
	}
	for _, child := range node.Children {
		el.AppendChild(Mount(child))
	}
	if el.Tag == "select" {
		el.initSelect()
	}
	return el
}

// Snapshot converts a live subtree back into a structural description,
// reflecting the current value and checked state so it can be serialised.
func Snapshot(e *Element) *element.Node {
	if e == nil {
		return nil
	}
	if e.IsText() {
		return element.Text(e.text)
	}
	node := element.New(e.Tag)
	node.Classes = slices.Clone(e.classes)
	node.Attrs = slices.Clone(e.attrs)
	node.Text = e.text
	if e.Tag == "textarea" {
		node.Text = e.value
	}
	for _, child := range e.children {
		node.Append(Snapshot(child))
	}
	return node
}
