package element

import "slices"

// Attr is a single ordered attribute.
type Attr struct {
	Name  string
	Value string
}

// Node describes an element or, when Tag is empty, a text node.
type Node struct {
	Tag      string
	Attrs    []Attr
	Classes  []string
	Text     string
	Children []*Node
}

// New returns an element node for tag.
func New(tag string) *Node {
	return &Node{Tag: tag}
}

// Text returns a text node.
func Text(value string) *Node {
	return &Node{Text: value}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Tag == ""
}

// Set assigns an attribute, replacing an existing value in place so the
// original declaration order is kept.
func (n *Node) Set(name, value string) *Node {
	for idx := range n.Attrs {
		if n.Attrs[idx].Name == name {
			n.Attrs[idx].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// Attr returns the attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// AddClass appends classes that are not present yet.
func (n *Node) AddClass(classes ...string) *Node {
	for _, class := range classes {
		if class == "" || slices.Contains(n.Classes, class) {
			continue
		}
		n.Classes = append(n.Classes, class)
	}
	return n
}

// HasClass reports whether class is set on n.
func (n *Node) HasClass(class string) bool {
	return n != nil && slices.Contains(n.Classes, class)
}

// SetText sets the text content of an element node.
func (n *Node) SetText(value string) *Node {
	n.Text = value
	return n
}

// Append adds children, skipping nil entries.
func (n *Node) Append(children ...*Node) *Node {
	for _, child := range children {
		if child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// Walk visits n and its descendants depth first, in document order. Returning
// false from fn stops descent below the current node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// FindAll returns every descendant (including n) matching pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(candidate *Node) bool {
		if pred(candidate) {
			out = append(out, candidate)
		}
		return true
	})
	return out
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	var out string
	n.Walk(func(candidate *Node) bool {
		out += candidate.Text
		return true
	})
	return out
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		Tag:     n.Tag,
		Attrs:   slices.Clone(n.Attrs),
		Classes: slices.Clone(n.Classes),
		Text:    n.Text,
	}
	for _, child := range n.Children {
		clone.Children = append(clone.Children, child.Clone())
	}
	return clone
}
