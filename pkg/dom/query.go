package dom

import (
	"strings"
)

type attrMatch struct {
	name     string
	value    string
	hasValue bool
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

// parseSelector understands comma separated compound selectors built from a
// tag, #id, .class, [attr] and [attr=value]. Combinators are not supported.
func parseSelector(selector string) []compound {
	var out []compound
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, parseCompound(part))
	}
	return out
}

func parseCompound(raw string) compound {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(raw) && !strings.ContainsRune("#.[", rune(raw[i])) {
			i++
		}
		return raw[start:i]
	}

	c.tag = strings.ToLower(readIdent())
	if c.tag == "*" {
		c.tag = ""
	}
	for i < len(raw) {
		switch raw[i] {
		case '#':
			i++
			c.id = readIdent()
		case '.':
			i++
			c.classes = append(c.classes, readIdent())
		case '[':
			end := strings.IndexByte(raw[i:], ']')
			if end < 0 {
				end = len(raw) - i
			}
			body := raw[i+1 : i+end]
			i += end + 1
			match := attrMatch{name: strings.TrimSpace(body)}
			if name, value, ok := strings.Cut(body, "="); ok {
				match.name = strings.TrimSpace(name)
				match.value = strings.Trim(strings.TrimSpace(value), `"'`)
				match.hasValue = true
			}
			c.attrs = append(c.attrs, match)
		default:
			i++
		}
	}
	return c
}

func (c compound) matches(e *Element) bool {
	if e.IsText() {
		return false
	}
	if c.tag != "" && c.tag != e.Tag {
		return false
	}
	if c.id != "" && c.id != e.ID() {
		return false
	}
	for _, class := range c.classes {
		if !e.HasClass(class) {
			return false
		}
	}
	for _, attr := range c.attrs {
		value, ok := e.Attr(attr.name)
		if !ok || (attr.hasValue && value != attr.value) {
			return false
		}
	}
	return true
}

// Matches reports whether e matches selector.
func (e *Element) Matches(selector string) bool {
	for _, c := range parseSelector(selector) {
		if c.matches(e) {
			return true
		}
	}
	return false
}

// QuerySelectorAll returns descendants of e matching selector in document
// order.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	compounds := parseSelector(selector)
	if len(compounds) == 0 {
		return nil
	}
	var out []*Element
	for _, child := range e.children {
		child.walk(func(node *Element) bool {
			for _, c := range compounds {
				if c.matches(node) {
					out = append(out, node)
					break
				}
			}
			return true
		})
	}
	return out
}

// QuerySelector returns the first descendant matching selector.
func (e *Element) QuerySelector(selector string) *Element {
	if found := e.QuerySelectorAll(selector); len(found) > 0 {
		return found[0]
	}
	return nil
}

// Closest returns e or its nearest ancestor matching selector.
func (e *Element) Closest(selector string) *Element {
	compounds := parseSelector(selector)
	for cursor := e; cursor != nil; cursor = cursor.parent {
		for _, c := range compounds {
			if c.matches(cursor) {
				return cursor
			}
		}
	}
	return nil
}

// GetElementByID searches the subtree rooted at e.
func (e *Element) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	e.walk(func(node *Element) bool {
		if found != nil {
			return false
		}
		if !node.IsText() && node.ID() == id {
			found = node
			return false
		}
		return true
	})
	return found
}
