package dom

// Page is a host document: an html root with head and body and an optional
// currently executing script element.
type Page struct {
	Root *Element
	Head *Element
	Body *Element

	// CurrentScript is the script element a host embed runs from. Containers
	// created without a selector are inserted right after it.
	CurrentScript *Element
}

// NewPage creates an empty document.
func NewPage() *Page {
	root := NewElement("html")
	head := root.AppendChild(NewElement("head"))
	body := root.AppendChild(NewElement("body"))
	return &Page{Root: root, Head: head, Body: body}
}

// AddScript appends a script element to body and makes it the current
// script.
func (p *Page) AddScript(src string) *Element {
	script := NewElement("script")
	if src != "" {
		script.SetAttr("src", src)
	}
	p.Body.AppendChild(script)
	p.CurrentScript = script
	return script
}

// QuerySelector searches the whole document.
func (p *Page) QuerySelector(selector string) *Element {
	return p.Root.QuerySelector(selector)
}

// QuerySelectorAll searches the whole document.
func (p *Page) QuerySelectorAll(selector string) []*Element {
	return p.Root.QuerySelectorAll(selector)
}

// GetElementByID searches the whole document.
func (p *Page) GetElementByID(id string) *Element {
	return p.Root.GetElementByID(id)
}

// Click dispatches a click on target, which lets document level listeners
// such as the custom select outside-click handler observe it.
func (p *Page) Click(target *Element) *Event {
	if target == nil {
		target = p.Body
	}
	return target.Click()
}
