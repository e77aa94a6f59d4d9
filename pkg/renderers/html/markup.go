package html

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/element"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// textSanitizer strips every tag from label and message text. The result is
// already entity-escaped.
func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// plainText is the sanitized text without entity escaping.
func plainText(text string) string {
	if text == "" {
		return ""
	}
	return html.UnescapeString(textSanitizer().Sanitize(text))
}

var voidElements = map[string]bool{
	"input": true,
	"br":    true,
	"hr":    true,
	"img":   true,
	"meta":  true,
	"link":  true,
}

// Markup serialises a node tree. Attributes keep their declared order, the
// class list comes first and empty attribute values are written bare.
func Markup(nodes ...*element.Node) string {
	var b strings.Builder
	for _, node := range nodes {
		writeNode(&b, node)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *element.Node) {
	if n == nil {
		return
	}
	if n.IsText() {
		b.WriteString(textSanitizer().Sanitize(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	if len(n.Classes) > 0 {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(strings.Join(n.Classes, " ")))
		b.WriteByte('"')
	}
	for _, attr := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		if attr.Value == "" && bareAttr(attr.Name) {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if voidElements[n.Tag] {
		return
	}

	if n.Text != "" {
		b.WriteString(textSanitizer().Sanitize(n.Text))
	}
	for _, child := range n.Children {
		writeNode(b, child)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

func bareAttr(name string) bool {
	switch name {
	case "novalidate", "required", "checked", "selected", "disabled", "multiple", "readonly":
		return true
	default:
		return false
	}
}
