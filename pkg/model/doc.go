// Package model defines the field-definition document a form is built from.
// A document is an ordered list of Field values; each field names a control
// type, an optional option list for choice controls, and an ordered list of
// ValidationRule values. Rule order is significant: evaluation stops at the
// first violated rule, so earlier rules take precedence. Definitions decode
// from JSON (the wire format served by the field endpoint) or YAML for local
// authoring, and Check lints a document before it is published.
package model
