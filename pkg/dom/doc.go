// Package dom is a small live document model standing in for the browser
// DOM. Elements carry attributes, classes, text, children and form control
// state (value, checked, files), dispatch events to registered listeners with
// bubbling, and answer simple selector queries. Mount turns element.Node
// descriptions into live elements; FormData and Reset follow native form
// semantics.
package dom
