// Package element maps field definitions onto structural node descriptions.
//
// The factory is pure: Build returns a Node tree describing the control
// (tag, ordered attributes, classes, text and children) without touching a
// live document. pkg/dom mounts these trees into live elements and
// pkg/renderers/html serialises them to markup, so the same description backs
// both the in-process controller and the browser output.
package element
