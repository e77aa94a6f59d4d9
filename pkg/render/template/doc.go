// Package template defines the template engine seam used by the HTML
// renderer. github.com/goliatone/go-template's Engine satisfies it and is the
// default; the gotemplate subpackage provides a pongo2 engine that layers a
// directory over an fs.FS and adds the trim and tojson filters.
package template
