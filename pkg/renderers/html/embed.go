package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// Asset file names inside AssetsFS.
const (
	StylesheetName    = "formbuilder.css"
	RuntimeScriptName = "formbuilder.js"
)

// Theme asset keys resolved through the theme before falling back to the
// bundled files.
const (
	AssetKeyStylesheet = "formbuilder.stylesheet"
	AssetKeyRuntime    = "formbuilder.runtime"
)

// TemplatesFS exposes the bundled form and page templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the stylesheet and browser runtime so hosts can serve them.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
