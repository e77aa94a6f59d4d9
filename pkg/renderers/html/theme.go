package html

import (
	"fmt"
	"maps"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the bundled manifest.
const DefaultThemeName = "default"

// DefaultManifest returns the bundled theme with a "dark" variant. Its tokens
// feed the CSS variables the stylesheet reads.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":  "#2563eb",
			"border": "#d1d5db",
			"error":  "#dc2626",
			"radius": "4px",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand":  "#60a5fa",
					"border": "#374151",
					"error":  "#f87171",
				},
			},
		},
	}
}

// ManifestSelector resolves themes from registered manifests. An empty name
// selects the default theme and an unknown variant falls back to the base
// manifest.
type ManifestSelector struct {
	DefaultTheme   string
	DefaultVariant string

	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests by name.
func NewManifestSelector(defaultTheme string, manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{DefaultTheme: defaultTheme, manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if manifest != nil && manifest.Name != "" {
			s.manifests[manifest.Name] = manifest
		}
	}
	return s
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.DefaultTheme
	}
	if variant == "" {
		variant = s.DefaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("html: theme %q not registered", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig derives the renderer configuration from a selection:
// fallbacks, then manifest templates, then variant templates form the
// partials; variant tokens override base tokens; every token becomes a
// --token CSS variable; asset keys resolve against the manifest asset prefix.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	partials := maps.Clone(fallbacks)
	if partials == nil {
		partials = make(map[string]string)
	}
	maps.Copy(partials, manifest.Templates)
	tokens := make(map[string]string, len(manifest.Tokens))
	maps.Copy(tokens, manifest.Tokens)
	files := make(map[string]string, len(manifest.Assets.Files))
	maps.Copy(files, manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(partials, variant.Templates)
		maps.Copy(tokens, variant.Tokens)
		maps.Copy(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// themeContext is the template view of a renderer configuration.
type themeContext struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"css_vars,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
	InlineStyle  string            `json:"inline_style,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	ctx := themeContext{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  maps.Clone(cfg.Tokens),
		CSSVars: maps.Clone(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	ctx.InlineStyle = cssVarsInline(ctx.CSSVars)
	return ctx
}

func sortedKeys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(".form-container {\n")
	for _, key := range sortedKeys(vars) {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func cssVarsInline(vars map[string]string) string {
	parts := make([]string, 0, len(vars))
	for _, key := range sortedKeys(vars) {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
