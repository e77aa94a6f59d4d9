package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/transport"
)

func writeDoc(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunLint(t *testing.T) {
	valid := writeDoc(t, "ok.yaml", "- key: name\n  label: Name\n  type: text\n")
	broken := writeDoc(t, "broken.json", `[
		{"key": "name", "label": "Name", "type": "text"},
		{"key": "name", "label": "Again", "type": "text"},
		{"key": "size", "label": "Size", "type": "select"}
	]`)

	if err := runLint(context.Background(), []string{valid}); err != nil {
		t.Fatalf("lint valid document: %v", err)
	}
	if err := runLint(context.Background(), []string{valid, broken}); err == nil {
		t.Fatalf("expected lint failure for %s", broken)
	}
	if err := runLint(context.Background(), nil); err == nil {
		t.Fatalf("expected error without paths")
	}
}

func TestFieldSourceSelection(t *testing.T) {
	cfg := config.Default()
	logger := zerolog.Nop()

	cases := []struct {
		name      string
		raw       string
		operation string
		check     func(t *testing.T, got transport.FieldSource)
	}{
		{
			name: "file",
			raw:  "forms/contact.json",
			check: func(t *testing.T, got transport.FieldSource) {
				if _, ok := got.(transport.FileSource); !ok {
					t.Fatalf("got %T, want transport.FileSource", got)
				}
			},
		},
		{
			name: "url",
			raw:  "https://api.example.com/contact.json",
			check: func(t *testing.T, got transport.FieldSource) {
				source, ok := got.(*transport.HTTPSource)
				if !ok {
					t.Fatalf("got %T, want *transport.HTTPSource", got)
				}
				if source.URL() != "https://api.example.com/contact.json" {
					t.Fatalf("url = %q", source.URL())
				}
			},
		},
		{
			name:      "openapi",
			raw:       "openapi.yaml",
			operation: "createContact",
			check: func(t *testing.T, got transport.FieldSource) {
				if _, ok := got.(*openapi.Source); !ok {
					t.Fatalf("got %T, want *openapi.Source", got)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fieldSource(tc.raw, tc.operation, &cfg, logger)
			if err != nil {
				t.Fatalf("fieldSource: %v", err)
			}
			tc.check(t, got)
		})
	}

	if _, err := fieldSource("  ", "", &cfg, logger); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

func TestThemeConfig(t *testing.T) {
	rc, err := themeConfig("", "dark")
	if err != nil {
		t.Fatalf("themeConfig: %v", err)
	}
	if rc.Variant != "dark" || rc.CSSVars["--brand"] != "#60a5fa" {
		t.Fatalf("unexpected renderer config: %+v", rc)
	}
	if _, err := themeConfig("missing", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}
