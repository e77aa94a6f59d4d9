package transport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FieldSource yields the field definitions of a form.
type FieldSource interface {
	Load(ctx context.Context) ([]model.Field, error)
}

// FieldSourceFunc adapts a function into a FieldSource.
type FieldSourceFunc func(ctx context.Context) ([]model.Field, error)

// Load calls fn.
func (fn FieldSourceFunc) Load(ctx context.Context) ([]model.Field, error) {
	return fn(ctx)
}

// StaticSource returns inline definitions. Each Load hands out a copy.
type StaticSource []model.Field

// Load implements FieldSource.
func (s StaticSource) Load(context.Context) ([]model.Field, error) {
	return model.Clone(s), nil
}

// FileSource reads a definition document from disk. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
type FileSource struct {
	Path string
}

// Load implements FieldSource.
func (s FileSource) Load(ctx context.Context) ([]model.Field, error) {
	if s.Path == "" {
		return nil, errors.New("transport: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("transport: read %s: %w", s.Path, err)
	}
	return decode(s.Path, data)
}

// FSSource reads a definition document from an fs.FS.
type FSSource struct {
	FS   fs.FS
	Name string
}

// Load implements FieldSource.
func (s FSSource) Load(ctx context.Context) ([]model.Field, error) {
	if s.Name == "" {
		return nil, errors.New("transport: fs path is required")
	}
	if s.FS == nil {
		return nil, errors.New("transport: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.FS, s.Name)
	if err != nil {
		return nil, fmt.Errorf("transport: read %s: %w", s.Name, err)
	}
	return decode(s.Name, data)
}

func decode(name string, data []byte) ([]model.Field, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return model.DecodeYAML(data)
	default:
		return model.DecodeJSON(data)
	}
}
