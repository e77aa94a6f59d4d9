package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/transport"
)

// ErrFormNotFound reports a form id the store has no document for.
var ErrFormNotFound = errors.New("server: form not found")

// Store resolves the field document of a form.
type Store interface {
	Load(ctx context.Context, formID string) ([]model.Field, error)
}

// MapStore serves fixed definitions, mainly for tests and demos.
type MapStore map[string][]model.Field

// Load implements Store.
func (m MapStore) Load(ctx context.Context, formID string) ([]model.Field, error) {
	fields, ok := m[formID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, formID)
	}
	return transport.StaticSource(fields).Load(ctx)
}

// DirStore reads {formID}.json, {formID}.yaml or {formID}.yml from an fs.FS.
type DirStore struct {
	FS fs.FS
}

var documentExtensions = []string{".json", ".yaml", ".yml"}

// Load implements Store.
func (d DirStore) Load(ctx context.Context, formID string) ([]model.Field, error) {
	if d.FS == nil {
		return nil, errors.New("server: store fs is nil")
	}
	if !validFormID(formID) {
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, formID)
	}
	for _, ext := range documentExtensions {
		name := formID + ext
		if _, err := fs.Stat(d.FS, name); err != nil {
			continue
		}
		return transport.FSSource{FS: d.FS, Name: name}.Load(ctx)
	}
	return nil, fmt.Errorf("%w: %s", ErrFormNotFound, formID)
}

func validFormID(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") {
		return false
	}
	return fs.ValidPath(id) && !strings.Contains(id, "/")
}
