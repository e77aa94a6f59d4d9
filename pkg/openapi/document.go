package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Document is a loaded OpenAPI description.
type Document struct {
	spec *openapi3.T
}

// LoadOption configures document loading.
type LoadOption func(*loadConfig)

type loadConfig struct {
	validate     bool
	externalRefs bool
}

// WithValidation validates the document after loading, skipping examples.
func WithValidation() LoadOption {
	return func(c *loadConfig) {
		c.validate = true
	}
}

// WithExternalRefs allows references to other files or URLs.
func WithExternalRefs() LoadOption {
	return func(c *loadConfig) {
		c.externalRefs = true
	}
}

func newLoader(ctx context.Context, cfg loadConfig) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = cfg.externalRefs
	return loader
}

func finish(ctx context.Context, spec *openapi3.T, cfg loadConfig) (*Document, error) {
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return &Document{spec: spec}, nil
}

func applyLoadOptions(opts []LoadOption) loadConfig {
	var cfg loadConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Parse loads a document from raw JSON or YAML.
func Parse(ctx context.Context, raw []byte, opts ...LoadOption) (*Document, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	cfg := applyLoadOptions(opts)
	spec, err := newLoader(ctx, cfg).LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return finish(ctx, spec, cfg)
}

// LoadFile loads a document from disk. Relative references resolve against
// the file location when external references are allowed.
func LoadFile(ctx context.Context, path string, opts ...LoadOption) (*Document, error) {
	if path == "" {
		return nil, errors.New("openapi: file path is required")
	}
	cfg := applyLoadOptions(opts)
	spec, err := newLoader(ctx, cfg).LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", path, err)
	}
	return finish(ctx, spec, cfg)
}

// LoadFS loads a document stored in files.
func LoadFS(ctx context.Context, files fs.FS, name string, opts ...LoadOption) (*Document, error) {
	if files == nil {
		return nil, errors.New("openapi: fs is nil")
	}
	raw, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return Parse(ctx, raw, opts...)
}

// LoadURL fetches a remote document. External references are always
// allowed since the document itself is remote.
func LoadURL(ctx context.Context, raw string, opts ...LoadOption) (*Document, error) {
	location, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	cfg := applyLoadOptions(opts)
	cfg.externalRefs = true
	spec, err := newLoader(ctx, cfg).LoadFromURI(location)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", raw, err)
	}
	return finish(ctx, spec, cfg)
}

// Operation is a single method on a path.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string

	op *openapi3.Operation
}

// Operations lists every operation sorted by ID. Operations without an
// operationId are named "method:path".
func (d *Document) Operations() []Operation {
	var out []Operation
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			out = append(out, Operation{
				ID:      id,
				Method:  strings.ToUpper(method),
				Path:    path,
				Summary: op.Summary,
				op:      op,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Operation returns the operation with id.
func (d *Document) Operation(id string) (Operation, error) {
	for _, op := range d.Operations() {
		if op.ID == id {
			return op, nil
		}
	}
	return Operation{}, fmt.Errorf("openapi: operation %q not found", id)
}

// requestSchema picks the request body schema, preferring form encodings and
// then JSON.
func (o Operation) requestSchema() *openapi3.Schema {
	if o.op == nil || o.op.RequestBody == nil || o.op.RequestBody.Value == nil {
		return nil
	}
	content := o.op.RequestBody.Value.Content
	for _, mediaType := range []string{"multipart/form-data", "application/x-www-form-urlencoded", "application/json"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
