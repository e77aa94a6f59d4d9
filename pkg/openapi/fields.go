package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Vendor extensions read from property schemas.
const (
	ExtensionLabel   = "x-formbuilder-label"
	ExtensionType    = "x-formbuilder-type"
	ExtensionOrder   = "x-formbuilder-order"
	ExtensionMessage = "x-formbuilder-message"
)

// DefaultSearchableThreshold is the enum size above which a custom-select is
// produced instead of a plain select.
const DefaultSearchableThreshold = 10

// Option configures field derivation.
type Option func(*config)

type config struct {
	searchable  int
	submitLabel string
	includeRead bool
}

// WithSearchableThreshold changes the enum size above which custom-select is
// used. Zero or less always uses select.
func WithSearchableThreshold(n int) Option {
	return func(c *config) {
		c.searchable = n
	}
}

// WithSubmitButton appends a button keyed "submit" carrying label.
func WithSubmitButton(label string) Option {
	return func(c *config) {
		c.submitLabel = label
	}
}

// WithReadOnly keeps readOnly properties, rendered as hidden fields.
func WithReadOnly() Option {
	return func(c *config) {
		c.includeRead = true
	}
}

// Fields converts the request body of op into field definitions. Properties
// are ordered by x-formbuilder-order then name. Object and array properties
// have no field representation and are skipped.
func Fields(op Operation, opts ...Option) ([]model.Field, error) {
	cfg := config{searchable: DefaultSearchableThreshold}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	body := op.requestSchema()
	if body == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body schema", op.ID)
	}
	if len(body.Properties) == 0 {
		return nil, fmt.Errorf("openapi: operation %q request body has no properties", op.ID)
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(body.Properties[names[i]]), order(body.Properties[names[j]])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})

	fields := make([]model.Field, 0, len(names)+1)
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := cfg.field(name, ref.Value, required[name])
		if ok {
			fields = append(fields, field)
		}
	}
	if cfg.submitLabel != "" {
		fields = append(fields, model.Field{Key: "submit", Label: cfg.submitLabel, Type: model.FieldTypeButton})
	}
	return fields, nil
}

func (c config) field(name string, schema *openapi3.Schema, required bool) (model.Field, bool) {
	field := model.Field{
		Key:          name,
		Label:        label(name, schema),
		DefaultValue: stringify(schema.Default),
	}

	if schema.ReadOnly {
		if !c.includeRead {
			return model.Field{}, false
		}
		field.Type = model.FieldTypeHidden
		return field, true
	}

	types := schema.Type
	switch {
	case len(schema.Enum) > 0:
		field.Options = enumOptions(schema.Enum)
		field.Type = model.FieldTypeSelect
		if c.searchable > 0 && len(field.Options) > c.searchable {
			field.Type = model.FieldTypeCustomSelect
		}
	case types.Is(openapi3.TypeBoolean):
		field.Type = model.FieldTypeCheckbox
	case types.Is(openapi3.TypeInteger), types.Is(openapi3.TypeNumber):
		field.Type = model.FieldTypeNumber
	case types.Is(openapi3.TypeString), types == nil:
		field.Type = model.FieldTypeText
		if schema.Format == "textarea" {
			field.Type = model.FieldTypeTextarea
		}
	default:
		return model.Field{}, false
	}
	if override, ok := schema.Extensions[ExtensionType].(string); ok && model.FieldType(override).Known() {
		field.Type = model.FieldType(override)
	}

	message, _ := schema.Extensions[ExtensionMessage].(string)
	rule := func(kind model.RuleKind, value string) model.ValidationRule {
		return model.ValidationRule{Kind: kind, Value: value, Message: message}
	}
	if required {
		field.Validations = append(field.Validations, rule(model.RuleRequired, "true"))
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, rule(model.RuleMaxLength, strconv.FormatUint(*schema.MaxLength, 10)))
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, rule(model.RulePattern, schema.Pattern))
	}
	if schema.Min != nil {
		field.Validations = append(field.Validations, rule(model.RuleMin, formatFloat(*schema.Min)))
	}
	if schema.Max != nil {
		field.Validations = append(field.Validations, rule(model.RuleMax, formatFloat(*schema.Max)))
	}
	return field, true
}

func order(ref *openapi3.SchemaRef) float64 {
	if ref == nil || ref.Value == nil {
		return math.MaxFloat64
	}
	switch v := ref.Value.Extensions[ExtensionOrder].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return math.MaxFloat64
	}
}

func label(name string, schema *openapi3.Schema) string {
	if value, ok := schema.Extensions[ExtensionLabel].(string); ok && value != "" {
		return value
	}
	if schema.Title != "" {
		return schema.Title
	}
	return humanize(name)
}

// humanize turns "first_name" or "firstName" into "First name".
func humanize(name string) string {
	var builder strings.Builder
	prevLower := false
	for idx, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			builder.WriteRune(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			builder.WriteRune(' ')
			r = unicode.ToLower(r)
		case idx > 0:
			r = unicode.ToLower(r)
		}
		if idx == 0 {
			r = unicode.ToUpper(r)
		}
		builder.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return builder.String()
}

func enumOptions(values []any) []model.Option {
	options := make([]model.Option, 0, len(values))
	for _, value := range values {
		text := stringify(value)
		if text == "" {
			continue
		}
		options = append(options, model.Option{Label: text, Value: text})
	}
	return options
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatFloat(v)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Source derives fields from an operation on every Load, satisfying
// transport.FieldSource.
type Source struct {
	load      func(ctx context.Context) (*Document, error)
	operation string
	opts      []Option
}

// NewSource returns a source that loads a document with load and converts
// operationID.
func NewSource(load func(ctx context.Context) (*Document, error), operationID string, opts ...Option) *Source {
	return &Source{load: load, operation: operationID, opts: opts}
}

// NewFileSource reads the document at path on every Load.
func NewFileSource(path, operationID string, opts ...Option) *Source {
	return NewSource(func(ctx context.Context) (*Document, error) {
		return LoadFile(ctx, path)
	}, operationID, opts...)
}

// Load implements transport.FieldSource.
func (s *Source) Load(ctx context.Context) ([]model.Field, error) {
	if s == nil || s.load == nil {
		return nil, errors.New("openapi: source loader is nil")
	}
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	op, err := doc.Operation(s.operation)
	if err != nil {
		return nil, err
	}
	return Fields(op, s.opts...)
}
