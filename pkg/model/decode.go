package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// fieldAlias avoids recursion in the custom decoders.
type fieldAlias Field

// UnmarshalJSON accepts "options" as an alias of "values" so documents
// authored against either name decode the same way.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw struct {
		fieldAlias
		AltOptions []Option `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Field(raw.fieldAlias)
	if len(f.Options) == 0 && len(raw.AltOptions) > 0 {
		f.Options = raw.AltOptions
	}
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		fieldAlias `yaml:",inline"`
		AltOptions []Option `yaml:"options"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*f = Field(raw.fieldAlias)
	if len(f.Options) == 0 && len(raw.AltOptions) > 0 {
		f.Options = raw.AltOptions
	}
	return nil
}

// DecodeJSON parses a JSON array of field definitions.
func DecodeJSON(data []byte) ([]Field, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("model: field document is empty")
	}
	var fields []Field
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("model: decode json fields: %w", err)
	}
	return fields, nil
}

// DecodeYAML parses a YAML sequence of field definitions.
func DecodeYAML(data []byte) ([]Field, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("model: field document is empty")
	}
	var fields []Field
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("model: decode yaml fields: %w", err)
	}
	return fields, nil
}
