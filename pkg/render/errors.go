package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrorMapping splits a server error payload into messages keyed by field
// key and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload resolves the paths of a server error payload (plain keys,
// JSON pointers such as "/body/email" or dotted paths such as
// "data.email") to field keys. Unknown paths are treated as form-level errors
// so messages are not lost.
func MapErrorPayload(fields []model.Field, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	fieldPaths := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if key := strings.TrimSpace(field.Key); key != "" {
			fieldPaths[key] = struct{}{}
		}
	}

	paths := make([]string, 0, len(payload))
	for path := range payload {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, rawPath := range paths {
		messages := payload[rawPath]
		normalizedMessages := normalizeMessages(messages)
		if len(normalizedMessages) == 0 {
			continue
		}

		mapped, formLevel := mapErrorPath(rawPath, fieldPaths)
		if formLevel || mapped == "" {
			mapping.Form = append(mapping.Form, normalizedMessages...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], normalizedMessages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// mapErrorPath resolves raw to a field key. The leftmost, longest run of path
// segments naming a field wins, so wrappers ("body", "data") and list indices
// around the key are skipped and dotted keys still match whole.
func mapErrorPath(raw string, fieldPaths map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}
	if _, ok := fieldPaths[trimmed]; ok {
		return trimmed, false
	}

	segments := splitErrorPath(trimmed)
	for start := range segments {
		for end := len(segments); end > start; end-- {
			candidate := strings.Join(segments[start:end], ".")
			if _, ok := fieldPaths[candidate]; ok {
				return candidate, false
			}
		}
	}
	return "", true
}

// splitErrorPath breaks JSON pointers ("/body/email", "#/email"), JSONPath
// ("$.items[0].name") and dotted paths into segments.
func splitErrorPath(path string) []string {
	clean := strings.TrimLeft(path, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := parts[:0]
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

// ParseErrorPayload decodes the error body of a rejected submission. It
// accepts {"errors": {path: [messages] | message}}, {"errors": [{"field",
// "message"}]} and a bare {"message": "..."}, which becomes a form-level
// error under the empty path.
func ParseErrorPayload(body []byte) (map[string][]string, error) {
	var envelope struct {
		Errors  json.RawMessage `json:"errors"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("render: decode error payload: %w", err)
	}

	out := make(map[string][]string)
	if envelope.Message != "" {
		out[""] = append(out[""], envelope.Message)
	}
	if len(envelope.Errors) == 0 || string(envelope.Errors) == "null" {
		if len(out) == 0 {
			return nil, errors.New("render: error payload carries no errors")
		}
		return out, nil
	}

	var byPath map[string]json.RawMessage
	if err := json.Unmarshal(envelope.Errors, &byPath); err == nil {
		for path, raw := range byPath {
			var list []string
			if err := json.Unmarshal(raw, &list); err == nil {
				out[path] = append(out[path], list...)
				continue
			}
			var single string
			if err := json.Unmarshal(raw, &single); err != nil {
				return nil, fmt.Errorf("render: errors.%s: expected string or list", path)
			}
			out[path] = append(out[path], single)
		}
		return out, nil
	}

	var entries []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Errors, &entries); err != nil {
		return nil, fmt.Errorf("render: decode errors: %w", err)
	}
	for _, entry := range entries {
		path := entry.Field
		if path == "" {
			path = entry.Path
		}
		out[path] = append(out[path], entry.Message)
	}
	return out, nil
}
