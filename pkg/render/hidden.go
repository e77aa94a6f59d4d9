package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Names of the identifying hidden inputs every form carries first.
const (
	HiddenFormID   = "formId"
	HiddenTenantID = "tenantId"
)

// HiddenField is an extra hidden input rendered after the identifying
// inputs.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken carries a CSRF token under the backend's expected name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// HiddenInputs returns the hidden inputs for form in render order: formId,
// tenantId, then extra sorted by name. Extras may not shadow the identifying
// inputs; later extras win on name collisions and empty names are dropped.
func HiddenInputs(form model.Form, extra ...HiddenField) []HiddenField {
	out := []HiddenField{
		{Name: HiddenFormID, Value: form.ID},
		{Name: HiddenTenantID, Value: form.TenantID},
	}

	clean := make(map[string]string, len(extra))
	for _, field := range extra {
		name := strings.TrimSpace(field.Name)
		if name == "" || name == HiddenFormID || name == HiddenTenantID {
			continue
		}
		clean[name] = field.Value
	}
	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: clean[name]})
	}
	return out
}
