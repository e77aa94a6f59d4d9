package validation

import "github.com/goliatone/go-formbuilder/pkg/model"

// Attribute is a native HTML constraint attribute derived from a rule.
type Attribute struct {
	Name  string
	Value string
}

// NativeAttributes maps rules onto the browser's constraint attributes so
// native validation stays available as a fallback. required only maps when its
// parameter is "true"; unknown kinds are dropped. Later rules of the same kind
// override earlier ones, matching repeated setAttribute calls.
func NativeAttributes(rules []model.ValidationRule) []Attribute {
	if len(rules) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(rules))
	index := make(map[string]int, len(rules))

	set := func(name, value string) {
		if idx, ok := index[name]; ok {
			out[idx].Value = value
			return
		}
		index[name] = len(out)
		out = append(out, Attribute{Name: name, Value: value})
	}

	for _, rule := range rules {
		switch rule.Kind {
		case model.RuleRequired:
			if rule.Value == "true" {
				set(string(model.RuleRequired), "")
			}
		case model.RuleMaxLength, model.RulePattern, model.RuleMin, model.RuleMax:
			set(string(rule.Kind), rule.Value)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
