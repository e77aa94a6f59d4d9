package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Check lints a field document and returns every issue found joined into a
// single error. A nil result means the document is safe to publish.
func Check(fields []Field) error {
	var issues []error
	seen := make(map[string]int, len(fields))

	for idx, field := range fields {
		key := strings.TrimSpace(field.Key)
		where := fmt.Sprintf("field[%d]", idx)
		if key != "" {
			where = fmt.Sprintf("field %q", key)
		}

		switch {
		case key == "":
			issues = append(issues, fmt.Errorf("%s: key is required", where))
		default:
			if first, dup := seen[key]; dup {
				issues = append(issues, fmt.Errorf("%s: duplicate key (first declared at index %d)", where, first))
			} else {
				seen[key] = idx
			}
		}

		if !field.Type.Known() {
			issues = append(issues, fmt.Errorf("%s: unknown type %q", where, field.Type))
		}
		if field.Type.RequiresOptions() && len(field.Options) == 0 {
			issues = append(issues, fmt.Errorf("%s: type %q requires options", where, field.Type))
		}

		for ruleIdx, rule := range field.Validations {
			if err := checkRule(rule); err != nil {
				issues = append(issues, fmt.Errorf("%s: rule %d: %w", where, ruleIdx, err))
			}
		}
	}

	return errors.Join(issues...)
}

func checkRule(rule ValidationRule) error {
	if !rule.Kind.Known() {
		return fmt.Errorf("unknown rule %q", rule.Kind)
	}
	value := strings.TrimSpace(rule.Value)
	switch rule.Kind {
	case RuleRequired:
		if value != "true" && value != "false" {
			return fmt.Errorf("required expects true or false, got %q", rule.Value)
		}
	case RuleMaxLength:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("maxlength expects an integer, got %q", rule.Value)
		}
	case RulePattern:
		if _, err := regexp.Compile(rule.Value); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	case RuleMin, RuleMax:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%s expects a number, got %q", rule.Kind, rule.Value)
		}
	}
	return nil
}
