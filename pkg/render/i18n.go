package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrMissingTranslator is passed to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls fn.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the text used when key has no
// translation. fallback is the untranslated text.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// Message keys looked up by Localize:
//
//	fields.{key}.label
//	fields.{key}.options.{value}
//	fields.{key}.validations.{kind}
//
// A validation key is only looked up for rules carrying a message, so the
// built-in default messages stay untouched.
const fieldKeyPrefix = "fields."

// LocalizeOptions configures Localize.
type LocalizeOptions struct {
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Localize returns a decorator translating labels, option labels and custom
// rule messages. Missing translations keep the original text unless
// OnMissing says otherwise.
func Localize(opts LocalizeOptions) model.Decorator {
	return model.DecoratorFunc(func(form *model.Form) error {
		LocalizeFields(form.Fields, opts)
		return nil
	})
}

// LocalizeFields translates fields in place.
func LocalizeFields(fields []model.Field, opts LocalizeOptions) {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	tr := func(key, fallback string) string {
		return translate(opts.Locale, key, fallback, opts.Translator, onMissing)
	}

	for i := range fields {
		field := &fields[i]
		base := fieldKeyPrefix + field.Key
		field.Label = tr(base+".label", field.Label)

		if len(field.Options) > 0 {
			options := make([]model.Option, len(field.Options))
			for idx, option := range field.Options {
				option.Label = tr(base+".options."+option.Value, option.Label)
				options[idx] = option
			}
			field.Options = options
		}
		if len(field.Validations) > 0 {
			rules := make([]model.ValidationRule, len(field.Validations))
			for idx, rule := range field.Validations {
				if rule.Message != "" {
					rule.Message = tr(base+".validations."+string(rule.Kind), rule.Message)
				}
				rules[idx] = rule
			}
			field.Validations = rules
		}
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	if t == nil {
		return onMissing(locale, key, fallback, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, fallback, err)
}

func missingTranslationDefault(_, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
