package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultPatternCacheSize bounds the number of compiled expressions an
// Evaluator keeps around.
const DefaultPatternCacheSize = 256

// Default messages, keyed by rule kind. Parameterised messages receive the raw
// rule value.
const (
	MessageRequired  = "This field is required."
	MessageMaxLength = "Maximum length is %s characters."
	MessagePattern   = "Please enter a valid input."
	MessageMin       = "Minimum value is %s."
	MessageMax       = "Maximum value is %s."
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(?:Infinity|[0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?|\.[0-9]+(?:[eE][+-]?[0-9]+)?)`)
	leadingInt   = regexp.MustCompile(`^[+-]?[0-9]+`)
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	cacheSize int
}

// WithPatternCacheSize overrides the compiled pattern cache size.
func WithPatternCacheSize(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.cacheSize = size
		}
	}
}

// Evaluator checks raw values against rule lists. It is safe for concurrent
// use; compiled patterns are shared through an LRU cache.
type Evaluator struct {
	patterns *lru.Cache
}

// New constructs an Evaluator.
func New(options ...Option) *Evaluator {
	cfg := config{cacheSize: DefaultPatternCacheSize}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	cache, err := lru.New(cfg.cacheSize)
	if err != nil {
		// only reachable with a non-positive size, which the option rejects
		panic(fmt.Sprintf("validation: pattern cache: %v", err))
	}
	return &Evaluator{patterns: cache}
}

var defaultEvaluator = New()

// Evaluate runs rules against raw using the package level Evaluator. It
// returns the first violation message and true, or "" and false when every
// rule passes.
func Evaluate(raw string, rules []model.ValidationRule) (string, bool) {
	return defaultEvaluator.Evaluate(raw, rules)
}

// Evaluate runs rules against raw in order and stops at the first violation.
func (e *Evaluator) Evaluate(raw string, rules []model.ValidationRule) (string, bool) {
	for _, rule := range rules {
		if msg, violated := e.check(raw, rule); violated {
			return msg, true
		}
	}
	return "", false
}

func (e *Evaluator) check(raw string, rule model.ValidationRule) (string, bool) {
	switch rule.Kind {
	case model.RuleRequired:
		if rule.Value == "true" && strings.TrimSpace(raw) == "" {
			return messageOr(rule, MessageRequired), true
		}
	case model.RuleMaxLength:
		limit, ok := parseLeadingInt(rule.Value)
		if ok && utf8.RuneCountInString(raw) > limit {
			return messageOr(rule, fmt.Sprintf(MessageMaxLength, rule.Value)), true
		}
	case model.RulePattern:
		if !e.matches(rule.Value, raw) {
			return messageOr(rule, MessagePattern), true
		}
	case model.RuleMin:
		value, okValue := ParseNumber(raw)
		bound, okBound := ParseNumber(rule.Value)
		if okValue && okBound && value < bound {
			return messageOr(rule, fmt.Sprintf(MessageMin, rule.Value)), true
		}
	case model.RuleMax:
		value, okValue := ParseNumber(raw)
		bound, okBound := ParseNumber(rule.Value)
		if okValue && okBound && value > bound {
			return messageOr(rule, fmt.Sprintf(MessageMax, rule.Value)), true
		}
	}
	return "", false
}

// matches reports whether raw contains a match for expr. Expressions that do
// not compile never match.
func (e *Evaluator) matches(expr, raw string) bool {
	re, err := e.compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(raw)
}

func (e *Evaluator) compile(expr string) (*regexp.Regexp, error) {
	if cached, ok := e.patterns.Get(expr); ok {
		if re, ok := cached.(*regexp.Regexp); ok {
			return re, nil
		}
		return nil, fmt.Errorf("validation: invalid pattern %q", expr)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		// remember the failure so a bad expression is not recompiled per keystroke
		e.patterns.Add(expr, err)
		return nil, err
	}
	e.patterns.Add(expr, re)
	return re, nil
}

// ParseNumber reads the longest leading numeric prefix of s after trimming
// leading whitespace, the way browsers parse float input. The boolean is false
// when no number is present.
func ParseNumber(s string) (float64, bool) {
	match := leadingFloat.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.Replace(match, "Infinity", "Inf", 1), 64)
	if err != nil {
		// a prefix like "1e999" overflows; ParseFloat still reports ±Inf
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return value, true
		}
		return 0, false
	}
	return value, true
}

func parseLeadingInt(s string) (int, bool) {
	match := leadingInt.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if match == "" {
		return 0, false
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return value, true
}

func messageOr(rule model.ValidationRule, fallback string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fallback
}
