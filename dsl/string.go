package dsl

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"unicode/utf8"

	okskema "github.com/reoring/okskema"
)

// StringSchema validates string values. Lengths count Unicode code points.
// Configuration methods mutate the receiver and return it for chaining;
// misconfiguration panics in the offending call.
type StringSchema struct {
	leaf[string]
	minLen int
	maxLen int
}

var _ okskema.Schema[string] = (*StringSchema)(nil)

// String returns a string schema with no constraints.
func String() *StringSchema { return &StringSchema{minLen: -1, maxLen: -1} }

// MinLength requires at least n characters.
func (s *StringSchema) MinLength(n int) *StringSchema {
	if n < 0 {
		panic(fmt.Sprintf("dsl: MinLength(%d) must not be negative", n))
	}
	if s.maxLen >= 0 && n > s.maxLen {
		panic(fmt.Sprintf("dsl: MinLength(%d) exceeds MaxLength(%d)", n, s.maxLen))
	}
	s.minLen = n
	s.setRule(okskema.CodeMinLength, func(v string) (okskema.Failure, bool) {
		if l := utf8.RuneCountInString(v); l < n {
			return okskema.NewFailure(okskema.CodeMinLength, "min", n, "actual", l), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// MaxLength allows at most n characters.
func (s *StringSchema) MaxLength(n int) *StringSchema {
	if n < 0 {
		panic(fmt.Sprintf("dsl: MaxLength(%d) must not be negative", n))
	}
	if s.minLen >= 0 && n < s.minLen {
		panic(fmt.Sprintf("dsl: MaxLength(%d) is below MinLength(%d)", n, s.minLen))
	}
	s.maxLen = n
	s.setRule(okskema.CodeMaxLength, func(v string) (okskema.Failure, bool) {
		if l := utf8.RuneCountInString(v); l > n {
			return okskema.NewFailure(okskema.CodeMaxLength, "max", n, "actual", l), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// Pattern requires the value to match the regular expression expr.
func (s *StringSchema) Pattern(expr string) *StringSchema {
	re := regexp.MustCompile(expr)
	s.setRule(okskema.CodePattern, func(v string) (okskema.Failure, bool) {
		if !re.MatchString(v) {
			return okskema.NewFailure(okskema.CodePattern, "pattern", expr), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// OneOf restricts the value to the given literals.
func (s *StringSchema) OneOf(values ...string) *StringSchema {
	if len(values) == 0 {
		panic("dsl: OneOf requires at least one value")
	}
	allowed := slices.Clone(values)
	s.setRule(okskema.CodeOneOf, func(v string) (okskema.Failure, bool) {
		if !contains(allowed, v) {
			return okskema.NewFailure(okskema.CodeOneOf, "allowed", allowed, "actual", v), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// NotOneOf rejects the given literals.
func (s *StringSchema) NotOneOf(values ...string) *StringSchema {
	excluded := slices.Clone(values)
	s.setRule(okskema.CodeNotOneOf, func(v string) (okskema.Failure, bool) {
		if contains(excluded, v) {
			return okskema.NewFailure(okskema.CodeNotOneOf, "excluded", excluded, "actual", v), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// Test adds a custom predicate reported as a "custom" failure named name.
func (s *StringSchema) Test(name string, fn func(string) bool) *StringSchema {
	s.addTest(name, fn)
	return s
}

// Transform rewrites the value after the type check and before constraints.
func (s *StringSchema) Transform(fn func(string) string) *StringSchema {
	s.addTransform(fn)
	return s
}

// Coerce accepts booleans and numbers, converted to their text form.
func (s *StringSchema) Coerce() *StringSchema { s.coerce = true; return s }

// Label sets the label copied into failures of this schema.
func (s *StringSchema) Label(label string) *StringSchema { s.meta.Label = label; return s }

// Description sets descriptive metadata.
func (s *StringSchema) Description(d string) *StringSchema { s.meta.Description = d; return s }

// Optional allows the value to be absent from an enclosing container.
func (s *StringSchema) Optional() *StringSchema { s.meta.Optional = true; return s }

// Nullable accepts null.
func (s *StringSchema) Nullable() *StringSchema { s.meta.Nullable = true; return s }

// Meta implements okskema.Described.
func (s *StringSchema) Meta() okskema.Meta { return s.meta }

// Validate implements okskema.Schema[string].
func (s *StringSchema) Validate(v any) okskema.Outcome[string] {
	return s.run(v, "string", toString)
}

func (s *StringSchema) adapter() AnyAdapter {
	frozen := &StringSchema{leaf: s.clone(), minLen: s.minLen, maxLen: s.maxLen}
	return SchemaOf[string](frozen)
}

func toString(v any, coerce bool) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		if coerce {
			return strconv.FormatBool(t), true
		}
	case json.Number:
		if coerce {
			return t.String(), true
		}
	default:
		if coerce && okskema.KindOf(v) == okskema.KindNumber {
			if i, ok := okskema.AsInt64(v); ok {
				return strconv.FormatInt(i, 10), true
			}
			if u, ok := okskema.AsUint64(v); ok {
				return strconv.FormatUint(u, 10), true
			}
			if f, ok := okskema.AsFloat64(v); ok {
				return strconv.FormatFloat(f, 'g', -1, 64), true
			}
		}
	}
	return "", false
}
