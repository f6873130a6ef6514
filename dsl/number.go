package dsl

import (
	"encoding/json"
	"fmt"
	"slices"

	okskema "github.com/reoring/okskema"
)

// Numeric is the set of output types of numeric schemas.
type Numeric interface {
	~int64 | ~uint64 | ~float64
}

// NumericSchema validates numbers and projects them to N. Comparisons are
// exact in N's domain: there is no tolerance for floating-point input.
type NumericSchema[N Numeric] struct {
	leaf[N]
	expected string
	convert  func(any, bool) (N, bool)
	min, max *N
}

type (
	// IntegerSchema accepts integral numbers that fit int64 (1.0 is accepted, 1.5 is not).
	IntegerSchema = NumericSchema[int64]
	// UnsignedSchema accepts non-negative integral numbers that fit uint64.
	UnsignedSchema = NumericSchema[uint64]
	// NumberSchema accepts any finite number as float64.
	NumberSchema = NumericSchema[float64]
)

var (
	_ okskema.Schema[int64]   = (*IntegerSchema)(nil)
	_ okskema.Schema[uint64]  = (*UnsignedSchema)(nil)
	_ okskema.Schema[float64] = (*NumberSchema)(nil)
)

// Integer returns an int64 schema.
func Integer() *IntegerSchema {
	return &IntegerSchema{expected: "integer", convert: numberConverter(okskema.AsInt64)}
}

// Unsigned returns a uint64 schema.
func Unsigned() *UnsignedSchema {
	return &UnsignedSchema{expected: "unsigned integer", convert: numberConverter(okskema.AsUint64)}
}

// Number returns a float64 schema.
func Number() *NumberSchema {
	return &NumberSchema{expected: "number", convert: numberConverter(okskema.AsFloat64)}
}

// numberConverter accepts numeric values, and numeric text when coercing.
func numberConverter[N any](as func(any) (N, bool)) func(any, bool) (N, bool) {
	return func(v any, coerce bool) (N, bool) {
		if s, ok := v.(string); ok {
			if !coerce {
				var zero N
				return zero, false
			}
			v = json.Number(s)
		}
		if okskema.KindOf(v) != okskema.KindNumber {
			var zero N
			return zero, false
		}
		return as(v)
	}
}

// Min requires the value to be greater than or equal to n.
func (s *NumericSchema[N]) Min(n N) *NumericSchema[N] {
	if s.max != nil && n > *s.max {
		panic(fmt.Sprintf("dsl: Min(%v) exceeds Max(%v)", n, *s.max))
	}
	s.min = &n
	s.setRule(okskema.CodeMin, func(v N) (okskema.Failure, bool) {
		if v < n {
			return okskema.NewFailure(okskema.CodeMin, "min", n, "actual", v), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// Max requires the value to be less than or equal to n.
func (s *NumericSchema[N]) Max(n N) *NumericSchema[N] {
	if s.min != nil && n < *s.min {
		panic(fmt.Sprintf("dsl: Max(%v) is below Min(%v)", n, *s.min))
	}
	s.max = &n
	s.setRule(okskema.CodeMax, func(v N) (okskema.Failure, bool) {
		if v > n {
			return okskema.NewFailure(okskema.CodeMax, "max", n, "actual", v), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// OneOf restricts the value to the given literals.
func (s *NumericSchema[N]) OneOf(values ...N) *NumericSchema[N] {
	if len(values) == 0 {
		panic("dsl: OneOf requires at least one value")
	}
	allowed := slices.Clone(values)
	s.setRule(okskema.CodeOneOf, func(v N) (okskema.Failure, bool) {
		if !contains(allowed, v) {
			return okskema.NewFailure(okskema.CodeOneOf, "allowed", allowed, "actual", v), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// NotOneOf rejects the given literals.
func (s *NumericSchema[N]) NotOneOf(values ...N) *NumericSchema[N] {
	excluded := slices.Clone(values)
	s.setRule(okskema.CodeNotOneOf, func(v N) (okskema.Failure, bool) {
		if contains(excluded, v) {
			return okskema.NewFailure(okskema.CodeNotOneOf, "excluded", excluded, "actual", v), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// Test adds a custom predicate reported as a "custom" failure named name.
func (s *NumericSchema[N]) Test(name string, fn func(N) bool) *NumericSchema[N] {
	s.addTest(name, fn)
	return s
}

// Transform rewrites the value after the type check and before constraints.
func (s *NumericSchema[N]) Transform(fn func(N) N) *NumericSchema[N] {
	s.addTransform(fn)
	return s
}

// Coerce accepts numeric text such as "42".
func (s *NumericSchema[N]) Coerce() *NumericSchema[N] { s.coerce = true; return s }

// Label sets the label copied into failures of this schema.
func (s *NumericSchema[N]) Label(label string) *NumericSchema[N] { s.meta.Label = label; return s }

// Description sets descriptive metadata.
func (s *NumericSchema[N]) Description(d string) *NumericSchema[N] {
	s.meta.Description = d
	return s
}

// Optional allows the value to be absent from an enclosing container.
func (s *NumericSchema[N]) Optional() *NumericSchema[N] { s.meta.Optional = true; return s }

// Nullable accepts null.
func (s *NumericSchema[N]) Nullable() *NumericSchema[N] { s.meta.Nullable = true; return s }

// Meta implements okskema.Described.
func (s *NumericSchema[N]) Meta() okskema.Meta { return s.meta }

// Validate implements okskema.Schema[N].
func (s *NumericSchema[N]) Validate(v any) okskema.Outcome[N] {
	return s.run(v, s.expected, s.convert)
}

func (s *NumericSchema[N]) adapter() AnyAdapter {
	frozen := &NumericSchema[N]{leaf: s.clone(), expected: s.expected, convert: s.convert, min: s.min, max: s.max}
	return SchemaOf[N](frozen)
}
