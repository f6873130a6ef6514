package dsl

import (
	okskema "github.com/reoring/okskema"
)

// BoolSchema validates boolean values.
type BoolSchema struct {
	leaf[bool]
}

var _ okskema.Schema[bool] = (*BoolSchema)(nil)

// Bool returns a boolean schema with no constraints.
func Bool() *BoolSchema { return &BoolSchema{} }

// Equal requires the value to be exactly want.
func (s *BoolSchema) Equal(want bool) *BoolSchema {
	s.setRule(okskema.CodeEqual, func(v bool) (okskema.Failure, bool) {
		if v != want {
			return okskema.NewFailure(okskema.CodeEqual, "expected", want, "actual", v), true
		}
		return okskema.Failure{}, false
	})
	return s
}

// Test adds a custom predicate reported as a "custom" failure named name.
func (s *BoolSchema) Test(name string, fn func(bool) bool) *BoolSchema {
	s.addTest(name, fn)
	return s
}

// Coerce accepts the strings "true" and "false".
func (s *BoolSchema) Coerce() *BoolSchema { s.coerce = true; return s }

func (s *BoolSchema) Label(label string) *BoolSchema       { s.meta.Label = label; return s }
func (s *BoolSchema) Description(d string) *BoolSchema     { s.meta.Description = d; return s }
func (s *BoolSchema) Optional() *BoolSchema                { s.meta.Optional = true; return s }
func (s *BoolSchema) Nullable() *BoolSchema                { s.meta.Nullable = true; return s }
func (s *BoolSchema) Meta() okskema.Meta                   { return s.meta }
func (s *BoolSchema) Validate(v any) okskema.Outcome[bool] { return s.run(v, "boolean", toBool) }

func (s *BoolSchema) adapter() AnyAdapter {
	return SchemaOf[bool](&BoolSchema{leaf: s.clone()})
}

func toBool(v any, coerce bool) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		if coerce {
			switch t {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
	}
	return false, false
}
