package dsl

import (
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
	okskema "github.com/reoring/okskema"
)

// Bind builds an object schema and projects its validated record onto struct
// type T. Record keys map to struct fields through their json tags.
func Bind[T any](b *ObjectBuilder) (okskema.Schema[T], error) {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dsl: Bind[T] requires a struct T, got %v", rt)
	}
	os, err := b.build()
	if err != nil {
		return nil, err
	}
	return &boundObject[T]{inner: os, typ: rt.String()}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](b *ObjectBuilder) okskema.Schema[T] {
	s, err := Bind[T](b)
	if err != nil {
		panic(err)
	}
	return s
}

type boundObject[T any] struct {
	inner *objectSchema
	typ   string
}

func (s *boundObject[T]) Meta() okskema.Meta { return s.inner.meta }

// Validate validates the record and decodes it into T. A record that cannot
// be represented by T is reported as a type failure at the object.
func (s *boundObject[T]) Validate(v any) okskema.Outcome[T] {
	out := s.inner.Validate(v)
	rec, ok := out.Value()
	if !ok {
		return okskema.Invalid[T](out.Failures())
	}
	var t T
	if rec == nil {
		return okskema.Valid(t)
	}
	raw, err := json.Marshal(rec)
	if err == nil {
		err = json.Unmarshal(raw, &t)
	}
	if err != nil {
		f := okskema.NewFailure(okskema.CodeType, "expected", s.typ, "actual", okskema.KindObject.String())
		f.Message = err.Error()
		return okskema.Invalid[T](okskema.Failures{f}.WithLabel(s.inner.meta.Label))
	}
	return okskema.Valid(t)
}

func (s *boundObject[T]) adapter() AnyAdapter { return SchemaOf[T](s) }
