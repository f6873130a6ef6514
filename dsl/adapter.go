package dsl

import (
	okskema "github.com/reoring/okskema"
)

// Node is anything that can be placed inside a container schema: the
// builders of this package, built schemas, and AnyAdapter.
type Node interface {
	adapter() AnyAdapter
}

// AnyAdapter erases the output type of a Schema[T] so containers can hold
// heterogeneous children. Its zero value accepts any value unchanged.
type AnyAdapter struct {
	validate func(any) okskema.Outcome[any]
	meta     okskema.Meta
	orig     any
}

var _ okskema.Schema[any] = AnyAdapter{}

// SchemaOf adapts a typed Schema[T] to an AnyAdapter.
func SchemaOf[T any](s okskema.Schema[T]) AnyAdapter {
	if s == nil {
		panic("dsl: SchemaOf requires a schema")
	}
	return AnyAdapter{
		validate: func(v any) okskema.Outcome[any] {
			return okskema.Map(s.Validate(v), func(t T) any { return t })
		},
		meta: okskema.MetaOf(s),
		orig: s,
	}
}

// Validate implements okskema.Schema[any]. Nullable adapters turn null into a
// valid nil before the wrapped schema sees it.
func (ad AnyAdapter) Validate(v any) okskema.Outcome[any] {
	if v == nil && ad.meta.Nullable {
		return okskema.Valid[any](nil)
	}
	if ad.validate == nil {
		return okskema.Valid(v)
	}
	return ad.validate(v)
}

// Meta implements okskema.Described.
func (ad AnyAdapter) Meta() okskema.Meta { return ad.meta }

// Orig returns the wrapped schema.
func (ad AnyAdapter) Orig() any { return ad.orig }

// Optional marks the adapter as allowed to be absent.
func (ad AnyAdapter) Optional() AnyAdapter { ad.meta.Optional = true; return ad }

// Nullable accepts null and yields nil.
func (ad AnyAdapter) Nullable() AnyAdapter { ad.meta.Nullable = true; return ad }

// Label sets the label copied into failures of this node.
func (ad AnyAdapter) Label(label string) AnyAdapter {
	prev := ad.validate
	ad.meta.Label = label
	if prev != nil {
		ad.validate = func(v any) okskema.Outcome[any] {
			out := prev(v)
			if !out.IsValid() {
				out.Failures().WithLabel(label)
			}
			return out
		}
	}
	return ad
}

func (ad AnyAdapter) adapter() AnyAdapter { return ad }

// Any returns an adapter that accepts every value unchanged.
func Any() AnyAdapter { return AnyAdapter{} }
