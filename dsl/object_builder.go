package dsl

import (
	"errors"
	"fmt"

	okskema "github.com/reoring/okskema"
)

// ObjectBuilder declares the properties of an object schema. Properties are
// validated in declaration order and are required unless marked optional.
type ObjectBuilder struct {
	fields        []objectField
	index         map[string]int
	unknownPolicy okskema.UnknownPolicy
	refines       []objRefine
	meta          okskema.Meta
	errs          []error
}

type objectField struct {
	name     string
	ad       AnyAdapter
	optional bool
}

type objRefine struct {
	name string
	fn   func(map[string]any) error
}

// FieldStep is returned by Field to adjust the presence of the field just
// declared. It embeds the builder, so declarations keep chaining.
type FieldStep struct {
	*ObjectBuilder
	name string
}

// Object creates a new object builder that ignores unknown properties.
func Object() *ObjectBuilder {
	return &ObjectBuilder{index: map[string]int{}, unknownPolicy: okskema.UnknownStrip}
}

// Field registers a property validated by n.
func (b *ObjectBuilder) Field(name string, n Node) *FieldStep {
	if n == nil {
		b.errs = append(b.errs, fmt.Errorf("field %q: nil schema", name))
		return &FieldStep{ObjectBuilder: b, name: name}
	}
	if err := nestedBuildErr(n); err != nil {
		b.errs = append(b.errs, fmt.Errorf("field %q: %w", name, err))
	}
	ad := n.adapter()
	f := objectField{name: name, ad: ad, optional: ad.meta.Optional}
	if i, dup := b.index[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("field %q declared twice", name))
		b.fields[i] = f
	} else {
		b.index[name] = len(b.fields)
		b.fields = append(b.fields, f)
	}
	return &FieldStep{ObjectBuilder: b, name: name}
}

// Required marks the field as required (the default) and returns the builder.
func (f *FieldStep) Required() *ObjectBuilder {
	f.setOptional(false)
	return f.ObjectBuilder
}

// Optional lets the field be absent and returns the builder.
func (f *FieldStep) Optional() *ObjectBuilder {
	f.setOptional(true)
	return f.ObjectBuilder
}

func (f *FieldStep) setOptional(opt bool) {
	if i, ok := f.index[f.name]; ok {
		f.fields[i].optional = opt
	}
}


// String declares a string property configured by fn (fn may be nil).
func (b *ObjectBuilder) String(name string, fn func(*StringSchema)) *ObjectBuilder {
	s := String()
	if fn != nil {
		fn(s)
	}
	b.Field(name, s)
	return b
}

// Integer declares an int64 property configured by fn (fn may be nil).
func (b *ObjectBuilder) Integer(name string, fn func(*IntegerSchema)) *ObjectBuilder {
	s := Integer()
	if fn != nil {
		fn(s)
	}
	b.Field(name, s)
	return b
}

// Unsigned declares a uint64 property configured by fn (fn may be nil).
func (b *ObjectBuilder) Unsigned(name string, fn func(*UnsignedSchema)) *ObjectBuilder {
	s := Unsigned()
	if fn != nil {
		fn(s)
	}
	b.Field(name, s)
	return b
}

// Number declares a float64 property configured by fn (fn may be nil).
func (b *ObjectBuilder) Number(name string, fn func(*NumberSchema)) *ObjectBuilder {
	s := Number()
	if fn != nil {
		fn(s)
	}
	b.Field(name, s)
	return b
}

// Bool declares a boolean property configured by fn (fn may be nil).
func (b *ObjectBuilder) Bool(name string, fn func(*BoolSchema)) *ObjectBuilder {
	s := Bool()
	if fn != nil {
		fn(s)
	}
	b.Field(name, s)
	return b
}

// Object declares a nested object property configured by fn.
func (b *ObjectBuilder) Object(name string, fn func(*ObjectBuilder)) *ObjectBuilder {
	nb := Object()
	if fn != nil {
		fn(nb)
	}
	b.Field(name, nb)
	return b
}

// Array declares an array property configured by fn.
func (b *ObjectBuilder) Array(name string, fn func(*ArrayBuilder)) *ObjectBuilder {
	ab := Array()
	if fn != nil {
		fn(ab)
	}
	b.Field(name, ab)
	return b
}

// UnknownStrict rejects undeclared properties.
func (b *ObjectBuilder) UnknownStrict() *ObjectBuilder {
	b.unknownPolicy = okskema.UnknownStrict
	return b
}

// UnknownStrip ignores undeclared properties and leaves them out of the
// output (the default).
func (b *ObjectBuilder) UnknownStrip() *ObjectBuilder {
	b.unknownPolicy = okskema.UnknownStrip
	return b
}

// UnknownPassthrough ignores undeclared properties and copies them into the
// output unvalidated.
func (b *ObjectBuilder) UnknownPassthrough() *ObjectBuilder {
	b.unknownPolicy = okskema.UnknownPassthrough
	return b
}

// Refine adds an object-level check that runs only when every property is
// valid. A returned okskema.Failures is merged as is (paths relative to the
// object); any other error becomes one "custom" failure at the object.
func (b *ObjectBuilder) Refine(name string, fn func(map[string]any) error) *ObjectBuilder {
	if fn == nil {
		b.errs = append(b.errs, fmt.Errorf("refine %q: nil function", name))
		return b
	}
	b.refines = append(b.refines, objRefine{name: name, fn: fn})
	return b
}

func (b *ObjectBuilder) Label(label string) *ObjectBuilder   { b.meta.Label = label; return b }
func (b *ObjectBuilder) Description(d string) *ObjectBuilder { b.meta.Description = d; return b }
func (b *ObjectBuilder) Optional() *ObjectBuilder            { b.meta.Optional = true; return b }
func (b *ObjectBuilder) Nullable() *ObjectBuilder            { b.meta.Nullable = true; return b }

// Build validates the configuration and returns an immutable schema.
func (b *ObjectBuilder) Build() (okskema.Schema[map[string]any], error) {
	return b.build()
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() okskema.Schema[map[string]any] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *ObjectBuilder) build() (*objectSchema, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("dsl: invalid object schema: %w", errors.Join(b.errs...))
	}
	fields := make([]objectField, len(b.fields))
	copy(fields, b.fields)
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.name] = struct{}{}
	}
	refines := make([]objRefine, len(b.refines))
	copy(refines, b.refines)
	return &objectSchema{
		fields:        fields,
		known:         known,
		unknownPolicy: b.unknownPolicy,
		refines:       refines,
		meta:          b.meta,
	}, nil
}

func (b *ObjectBuilder) buildErr() error {
	_, err := b.build()
	return err
}

// adapter builds the nested object. A misconfigured nested builder is
// reported by the parent's Build through buildErr, so the adapter is unused.
func (b *ObjectBuilder) adapter() AnyAdapter {
	s, err := b.build()
	if err != nil {
		return AnyAdapter{}
	}
	return s.adapter()
}

// nestedBuildErr reports the configuration error of a nested builder.
func nestedBuildErr(n Node) error {
	if be, ok := n.(interface{ buildErr() error }); ok {
		return be.buildErr()
	}
	return nil
}
