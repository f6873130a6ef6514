package dsl

import (
	"sort"

	okskema "github.com/reoring/okskema"
)

type objectSchema struct {
	fields        []objectField
	known         map[string]struct{}
	unknownPolicy okskema.UnknownPolicy
	refines       []objRefine
	meta          okskema.Meta
}

// Ensure objectSchema implements okskema.Schema[map[string]any]
var _ okskema.Schema[map[string]any] = (*objectSchema)(nil)

func (o *objectSchema) Meta() okskema.Meta { return o.meta }

func (o *objectSchema) adapter() AnyAdapter { return SchemaOf[map[string]any](o) }

// Validate checks the input is an object, then validates every declared
// property, handles unknown keys and finally runs refines. The output record
// holds each property's validated value; absent optional properties are left
// out.
func (o *objectSchema) Validate(v any) okskema.Outcome[map[string]any] {
	if v == nil && o.meta.Nullable {
		return okskema.Valid[map[string]any](nil)
	}
	src, ok := v.(map[string]any)
	if !ok {
		return okskema.Invalid[map[string]any](okskema.Failures{okskema.TypeFailure("object", v)}.WithLabel(o.meta.Label))
	}
	var c okskema.Collector
	out := make(map[string]any, len(o.fields))
	o.collectKnown(&c, src, out)
	o.collectUnknown(&c, src, out)
	if !c.Failed() {
		o.refine(&c, out)
	}
	return okskema.Conclude(&c, out)
}

// collectKnown validates declared properties in declaration order.
func (o *objectSchema) collectKnown(c *okskema.Collector, src, out map[string]any) {
	for _, f := range o.fields {
		seg := okskema.Key(f.name)
		val, present := src[f.name]
		if !present {
			if !f.optional {
				c.AddUnder(seg, okskema.Failures{okskema.RequiredFailure()}.WithLabel(f.ad.meta.Label))
			}
			continue
		}
		if parsed, ok := okskema.Collect(c, seg, f.ad.Validate(val)); ok {
			out[f.name] = parsed
		}
	}
}

// collectUnknown applies the unknown-key policy in key-sorted order.
func (o *objectSchema) collectUnknown(c *okskema.Collector, src, out map[string]any) {
	if o.unknownPolicy == okskema.UnknownStrip {
		return
	}
	uks := make([]string, 0, len(src))
	for k := range src {
		if _, known := o.known[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	for _, k := range uks {
		switch o.unknownPolicy {
		case okskema.UnknownStrict:
			c.AddUnder(okskema.Key(k), okskema.Failures{okskema.NewFailure(okskema.CodeUnknownKey, "key", k)})
		case okskema.UnknownPassthrough:
			out[k] = src[k]
		}
	}
}

func (o *objectSchema) refine(c *okskema.Collector, out map[string]any) {
	for _, r := range o.refines {
		err := r.fn(out)
		if err == nil {
			continue
		}
		if fs, ok := okskema.AsFailures(err); ok {
			c.Add(fs...)
			continue
		}
		f := okskema.NewFailure(okskema.CodeCustom, "test", r.name)
		f.Message = err.Error()
		c.Add(okskema.Failures{f}.WithLabel(o.meta.Label)...)
	}
}
