package dsl

import (
	"errors"
	"fmt"

	okskema "github.com/reoring/okskema"
)

// ArrayBuilder declares an array schema in one of two modes: element mode
// (Of) validates every element with one schema, positional mode (Items)
// validates the i-th element with the i-th schema. Without either, elements
// are accepted unchanged.
type ArrayBuilder struct {
	elem             *AnyAdapter
	items            []AnyAdapter
	minItems         int
	maxItems         int
	rejectAdditional bool
	meta             okskema.Meta
	errs             []error
}

// Array creates an array builder with no constraints.
func Array() *ArrayBuilder { return &ArrayBuilder{minItems: -1, maxItems: -1} }

// Tuple creates an array builder in positional mode.
func Tuple(items ...Node) *ArrayBuilder { return Array().Items(items...) }

// Of selects element mode: every element is validated by n.
func (a *ArrayBuilder) Of(n Node) *ArrayBuilder {
	if n == nil {
		a.errs = append(a.errs, errors.New("element schema is nil"))
		return a
	}
	if len(a.items) > 0 {
		a.errs = append(a.errs, errors.New("element schema cannot be combined with positional items"))
	}
	if err := nestedBuildErr(n); err != nil {
		a.errs = append(a.errs, fmt.Errorf("element: %w", err))
	}
	ad := n.adapter()
	a.elem = &ad
	return a
}

// Items selects positional mode: element i is validated by items[i].
func (a *ArrayBuilder) Items(items ...Node) *ArrayBuilder {
	if a.elem != nil {
		a.errs = append(a.errs, errors.New("positional items cannot be combined with an element schema"))
	}
	for i, n := range items {
		if n == nil {
			a.errs = append(a.errs, fmt.Errorf("item %d: nil schema", i))
			a.items = append(a.items, AnyAdapter{})
			continue
		}
		if err := nestedBuildErr(n); err != nil {
			a.errs = append(a.errs, fmt.Errorf("item %d: %w", i, err))
		}
		a.items = append(a.items, n.adapter())
	}
	return a
}

// MinItems requires at least n elements.
func (a *ArrayBuilder) MinItems(n int) *ArrayBuilder {
	if n < 0 {
		a.errs = append(a.errs, fmt.Errorf("MinItems(%d) must not be negative", n))
	} else if a.maxItems >= 0 && n > a.maxItems {
		a.errs = append(a.errs, fmt.Errorf("MinItems(%d) exceeds MaxItems(%d)", n, a.maxItems))
	}
	a.minItems = n
	return a
}

// MaxItems allows at most n elements.
func (a *ArrayBuilder) MaxItems(n int) *ArrayBuilder {
	if n < 0 {
		a.errs = append(a.errs, fmt.Errorf("MaxItems(%d) must not be negative", n))
	} else if a.minItems >= 0 && n < a.minItems {
		a.errs = append(a.errs, fmt.Errorf("MaxItems(%d) is below MinItems(%d)", n, a.minItems))
	}
	a.maxItems = n
	return a
}

// RejectAdditional reports elements beyond the positional items.
func (a *ArrayBuilder) RejectAdditional() *ArrayBuilder { a.rejectAdditional = true; return a }

func (a *ArrayBuilder) Label(label string) *ArrayBuilder   { a.meta.Label = label; return a }
func (a *ArrayBuilder) Description(d string) *ArrayBuilder { a.meta.Description = d; return a }
func (a *ArrayBuilder) Optional() *ArrayBuilder            { a.meta.Optional = true; return a }
func (a *ArrayBuilder) Nullable() *ArrayBuilder            { a.meta.Nullable = true; return a }

// Build validates the configuration and returns an immutable schema.
func (a *ArrayBuilder) Build() (okskema.Schema[[]any], error) { return a.build() }

// MustBuild is like Build but panics on error.
func (a *ArrayBuilder) MustBuild() okskema.Schema[[]any] {
	s, err := a.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (a *ArrayBuilder) build() (*arraySchema, error) {
	if len(a.errs) > 0 {
		return nil, fmt.Errorf("dsl: invalid array schema: %w", errors.Join(a.errs...))
	}
	s := &arraySchema{
		minItems:         a.minItems,
		maxItems:         a.maxItems,
		rejectAdditional: a.rejectAdditional,
		meta:             a.meta,
	}
	if a.elem != nil {
		elem := *a.elem
		s.elem = &elem
	}
	if len(a.items) > 0 {
		s.items = make([]AnyAdapter, len(a.items))
		copy(s.items, a.items)
	}
	return s, nil
}

func (a *ArrayBuilder) buildErr() error {
	_, err := a.build()
	return err
}

func (a *ArrayBuilder) adapter() AnyAdapter {
	s, err := a.build()
	if err != nil {
		return AnyAdapter{}
	}
	return SchemaOf[[]any](s)
}

type arraySchema struct {
	elem             *AnyAdapter
	items            []AnyAdapter
	minItems         int
	maxItems         int
	rejectAdditional bool
	meta             okskema.Meta
}

var _ okskema.Schema[[]any] = (*arraySchema)(nil)

func (s *arraySchema) Meta() okskema.Meta { return s.meta }

// Validate checks the input is an array, evaluates the length bounds and
// then every element; all failures are aggregated.
func (s *arraySchema) Validate(v any) okskema.Outcome[[]any] {
	if v == nil && s.meta.Nullable {
		return okskema.Valid[[]any](nil)
	}
	src, ok := v.([]any)
	if !ok {
		return okskema.Invalid[[]any](okskema.Failures{okskema.TypeFailure("array", v)}.WithLabel(s.meta.Label))
	}
	var c okskema.Collector
	n := len(src)
	if s.minItems >= 0 && n < s.minItems {
		c.Add(okskema.NewFailure(okskema.CodeMinItems, "min", s.minItems, "actual", n))
	}
	if s.maxItems >= 0 && n > s.maxItems {
		c.Add(okskema.NewFailure(okskema.CodeMaxItems, "max", s.maxItems, "actual", n))
	}
	okskema.Failures(c.Failures()).WithLabel(s.meta.Label)

	out := make([]any, 0, n)
	switch {
	case s.elem != nil:
		for i, x := range src {
			if ev, ok := okskema.Collect(&c, okskema.Index(i), s.elem.Validate(x)); ok {
				out = append(out, ev)
			}
		}
	case s.items != nil:
		out = s.validatePositional(&c, src, out)
	default:
		out = append(out, src...)
	}
	return okskema.Conclude(&c, out)
}

func (s *arraySchema) validatePositional(c *okskema.Collector, src, out []any) []any {
	for i, it := range s.items {
		seg := okskema.Index(i)
		if i >= len(src) {
			if !it.meta.Optional {
				c.AddUnder(seg, okskema.Failures{okskema.RequiredFailure()}.WithLabel(it.meta.Label))
			}
			continue
		}
		if ev, ok := okskema.Collect(c, seg, it.Validate(src[i])); ok {
			out = append(out, ev)
		}
	}
	for i := len(s.items); i < len(src); i++ {
		if s.rejectAdditional {
			c.AddUnder(okskema.Index(i), okskema.Failures{okskema.NewFailure(okskema.CodeAdditionalItems, "index", i)})
			continue
		}
		out = append(out, src[i])
	}
	return out
}

// ArrayOf builds an element-mode array projected to []E. configure may adjust
// bounds and metadata; a misconfiguration panics.
func ArrayOf[E any](elem okskema.Schema[E], configure ...func(*ArrayBuilder)) okskema.Schema[[]E] {
	ab := Array().Of(SchemaOf[E](elem))
	for _, fn := range configure {
		fn(ab)
	}
	return &typedArray[E]{inner: ab.MustBuild().(*arraySchema)}
}

type typedArray[E any] struct {
	inner *arraySchema
}

func (t *typedArray[E]) Meta() okskema.Meta { return t.inner.meta }

func (t *typedArray[E]) Validate(v any) okskema.Outcome[[]E] {
	return okskema.Map(t.inner.Validate(v), func(xs []any) []E {
		if xs == nil {
			return nil
		}
		out := make([]E, len(xs))
		for i, x := range xs {
			// nil elements come from nullable element schemas; keep the zero value.
			out[i], _ = x.(E)
		}
		return out
	})
}

func (t *typedArray[E]) adapter() AnyAdapter { return SchemaOf[[]E](t) }
