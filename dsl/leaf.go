package dsl

import (
	"fmt"
	"slices"

	okskema "github.com/reoring/okskema"
)

// rule is one configured constraint. check returns the failure and true when
// the value violates it.
type rule[T any] struct {
	id    string
	check func(T) (okskema.Failure, bool)
}

// leaf holds the configuration shared by scalar schemas. Rules run in
// declaration order; re-declaring a constraint replaces it in place.
type leaf[T any] struct {
	meta       okskema.Meta
	coerce     bool
	transforms []func(T) T
	rules      []rule[T]
}

func (l *leaf[T]) setRule(id string, check func(T) (okskema.Failure, bool)) {
	for i := range l.rules {
		if l.rules[i].id == id {
			l.rules[i].check = check
			return
		}
	}
	l.rules = append(l.rules, rule[T]{id: id, check: check})
}

func (l *leaf[T]) addTest(name string, fn func(T) bool) {
	if fn == nil {
		panic(fmt.Sprintf("dsl: Test(%q) requires a function", name))
	}
	l.setRule("test:"+name, func(v T) (okskema.Failure, bool) {
		if fn(v) {
			return okskema.Failure{}, false
		}
		return okskema.NewFailure(okskema.CodeCustom, "test", name), true
	})
}

func (l *leaf[T]) addTransform(fn func(T) T) {
	if fn == nil {
		panic("dsl: Transform requires a function")
	}
	l.transforms = append(l.transforms, fn)
}

// clone returns a copy that no later builder call can reach.
func (l leaf[T]) clone() leaf[T] {
	l.transforms = slices.Clone(l.transforms)
	l.rules = slices.Clone(l.rules)
	return l
}

// run is the validation flow every scalar follows: null handling, type check
// (short-circuits), transforms, then every rule without short-circuit.
func (l *leaf[T]) run(v any, expected string, convert func(any, bool) (T, bool)) okskema.Outcome[T] {
	if v == nil && l.meta.Nullable {
		var zero T
		return okskema.Valid(zero)
	}
	t, ok := convert(v, l.coerce)
	if !ok {
		return okskema.Invalid[T](okskema.Failures{okskema.TypeFailure(expected, v)}.WithLabel(l.meta.Label))
	}
	for _, fn := range l.transforms {
		t = fn(t)
	}
	var fs okskema.Failures
	for _, r := range l.rules {
		if f, bad := r.check(t); bad {
			fs = append(fs, f)
		}
	}
	if len(fs) > 0 {
		return okskema.Invalid[T](fs.WithLabel(l.meta.Label))
	}
	return okskema.Valid(t)
}

func contains[T comparable](set []T, v T) bool { return slices.Contains(set, v) }
