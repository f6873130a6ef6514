// Package rules provides reusable object refinements: conditionals over a
// property and collection checks. Every Rule plugs into
// dsl.ObjectBuilder.Refine and reports okskema.Failures at JSON Pointer
// paths relative to the refined object.
package rules

import (
	"fmt"
	"reflect"

	okskema "github.com/reoring/okskema"
)

// Rule inspects a validated object and returns nil or an error, normally
// okskema.Failures.
type Rule = func(map[string]any) error

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path okskema.Path
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates the value at pointer against want.
// A missing value never satisfies the condition.
func If(pointer string, op Op, want any) Conditional {
	return Conditional{path: okskema.ParsePointer(pointer), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds reports whether the condition is satisfied by m.
func (c Conditional) Holds(m map[string]any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(m) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(m) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAt(m, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Then runs rules only when the condition holds.
func (c Conditional) Then(rules ...Rule) Rule {
	all := And(rules...)
	return func(m map[string]any) error {
		if !c.Holds(m) {
			return nil
		}
		return all(m)
	}
}

// AtLeastOne requires the array at pointer to have at least one element.
// A missing or non-array value is left to the property's own schema.
func AtLeastOne(pointer string) Rule {
	p := okskema.ParsePointer(pointer)
	return func(m map[string]any) error {
		val, ok := valueAt(m, p)
		if !ok {
			return nil
		}
		if arr, isArr := val.([]any); isArr && len(arr) == 0 {
			return okskema.Failures{at(p, okskema.NewFailure(okskema.CodeMinItems, "min", 1, "actual", 0))}
		}
		return nil
	}
}

// UniqueBy requires the elements of the array at collection to carry
// distinct values at key, a pointer relative to each element. Duplicates
// are reported at the key of the later element, with the index of the
// first occurrence in the "first" param.
//
// Keys are compared by their printed form, so a schema should give the key
// a single kind.
func UniqueBy(collection, key string) Rule {
	cp := okskema.ParsePointer(collection)
	kp := okskema.ParsePointer(key)
	return func(m map[string]any) error {
		val, ok := valueAt(m, cp)
		if !ok {
			return nil
		}
		arr, ok := val.([]any)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		var fs okskema.Failures
		for i, elem := range arr {
			kv, ok := valueAt(elem, kp)
			if !ok {
				continue
			}
			k := fmt.Sprint(kv)
			if j, dup := seen[k]; dup {
				f := okskema.NewFailure(okskema.CodeCustom, "test", "unique", "first", j, "key", k)
				p := append(append(append(okskema.Path{}, cp...), okskema.Index(i)), kp...)
				fs = append(fs, at(p, f))
				continue
			}
			seen[k] = i
		}
		if len(fs) > 0 {
			return fs
		}
		return nil
	}
}

// And runs every rule and concatenates their failures. A plain error from
// a rule stops evaluation and is returned as is.
func And(rules ...Rule) Rule {
	return func(m map[string]any) error {
		var out okskema.Failures
		for _, r := range rules {
			if r == nil {
				continue
			}
			err := r(m)
			if err == nil {
				continue
			}
			fs, ok := okskema.AsFailures(err)
			if !ok {
				return err
			}
			out = append(out, fs...)
		}
		if len(out) > 0 {
			return out
		}
		return nil
	}
}

// Or succeeds if any rule succeeds. When all fail it returns the error of
// the branch with the fewest failures.
func Or(rules ...Rule) Rule {
	return func(m map[string]any) error {
		var (
			best  error
			bestN int
		)
		for _, r := range rules {
			if r == nil {
				continue
			}
			err := r(m)
			if err == nil {
				return nil
			}
			n := 1
			if fs, ok := okskema.AsFailures(err); ok {
				n = len(fs)
			}
			if best == nil || n < bestN {
				best, bestN = err, n
			}
		}
		return best
	}
}

// ------- helpers -------

func at(p okskema.Path, f okskema.Failure) okskema.Failure {
	for i := len(p) - 1; i >= 0; i-- {
		f = f.Under(p[i])
	}
	return f
}

func valueAt(v any, p okskema.Path) (any, bool) {
	cur := v
	for _, seg := range p {
		switch t := cur.(type) {
		case map[string]any:
			// digit-only pointer segments parse as indexes but may name a key
			next, ok := t[seg.String()]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			if !seg.IsIndex() || seg.Index() >= len(t) {
				return nil, false
			}
			cur = t[seg.Index()]
		default:
			return nil, false
		}
	}
	return cur, true
}

func compare(cur any, op Op, want any) bool {
	a, aNum := okskema.AsFloat64(cur)
	b, bNum := okskema.AsFloat64(want)
	switch op {
	case Eq, Ne:
		eq := reflect.DeepEqual(cur, want)
		if aNum && bNum {
			eq = a == b
		}
		return eq == (op == Eq)
	}
	if !aNum || !bNum {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	default:
		return false
	}
}
