package dsl_test

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	okskema "github.com/reoring/okskema"
	g "github.com/reoring/okskema/dsl"
)

func luckyUser() okskema.Schema[map[string]any] {
	return g.Object().
		String("username", func(s *g.StringSchema) { s.MinLength(1).MaxLength(20) }).
		Integer("luckyNumber", func(n *g.IntegerSchema) { n.NotOneOf(2, 3, 5, 7, 11, 13, 17) }).
		MustBuild()
}

func TestObject_SiblingFailuresAggregate(t *testing.T) {
	fs := luckyUser().Validate(map[string]any{"username": "", "luckyNumber": 7}).Failures()
	if len(fs) != 2 {
		t.Fatalf("expected 2 failures, got %v", fs)
	}
	if !fs.Has(okskema.PathOf("username"), okskema.CodeMinLength) {
		t.Fatalf("missing minLength at username: %v", fs)
	}
	if !fs.Has(okskema.PathOf("luckyNumber"), okskema.CodeNotOneOf) {
		t.Fatalf("missing notOneOf at luckyNumber: %v", fs)
	}
	if fs[0].Path.Pointer() != "/username" {
		t.Fatalf("failures follow declaration order, got %v", fs)
	}
}

func TestObject_Valid(t *testing.T) {
	v, err := okskema.Parse(luckyUser(), map[string]any{"username": "bob", "luckyNumber": 42})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"username": "bob", "luckyNumber": int64(42)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected record: %#v", v)
	}
}

func TestObject_MissingRequired(t *testing.T) {
	fs := luckyUser().Validate(map[string]any{"username": "bob"}).Failures()
	if len(fs) != 1 || !fs.Has(okskema.PathOf("luckyNumber"), okskema.CodeRequired) {
		t.Fatalf("expected required at luckyNumber, got %v", fs)
	}
}

func TestObject_TypeMismatch(t *testing.T) {
	for _, in := range []any{"x", []any{}, nil, 1} {
		fs := luckyUser().Validate(in).Failures()
		if len(fs) != 1 || fs[0].Code != okskema.CodeType || len(fs[0].Path) != 0 {
			t.Fatalf("%v: expected root type failure, got %v", in, fs)
		}
	}
}

func TestObject_UnknownPolicies(t *testing.T) {
	in := map[string]any{"name": "a", "b": 1, "a": 2}

	strip := g.Object().String("name", nil).MustBuild()
	v, err := okskema.Parse(strip, in)
	if err != nil || len(v) != 1 {
		t.Fatalf("strip: expected only declared keys, v=%v err=%v", v, err)
	}

	pass := g.Object().String("name", nil).UnknownPassthrough().MustBuild()
	v, err = okskema.Parse(pass, in)
	if err != nil || v["a"] != 2 || v["b"] != 1 {
		t.Fatalf("passthrough: expected unknown keys copied, v=%v err=%v", v, err)
	}

	strict := g.Object().String("name", nil).UnknownStrict().MustBuild()
	fs := strict.Validate(in).Failures()
	if got := []string{fs[0].Path.Pointer(), fs[1].Path.Pointer()}; len(fs) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Fatalf("strict: expected unknownKey at /a and /b, got %v", fs)
	}
	if fs[0].Code != okskema.CodeUnknownKey || fs[0].Params["key"] != "a" {
		t.Fatalf("strict: unexpected failure %#v", fs[0])
	}
}

func TestObject_OptionalAndNullable(t *testing.T) {
	s := g.Object().
		String("id", nil).
		Field("nickname", g.String()).Optional().
		Field("bio", g.String().Optional()).
		Field("note", g.String().Nullable()).
		Field("middle", g.String().Optional()).Required().
		MustBuild()

	v, err := okskema.Parse(s, map[string]any{"id": "u1", "note": nil, "middle": "m"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := v["nickname"]; ok {
		t.Fatalf("absent optional property must be left out: %v", v)
	}
	if n, ok := v["note"]; !ok || n != nil {
		t.Fatalf("null must be kept for nullable property: %v", v)
	}

	fs := s.Validate(map[string]any{"id": "u1", "note": nil}).Failures()
	if len(fs) != 1 || !fs.Has(okskema.PathOf("middle"), okskema.CodeRequired) {
		t.Fatalf("Required() must override schema optionality, got %v", fs)
	}
}

func TestObject_LabelOnRequired(t *testing.T) {
	s := g.Object().Field("age", g.Integer().Label("Age")).MustBuild()
	fs := s.Validate(map[string]any{}).Failures()
	if len(fs) != 1 || fs[0].Label != "Age" {
		t.Fatalf("expected labelled required failure, got %#v", fs)
	}
}

func TestObject_DeepPath(t *testing.T) {
	order := g.Object().
		String("id", nil).
		Array("items", func(a *g.ArrayBuilder) {
			a.Of(g.Object().
				String("sku", func(s *g.StringSchema) { s.MinLength(3) }).
				Integer("qty", func(n *g.IntegerSchema) { n.Min(1) }))
		}).
		MustBuild()

	in := map[string]any{
		"id": 5,
		"items": []any{
			map[string]any{"sku": "abcd", "qty": 1},
			map[string]any{"sku": "abcd", "qty": 0},
			map[string]any{"sku": "x", "qty": 2},
		},
	}
	fs := order.Validate(in).Failures()
	want := []string{"/id", "/items/1/qty", "/items/2/sku"}
	if len(fs) != len(want) {
		t.Fatalf("expected %d failures, got %v", len(want), fs)
	}
	for i, p := range want {
		if fs[i].Path.Pointer() != p {
			t.Fatalf("failure %d: want %s, got %s", i, p, fs[i].Path.Pointer())
		}
	}
	if fs[2].Path.String() != "items[2].sku" {
		t.Fatalf("unexpected dotted path %q", fs[2].Path.String())
	}
	if !fs[2].Path.Equal(okskema.Path{okskema.Key("items"), okskema.Index(2), okskema.Key("sku")}) {
		t.Fatalf("unexpected segments %v", fs[2].Path)
	}
}

func TestObject_Refine(t *testing.T) {
	s := g.Object().
		String("password", nil).
		String("confirm", nil).
		Refine("match", func(m map[string]any) error {
			if m["password"] != m["confirm"] {
				return errors.New("passwords differ")
			}
			return nil
		}).
		Refine("confirm-length", func(m map[string]any) error {
			if len(m["confirm"].(string)) < 3 {
				return okskema.Failures{okskema.NewFailure(okskema.CodeMinLength, "min", 3).Under(okskema.Key("confirm"))}
			}
			return nil
		}).
		MustBuild()

	fs := s.Validate(map[string]any{"password": "ab", "confirm": "ac"}).Failures()
	if len(fs) != 2 {
		t.Fatalf("expected both refine failures, got %v", fs)
	}
	if fs[0].Code != okskema.CodeCustom || fs[0].Message != "passwords differ" || fs[0].Params["test"] != "match" {
		t.Fatalf("unexpected custom failure %#v", fs[0])
	}
	if !fs.Has(okskema.PathOf("confirm"), okskema.CodeMinLength) {
		t.Fatalf("refine failures keep their paths, got %v", fs)
	}

	called := false
	guarded := g.Object().String("a", nil).Refine("never", func(map[string]any) error {
		called = true
		return nil
	}).MustBuild()
	guarded.Validate(map[string]any{"a": 1})
	if called {
		t.Fatalf("refine must not run when a property failed")
	}
}

func TestObject_BuildErrors(t *testing.T) {
	cases := map[string]*g.ObjectBuilder{
		"duplicate":   g.Object().String("a", nil).String("a", nil),
		"nil schema":  func() *g.ObjectBuilder { b := g.Object(); b.Field("a", nil); return b }(),
		"nested":      g.Object().Object("inner", func(o *g.ObjectBuilder) { o.Refine("r", nil) }),
		"array":       g.Object().Array("xs", func(a *g.ArrayBuilder) { a.MinItems(-1) }),
		"nil refine":  g.Object().Refine("r", nil),
		"mixed array": g.Object().Array("xs", func(a *g.ArrayBuilder) { a.Of(g.String()).Items(g.String()) }),
	}
	for name, b := range cases {
		if _, err := b.Build(); err == nil || !strings.HasPrefix(err.Error(), "dsl: invalid object schema") {
			t.Fatalf("%s: expected build error, got %v", name, err)
		}
		mustPanic(t, name, func() { b.MustBuild() })
	}
}

func TestObject_BuiltSchemaIsFrozen(t *testing.T) {
	name := g.String()
	b := g.Object().Field("name", name)
	s := b.MustBuild()

	name.MinLength(10)
	b.String("extra", nil)

	if !okskema.Is(s, map[string]any{"name": "ab"}) {
		t.Fatalf("later builder calls must not affect a built schema")
	}
}

func TestObject_ChainingAfterField(t *testing.T) {
	s := g.Object().
		Field("name", g.String()).
		Integer("age", func(n *g.IntegerSchema) { n.Min(0) }).
		Field("nick", g.String()).
		UnknownStrict().
		MustBuild()

	fs := s.Validate(map[string]any{"name": "a", "age": -1, "extra": true}).Failures()
	want := []string{"/age min", "/nick required", "/extra unknownKey"}
	if len(fs) != len(want) {
		t.Fatalf("expected %v, got %v", want, fs)
	}
	for _, w := range want {
		parts := strings.Fields(w)
		if !fs.Has(okskema.ParsePointer(parts[0]), parts[1]) {
			t.Fatalf("missing %q in %v", w, fs)
		}
	}
}

func TestObject_Idempotent(t *testing.T) {
	s := luckyUser()
	in := map[string]any{"username": strings.Repeat("x", 30), "luckyNumber": 3}
	a := s.Validate(in).Failures()
	b := s.Validate(in).Failures()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("validation must be deterministic:\n%v\n%v", a, b)
	}
	if _, ok := in["luckyNumber"].(int); !ok {
		t.Fatalf("input must not be modified")
	}
}

func TestObject_ConcurrentValidate(t *testing.T) {
	s := luckyUser()
	inputs := []map[string]any{
		{"username": "bob", "luckyNumber": 42},
		{"username": "", "luckyNumber": 7},
		{"username": "bob"},
	}
	want := make([][]string, len(inputs))
	for i, in := range inputs {
		want[i] = s.Validate(in).Failures().Codes()
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for w := 0; w < 64; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				i := (w + n) % len(inputs)
				got := s.Validate(inputs[i]).Failures().Codes()
				if !reflect.DeepEqual(got, want[i]) {
					errs <- strings.Join(got, ",")
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatalf("concurrent validation diverged: %s", e)
	}
}
