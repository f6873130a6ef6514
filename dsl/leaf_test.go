package dsl_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	okskema "github.com/reoring/okskema"
	g "github.com/reoring/okskema/dsl"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestString_LengthBounds(t *testing.T) {
	s := g.String().MinLength(3).MaxLength(5)

	if v, err := okskema.Parse[string](s, "abcd"); err != nil || v != "abcd" {
		t.Fatalf("expected ok, v=%q err=%v", v, err)
	}
	fs := s.Validate("ab").Failures()
	if len(fs) != 1 || fs[0].Code != okskema.CodeMinLength {
		t.Fatalf("expected single minLength, got %v", fs)
	}
	if fs[0].Params["min"] != 3 || fs[0].Params["actual"] != 2 {
		t.Fatalf("unexpected params: %#v", fs[0].Params)
	}
	if len(fs[0].Path) != 0 {
		t.Fatalf("leaf failures must be at the root path, got %v", fs[0].Path)
	}
	if fs := s.Validate("abcdef").Failures(); len(fs) != 1 || fs[0].Code != okskema.CodeMaxLength {
		t.Fatalf("expected maxLength, got %v", fs)
	}
}

func TestString_LengthCountsCodePoints(t *testing.T) {
	s := g.String().MaxLength(5)
	if !okskema.Is[string](s, "héllo") {
		t.Fatalf("5 code points must fit MaxLength(5)")
	}
	if okskema.Is[string](s, "日本語テキスト") {
		t.Fatalf("7 code points must exceed MaxLength(5)")
	}
}

func TestString_AllConstraintsReported(t *testing.T) {
	s := g.String().MinLength(5).Pattern(`^[0-9]+$`).NotOneOf("ab")
	fs := s.Validate("ab").Failures()
	got := strings.Join(fs.Codes(), ",")
	if got != "minLength,pattern,notOneOf" {
		t.Fatalf("expected all constraints in declaration order, got %s", got)
	}
}

func TestString_TypeMismatchShortCircuits(t *testing.T) {
	s := g.String().MinLength(1).Pattern(`x`)
	fs := s.Validate(1).Failures()
	if len(fs) != 1 || fs[0].Code != okskema.CodeType {
		t.Fatalf("expected single type failure, got %v", fs)
	}
	if fs[0].Params["expected"] != "string" || fs[0].Params["actual"] != "number" {
		t.Fatalf("unexpected params: %#v", fs[0].Params)
	}
	if fs[0].Message == "" {
		t.Fatalf("expected a translated message")
	}
}

func TestString_NullHandling(t *testing.T) {
	if fs := g.String().Validate(nil).Failures(); len(fs) != 1 || fs[0].Params["actual"] != "null" {
		t.Fatalf("null must be a type failure, got %v", fs)
	}
	v, ok := g.String().MinLength(3).Nullable().Validate(nil).Value()
	if !ok || v != "" {
		t.Fatalf("nullable string must accept null, v=%q ok=%v", v, ok)
	}
}

func TestString_OneOf(t *testing.T) {
	s := g.String().OneOf("red", "green")
	if !okskema.Is[string](s, "green") {
		t.Fatalf("green is allowed")
	}
	fs := s.Validate("blue").Failures()
	if len(fs) != 1 || fs[0].Code != okskema.CodeOneOf || fs[0].Params["actual"] != "blue" {
		t.Fatalf("expected oneOf, got %v", fs)
	}
	mustPanic(t, "empty OneOf", func() { g.String().OneOf() })
}

func TestString_TransformRunsBeforeConstraints(t *testing.T) {
	s := g.String().Transform(strings.TrimSpace).MinLength(1)
	if fs := s.Validate("   ").Failures(); len(fs) != 1 || fs[0].Code != okskema.CodeMinLength {
		t.Fatalf("expected minLength after trim, got %v", fs)
	}
	if v, _ := s.Validate("  ok ").Value(); v != "ok" {
		t.Fatalf("expected transformed output, got %q", v)
	}
}

func TestString_Coerce(t *testing.T) {
	s := g.String().Coerce()
	cases := []struct {
		in   any
		want string
	}{
		{12, "12"},
		{true, "true"},
		{json.Number("1.50"), "1.50"},
		{1.5, "1.5"},
		{uint64(18446744073709551615), "18446744073709551615"},
	}
	for _, tc := range cases {
		v, err := okskema.Parse[string](s, tc.in)
		if err != nil || v != tc.want {
			t.Fatalf("coerce %v: want %q, got %q err=%v", tc.in, tc.want, v, err)
		}
	}
	if okskema.Is[string](s, []any{}) {
		t.Fatalf("arrays are never coerced")
	}
	if okskema.Is[string](g.String(), 12) {
		t.Fatalf("coercion is opt-in")
	}
}

func TestString_CustomTestAndLabel(t *testing.T) {
	s := g.String().Label("User name").Test("lowercase", func(v string) bool { return v == strings.ToLower(v) })
	fs := s.Validate("Bob").Failures()
	if len(fs) != 1 || fs[0].Code != okskema.CodeCustom || fs[0].Params["test"] != "lowercase" {
		t.Fatalf("expected custom failure, got %v", fs)
	}
	if fs[0].Label != "User name" {
		t.Fatalf("expected label, got %q", fs[0].Label)
	}
	mustPanic(t, "nil test", func() { g.String().Test("x", nil) })
}

func TestString_RedeclaredConstraintReplaces(t *testing.T) {
	s := g.String().MinLength(3).MinLength(1)
	if !okskema.Is[string](s, "ab") {
		t.Fatalf("latest MinLength must win")
	}
	if len(g.String().MinLength(3).MinLength(4).Validate("a").Failures()) != 1 {
		t.Fatalf("a replaced constraint must be reported once")
	}
}

func TestString_Misconfiguration(t *testing.T) {
	mustPanic(t, "negative", func() { g.String().MinLength(-1) })
	mustPanic(t, "min>max", func() { g.String().MaxLength(2).MinLength(5) })
	mustPanic(t, "max<min", func() { g.String().MinLength(5).MaxLength(2) })
	mustPanic(t, "bad pattern", func() { g.String().Pattern(`(`) })
}

func TestInteger_Kinds(t *testing.T) {
	s := g.Integer()
	ok := []struct {
		in   any
		want int64
	}{
		{7, 7},
		{1.0, 1},
		{int8(-3), -3},
		{json.Number("9007199254740993"), 9007199254740993},
		{json.Number("2e3"), 2000},
	}
	for _, tc := range ok {
		v, err := okskema.Parse[int64](s, tc.in)
		if err != nil || v != tc.want {
			t.Fatalf("integer %v: want %d, got %d err=%v", tc.in, tc.want, v, err)
		}
	}
	for _, in := range []any{1.5, "1", true, uint64(1 << 63), json.Number("1e30")} {
		fs := s.Validate(in).Failures()
		if len(fs) != 1 || fs[0].Code != okskema.CodeType || fs[0].Params["expected"] != "integer" {
			t.Fatalf("integer %v: expected type failure, got %v", in, fs)
		}
	}
}

func TestInteger_Bounds(t *testing.T) {
	s := g.Integer().Min(0).Max(9)
	fs := s.Validate(12).Failures()
	if len(fs) != 1 || fs[0].Code != okskema.CodeMax {
		t.Fatalf("expected max, got %v", fs)
	}
	if fs[0].Params["max"] != int64(9) || fs[0].Params["actual"] != int64(12) {
		t.Fatalf("unexpected params: %#v", fs[0].Params)
	}
	if fs := s.Validate(-1).Failures(); len(fs) != 1 || fs[0].Code != okskema.CodeMin {
		t.Fatalf("expected min, got %v", fs)
	}
	if !okskema.Is[int64](s, 0) || !okskema.Is[int64](s, 9) {
		t.Fatalf("bounds are inclusive")
	}
	mustPanic(t, "min>max", func() { g.Integer().Max(1).Min(2) })
	mustPanic(t, "max<min", func() { g.Integer().Min(2).Max(1) })
}

func TestInteger_CoerceAndOneOf(t *testing.T) {
	s := g.Integer().Coerce().OneOf(1, 2, 3)
	if v, err := okskema.Parse[int64](s, "2"); err != nil || v != 2 {
		t.Fatalf("expected coerced 2, got %d err=%v", v, err)
	}
	if fs := s.Validate("abc").Failures(); len(fs) != 1 || fs[0].Code != okskema.CodeType {
		t.Fatalf("non-numeric text stays a type failure, got %v", fs)
	}
	if fs := s.Validate(4).Failures(); len(fs) != 1 || fs[0].Code != okskema.CodeOneOf {
		t.Fatalf("expected oneOf, got %v", fs)
	}
}

func TestUnsigned(t *testing.T) {
	s := g.Unsigned().Max(10)
	if v, err := okskema.Parse[uint64](s, 3); err != nil || v != 3 {
		t.Fatalf("expected 3, got %d err=%v", v, err)
	}
	if fs := s.Validate(-1).Failures(); len(fs) != 1 || fs[0].Params["expected"] != "unsigned integer" {
		t.Fatalf("negative input must be a type failure, got %v", fs)
	}
	if v, err := okskema.Parse[uint64](g.Unsigned(), json.Number("18446744073709551615")); err != nil || v != 18446744073709551615 {
		t.Fatalf("expected max uint64, got %d err=%v", v, err)
	}
}

func TestNumber_ExactComparison(t *testing.T) {
	s := g.Number().Min(0.1).Transform(func(f float64) float64 { return f * 2 })
	if v, err := okskema.Parse[float64](s, json.Number("1e3")); err != nil || v != 2000 {
		t.Fatalf("expected 2000, got %v err=%v", v, err)
	}
	if !okskema.Is[float64](g.Number().Max(1), 1) {
		t.Fatalf("integer input compares exactly against float bounds")
	}
	if okskema.Is[float64](g.Number().Max(1), 1.0000001) {
		t.Fatalf("no tolerance is applied")
	}
}

func TestNumber_RejectsNonFinite(t *testing.T) {
	s := g.Number().Min(0).Max(10)
	for name, v := range map[string]any{
		"nan":  math.NaN(),
		"+inf": math.Inf(1),
		"-inf": math.Inf(-1),
		"f32":  float32(math.Inf(1)),
	} {
		fs := s.Validate(v).Failures()
		if len(fs) != 1 || fs[0].Code != okskema.CodeType {
			t.Fatalf("%s: expected a type failure, got %v", name, fs)
		}
	}
	for _, text := range []string{"NaN", "Infinity", "-Inf"} {
		if okskema.Is[float64](g.Number().Coerce().Min(0).Max(10), text) {
			t.Fatalf("coerced %q must be rejected", text)
		}
	}
	if okskema.Is[string](g.String().Coerce(), math.NaN()) {
		t.Fatalf("NaN must not coerce to a string")
	}
}

func TestBool(t *testing.T) {
	if v, err := okskema.Parse[bool](g.Bool(), true); err != nil || !v {
		t.Fatalf("expected true, got %v err=%v", v, err)
	}
	if fs := g.Bool().Validate("true").Failures(); len(fs) != 1 || fs[0].Params["expected"] != "boolean" {
		t.Fatalf("expected type failure, got %v", fs)
	}
	if v, err := okskema.Parse[bool](g.Bool().Coerce(), "false"); err != nil || v {
		t.Fatalf("expected coerced false, got %v err=%v", v, err)
	}
	fs := g.Bool().Equal(true).Validate(false).Failures()
	if len(fs) != 1 || fs[0].Code != okskema.CodeEqual || fs[0].Params["expected"] != true {
		t.Fatalf("expected equal failure, got %v", fs)
	}
}

func TestLeaf_FailuresAreFresh(t *testing.T) {
	s := g.String().MinLength(3)
	a := s.Validate("a").Failures()
	b := s.Validate("a").Failures()
	a[0].Code = "mutated"
	if b[0].Code != okskema.CodeMinLength {
		t.Fatalf("outcomes must not share failure storage")
	}
}
