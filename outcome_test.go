package okskema_test

import (
	"encoding/json"
	"strconv"
	"testing"

	okskema "github.com/reoring/okskema"
)

func TestOutcome_ValidInvalid(t *testing.T) {
	ok := okskema.Valid(3)
	if v, good := ok.Value(); !good || v != 3 || ok.Err() != nil {
		t.Fatalf("unexpected valid outcome")
	}
	bad := okskema.Invalid[int](okskema.Failures{okskema.RequiredFailure()})
	if bad.IsValid() || bad.Err() == nil || len(bad.Failures()) != 1 {
		t.Fatalf("unexpected invalid outcome")
	}
	if _, err := bad.Unwrap(); err == nil {
		t.Fatalf("Unwrap must return the failures")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("Invalid with no failures must panic")
		}
	}()
	okskema.Invalid[int](nil)
}

func TestMap(t *testing.T) {
	got := okskema.Map(okskema.Valid(7), strconv.Itoa)
	if v, _ := got.Value(); v != "7" {
		t.Fatalf("unexpected mapped value %q", v)
	}
	bad := okskema.Map(okskema.Invalid[int](okskema.Failures{okskema.RequiredFailure()}), strconv.Itoa)
	if bad.IsValid() {
		t.Fatalf("Map must keep failures")
	}
}

func TestCollector(t *testing.T) {
	var c okskema.Collector
	if _, ok := okskema.Collect(&c, okskema.Key("a"), okskema.Valid("x")); !ok || c.Failed() {
		t.Fatalf("valid child must not fail the collector")
	}
	okskema.Collect(&c, okskema.Key("b"), okskema.Invalid[string](okskema.Failures{okskema.RequiredFailure()}))
	okskema.Collect(&c, okskema.Index(2), okskema.Invalid[string](okskema.Failures{okskema.TypeFailure("string", 1)}))
	c.Add(okskema.NewFailure(okskema.CodeCustom))
	if c.Len() != 3 {
		t.Fatalf("expected 3 failures, got %d", c.Len())
	}
	out := okskema.Conclude(&c, "ignored")
	fs := out.Failures()
	if fs[0].Path.Pointer() != "/b" || fs[1].Path.Pointer() != "/2" || fs[2].Path.Pointer() != "/" {
		t.Fatalf("unexpected order or paths: %v", fs)
	}

	var empty okskema.Collector
	if v, ok := okskema.Conclude(&empty, 1).Value(); !ok || v != 1 {
		t.Fatalf("empty collector concludes valid")
	}
}

func TestKindOfAndNumbers(t *testing.T) {
	kinds := map[okskema.Kind]any{
		okskema.KindNull:    nil,
		okskema.KindBool:    false,
		okskema.KindString:  "",
		okskema.KindNumber:  json.Number("1"),
		okskema.KindArray:   []any{},
		okskema.KindObject:  map[string]any{},
		okskema.KindUnknown: struct{}{},
	}
	for want, v := range kinds {
		if got := okskema.KindOf(v); got != want {
			t.Fatalf("KindOf(%#v) = %v, want %v", v, got, want)
		}
	}
	if _, ok := okskema.AsInt64(float64(1 << 63)); ok {
		t.Fatalf("2^63 overflows int64")
	}
	if v, ok := okskema.AsInt64(float64(-(1 << 63))); !ok || v != -(1<<63) {
		t.Fatalf("-2^63 fits int64")
	}
	if _, ok := okskema.AsUint64(-0.5); ok {
		t.Fatalf("fractions are not unsigned integers")
	}
	if f, ok := okskema.AsFloat64(json.Number("1e-3")); !ok || f != 0.001 {
		t.Fatalf("unexpected float %v", f)
	}
}
