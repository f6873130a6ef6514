package okskema_test

import (
	"testing"

	okskema "github.com/reoring/okskema"
)

func TestPath_Render(t *testing.T) {
	cases := []struct {
		p       okskema.Path
		pointer string
		dotted  string
	}{
		{okskema.Path{}, "/", ""},
		{okskema.PathOf("a"), "/a", "a"},
		{okskema.PathOf("items", 2, "sku"), "/items/2/sku", "items[2].sku"},
		{okskema.PathOf(0, "x"), "/0/x", "[0].x"},
		{okskema.PathOf("a/b", "m~n"), "/a~1b/m~0n", "a/b.m~n"},
	}
	for _, tc := range cases {
		if got := tc.p.Pointer(); got != tc.pointer {
			t.Fatalf("pointer: want %q, got %q", tc.pointer, got)
		}
		if got := tc.p.String(); got != tc.dotted {
			t.Fatalf("dotted: want %q, got %q", tc.dotted, got)
		}
	}
}

func TestPath_ParsePointerRoundTrip(t *testing.T) {
	for _, ptr := range []string{"/", "/a", "/items/2/sku", "/a~1b/m~0n", "/01x"} {
		if got := okskema.ParsePointer(ptr).Pointer(); got != ptr {
			t.Fatalf("round trip %q: got %q", ptr, got)
		}
	}
	p := okskema.ParsePointer("/items/2")
	if seg, ok := p.Last(); !ok || !seg.IsIndex() || seg.Index() != 2 {
		t.Fatalf("expected index segment, got %v", p)
	}
	if _, ok := (okskema.Path{}).Last(); ok {
		t.Fatalf("root has no last segment")
	}
}

func TestPath_PrependDoesNotAlias(t *testing.T) {
	base := okskema.PathOf("b")
	a := base.Prepend(okskema.Key("a"))
	c := base.Append(okskema.Index(1))
	if base.Pointer() != "/b" || a.Pointer() != "/a/b" || c.Pointer() != "/b/1" {
		t.Fatalf("unexpected paths: %v %v %v", base, a, c)
	}
	if okskema.Key("k").Index() != -1 || okskema.Index(3).Key() != "" {
		t.Fatalf("unexpected segment accessors")
	}
}

func TestPath_MarshalText(t *testing.T) {
	b, err := okskema.PathOf("a", 1).MarshalText()
	if err != nil || string(b) != "/a/1" {
		t.Fatalf("unexpected text %q err=%v", b, err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unsupported part")
		}
	}()
	okskema.PathOf(1.5)
}
