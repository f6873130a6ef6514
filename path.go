package okskema

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: either an object key or an array index.
type Segment struct {
	key   string
	index int
	isIdx bool
}

// Key returns an object-key segment.
func Key(name string) Segment { return Segment{key: name} }

// Index returns an array-index segment.
func Index(i int) Segment { return Segment{index: i, isIdx: true} }

// IsIndex reports whether the segment addresses an array element.
func (s Segment) IsIndex() bool { return s.isIdx }

// Key returns the object key ("" for index segments).
func (s Segment) Key() string { return s.key }

// Index returns the array index (-1 for key segments).
func (s Segment) Index() int {
	if !s.isIdx {
		return -1
	}
	return s.index
}

// String renders the segment without escaping.
func (s Segment) String() string {
	if s.isIdx {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path locates a node inside a Value tree. The empty Path is the root.
type Path []Segment

// PathOf builds a Path from keys (string) and indexes (int). Other types panic.
func PathOf(parts ...any) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch t := part.(type) {
		case string:
			p = append(p, Key(t))
		case int:
			p = append(p, Index(t))
		case Segment:
			p = append(p, t)
		default:
			panic("okskema: PathOf accepts string, int or Segment")
		}
	}
	return p
}

// Prepend returns a new Path with seg in front. The receiver is not modified.
func (p Path) Prepend(seg Segment) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, seg)
	return append(out, p...)
}

// Append returns a new Path with seg at the end. The receiver is not modified.
func (p Path) Append(seg Segment) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, seg)
}

// Last returns the final segment, or false for the root path.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Pointer renders the path as an RFC 6901 JSON Pointer. The root is "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.isIdx {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1'
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// String renders the path in dotted display form, e.g. items[2].sku.
// The root renders as "".
func (p Path) String() string {
	b := &strings.Builder{}
	for i, s := range p {
		if s.isIdx {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

// MarshalText renders the JSON Pointer form so paths serialize as strings.
func (p Path) MarshalText() ([]byte, error) { return []byte(p.Pointer()), nil }

// ParsePointer parses a JSON Pointer. Segments made only of digits become
// index segments.
func ParsePointer(ptr string) Path {
	if ptr == "" || ptr == "/" {
		return Path{}
	}
	parts := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if i, err := strconv.Atoi(part); err == nil && i >= 0 && isDigits(part) {
			p = append(p, Index(i))
			continue
		}
		p = append(p, Key(strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")))
	}
	return p
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
