package okskema

// Schema is the capability every validator node implements.
//
// Validate must be a pure function of v and the schema's fixed configuration:
// it performs no writes to schema state, so one Schema may be used from many
// goroutines at once.
type Schema[T any] interface {
	Validate(v any) Outcome[T]
}

// Meta is descriptive configuration shared by every schema kind.
type Meta struct {
	Label       string
	Description string
	// Optional lets an enclosing object or tuple accept the node being absent.
	Optional bool
	// Nullable accepts null in place of a value of the declared kind.
	Nullable bool
}

// Described is implemented by schemas that expose Meta.
type Described interface {
	Meta() Meta
}

// MetaOf returns the Meta of s, or the zero Meta when s does not expose any.
func MetaOf(s any) Meta {
	if d, ok := s.(Described); ok {
		return d.Meta()
	}
	return Meta{}
}

// Parse validates v and returns the typed value or the Failures as an error.
func Parse[T any](s Schema[T], v any) (T, error) { return s.Validate(v).Unwrap() }

// Check validates v and returns the Failures as an error, or nil.
func Check[T any](s Schema[T], v any) error { return s.Validate(v).Err() }

// Is reports whether v conforms to s.
func Is[T any](s Schema[T], v any) bool { return s.Validate(v).IsValid() }
