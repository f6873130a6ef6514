// Package dsl provides the schema builders for okskema.
//
// Overview
//   - Leaf schemas: String(), Integer(), Unsigned(), Number(), Bool(). Each
//     constraint method mutates the schema and returns it for chaining.
//   - Object(): declare properties with Field(name, node) or the closure
//     helpers String/Integer/Number/Bool/Object/Array, then Build()/MustBuild().
//     Properties are required unless marked Optional.
//   - Array(): element mode with Of(node) or positional mode with Items(...)
//     (Tuple(...) is a shortcut), plus MinItems/MaxItems.
//   - ArrayOf[E](schema): element-mode array projected to []E.
//   - Bind[T](builder): object schema projected onto struct T.
//   - SchemaOf[T](s): adapt any okskema.Schema[T] so it can be nested.
//
// Validation flow
//
// Leaves check the kind first; a kind mismatch yields a single "type" failure.
// Otherwise transforms run and then every constraint, so one value can fail
// several constraints at once. Containers validate every child and rebase
// child failures below the property name or element index. Sibling failures
// never hide each other.
//
// Example
//
//	user := dsl.Object().
//	    String("username", func(s *dsl.StringSchema) { s.MinLength(3).MaxLength(16) }).
//	    Integer("luckyNumber", func(n *dsl.IntegerSchema) { n.Min(0).Max(9) }).
//	    Array("tags", func(a *dsl.ArrayBuilder) { a.Of(dsl.String()).MaxItems(5).Optional() }).
//	    UnknownStrict().
//	    MustBuild()
//
//	out := user.Validate(map[string]any{"username": "al", "luckyNumber": 12})
//	for _, f := range out.Failures() {
//	    fmt.Println(f.Path.Pointer(), f.Code) // /username minLength, /luckyNumber max
//	}
//
// Builders are not safe for concurrent use; built schemas are immutable and
// may be shared between goroutines.
package dsl
