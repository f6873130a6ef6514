// Package okskema validates JSON-like values against composable schemas.
//
// A Value is the in-memory shape produced by JSON/YAML decoders: nil, bool,
// string, numbers (json.Number or Go numeric types), []any and
// map[string]any. A Schema[T] checks one Value and returns an Outcome[T]:
// Valid with the (possibly narrowed) value, or Invalid with every Failure
// found, each located by a Path.
//
// Design policy:
//   - Keep the contract (Schema, Outcome, Failure, Path, Collector) in the
//     root package; put builders under dsl/.
//   - Containers never stop at the first failing child: all siblings are
//     validated and their failures are merged in declaration order.
//   - Data problems are Failures, never panics. Misconfigured builders fail
//     fast at construction time.
//
// Typical usage:
//
//	s := dsl.Object().
//	    String("username", func(s *dsl.StringSchema) { s.MinLength(1).MaxLength(20) }).
//	    Integer("luckyNumber", func(n *dsl.IntegerSchema) { n.NotOneOf(2, 3, 5, 7) }).
//	    MustBuild()
//
//	out := s.Validate(value)
//	if !out.IsValid() {
//	    for _, f := range out.Failures() {
//	        fmt.Println(f.Path.Pointer(), f.Code)
//	    }
//	}
package okskema
