// Package catalog holds the named schemas served by the okskema command.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	okskema "github.com/reoring/okskema"
	g "github.com/reoring/okskema/dsl"
	"github.com/reoring/okskema/rules"
)

// Entry is one named schema.
type Entry struct {
	Name        string
	Description string
	Schema      okskema.Schema[any]
}

var entries = sync.OnceValue(func() map[string]Entry {
	all := []Entry{
		{Name: "user", Description: "account signup payload", Schema: g.SchemaOf(UserSchema())},
		{Name: "order", Description: "order with line items and delivery location", Schema: g.SchemaOf(OrderSchema())},
	}
	m := make(map[string]Entry, len(all))
	for _, e := range all {
		m[e.Name] = e
	}
	return m
})

// Lookup returns the schema registered under name.
func Lookup(name string) (Entry, error) {
	e, ok := entries()[name]
	if !ok {
		return Entry{}, fmt.Errorf("catalog: unknown schema %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return e, nil
}

// Names lists the registered schema names in order.
func Names() []string {
	out := make([]string, 0, len(entries()))
	for name := range entries() {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// UserSchema validates an account signup.
func UserSchema() okskema.Schema[map[string]any] {
	return g.Object().
		String("id", func(s *g.StringSchema) { s.Pattern(`^u_[a-z0-9]+$`).Label("User ID") }).
		String("email", func(s *g.StringSchema) {
			s.Transform(strings.ToLower).MaxLength(254).Pattern(`^[^@\s]+@[^@\s]+\.[^@\s]+$`).Label("Email")
		}).
		String("username", func(s *g.StringSchema) { s.MinLength(3).MaxLength(16).NotOneOf("admin", "root") }).
		Integer("age", func(n *g.IntegerSchema) { n.Min(13).Max(150).Optional() }).
		Array("tags", func(a *g.ArrayBuilder) { a.Of(g.String().MinLength(1)).MaxItems(10).Optional() }).
		Bool("newsletter", func(b *g.BoolSchema) { b.Optional() }).
		UnknownStrict().
		Description("account signup payload").
		MustBuild()
}

// OrderStatuses are the accepted order states.
var OrderStatuses = []string{"QUOTE", "CONFIRMED", "CANCELLED"}

// OrderSchema validates an order. Unless the order is a quote it needs at
// least one item, and SKUs must be unique across items.
func OrderSchema() okskema.Schema[map[string]any] {
	item := g.Object().
		String("sku", func(s *g.StringSchema) { s.MinLength(3).Pattern(`^[A-Z0-9-]+$`) }).
		Integer("qty", func(n *g.IntegerSchema) { n.Min(1) }).
		Number("price", func(n *g.NumberSchema) { n.Min(0) }).
		UnknownStrict()

	return g.Object().
		String("id", func(s *g.StringSchema) { s.MinLength(1) }).
		String("status", func(s *g.StringSchema) { s.OneOf(OrderStatuses...) }).
		Array("items", func(a *g.ArrayBuilder) { a.Of(item).MaxItems(100) }).
		Field("location", g.Tuple(
			g.Number().Min(-90).Max(90).Label("Latitude"),
			g.Number().Min(-180).Max(180).Label("Longitude"),
		).RejectAdditional().Optional()).
		Field("note", g.String().MaxLength(500).Nullable()).Optional().
		UnknownStrict().
		Refine("items_required_unless_quote", rules.If("/status", rules.Ne, "QUOTE").Then(rules.AtLeastOne("/items"))).
		Refine("sku_unique", rules.UniqueBy("/items", "sku")).
		MustBuild()
}
