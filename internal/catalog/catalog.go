// Package catalog holds the fixed set of canned queries the dashboard offers,
// grouped by domain tab. Statements are static MySQL text with no bound
// parameters: no user input ever reaches SQL.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Query is one selectable entry.
type Query struct {
	// Label is the display text, carrying its ordinal ("5. Number of unique brands").
	Label string

	// Statement is the SQL sent to the store.
	Statement string

	// Variant, when set, replaces Statement for rendering. Only the word cloud
	// uses it: it needs the join key alongside the product name.
	Variant string
}

// Ordinal returns the leading number of the label, or 0 if it has none.
func (q Query) Ordinal() int {
	head, _, ok := strings.Cut(q.Label, ".")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return n
}

// Domain is one tab of the dashboard.
type Domain struct {
	Key     string
	Title   string
	Header  string
	Prompt  string
	Queries []Query
}

// Query returns the entry with the given label.
func (d *Domain) Query(label string) (Query, bool) {
	for _, q := range d.Queries {
		if q.Label == label {
			return q, true
		}
	}
	return Query{}, false
}

// At returns the entry with the given ordinal.
func (d *Domain) At(ordinal int) (Query, bool) {
	for _, q := range d.Queries {
		if q.Ordinal() == ordinal {
			return q, true
		}
	}
	return Query{}, false
}

const (
	Product  = "product"
	Nutrient = "nutrient"
	Derived  = "derived"
	Join     = "join"
)

var domains = []*Domain{
	{
		Key:     Product,
		Title:   "Product Info",
		Header:  "📦 Product Info Queries",
		Prompt:  "Choose a Product Info Query",
		Queries: productQueries,
	},
	{
		Key:     Nutrient,
		Title:   "Nutrient Info",
		Header:  "📑 Nutrient Info Queries & Visualizations",
		Prompt:  "Choose a Nutrient Info Query",
		Queries: nutrientQueries,
	},
	{
		Key:     Derived,
		Title:   "Derived Metrics",
		Header:  "📊 Derived Metrics Queries & Visualizations",
		Prompt:  "Choose a Derived Metrics Query",
		Queries: derivedQueries,
	},
	{
		Key:     Join,
		Title:   "Join Queries",
		Header:  "📑 Join Queries & Visualizations",
		Prompt:  "Choose a Join Query",
		Queries: joinQueries,
	},
}

// Domains returns the domains in tab order.
func Domains() []*Domain {
	return domains
}

// Lookup returns the domain with the given key.
func Lookup(key string) (*Domain, bool) {
	for _, d := range domains {
		if d.Key == key {
			return d, true
		}
	}
	return nil, false
}

// Validate checks the catalog invariants: labels unique within a domain,
// ordinals numbered 1..n in display order.
func Validate() error {
	for _, d := range domains {
		seen := make(map[string]bool, len(d.Queries))
		for i, q := range d.Queries {
			if seen[q.Label] {
				return fmt.Errorf("domain %s: duplicate label %q", d.Key, q.Label)
			}
			seen[q.Label] = true
			if q.Ordinal() != i+1 {
				return fmt.Errorf("domain %s: label %q out of order", d.Key, q.Label)
			}
			if strings.TrimSpace(q.Statement) == "" {
				return fmt.Errorf("domain %s: label %q has no statement", d.Key, q.Label)
			}
		}
	}
	return nil
}
