// Package query provides a value-typed builder for the boolean search
// query DSL. Queries are immutable once handed off, composition happens
// by building new values instead of mutating whatever a caller passed
// in.
package query

import (
	"github.com/alerthub/core/encoding/json"
)

// Query is a node of a search query document.
type Query interface {
	// Kind returns the DSL name of the query node, e.g. "bool".
	Kind() string

	// Source returns the document fragment for the node, keyed by
	// its kind.
	Source() map[string]interface{}
}

// Marshal renders the query to its JSON document form.
func Marshal(q Query) ([]byte, error) {
	return json.Marshal(q.Source())
}

// Bool is a boolean compound query with must, must_not, should and
// filter clauses. The appenders return the receiver for chaining.
type Bool struct {
	must    []Query
	mustNot []Query
	should  []Query
	filter  []Query
}

func NewBool() *Bool {
	return &Bool{}
}

// Wrap returns q itself if it already is a boolean query, otherwise a
// new boolean query with q as its only must clause. Callers use this
// instead of asserting on the concrete type of a query they didn't
// build.
func Wrap(q Query) *Bool {
	if q == nil {
		return NewBool()
	}

	if b, ok := q.(*Bool); ok {
		return b
	}

	return NewBool().Must(q)
}

func (b *Bool) Kind() string {
	return "bool"
}

func (b *Bool) Must(q ...Query) *Bool {
	b.must = append(b.must, q...)
	return b
}

func (b *Bool) MustNot(q ...Query) *Bool {
	b.mustNot = append(b.mustNot, q...)
	return b
}

func (b *Bool) Should(q ...Query) *Bool {
	b.should = append(b.should, q...)
	return b
}

func (b *Bool) Filter(q ...Query) *Bool {
	b.filter = append(b.filter, q...)
	return b
}

func (b *Bool) Source() map[string]interface{} {
	clauses := map[string]interface{}{}

	appendClauses := func(name string, list []Query) {
		if len(list) == 0 {
			return
		}

		sources := make([]interface{}, 0, len(list))
		for _, q := range list {
			sources = append(sources, q.Source())
		}

		clauses[name] = sources
	}

	appendClauses("must", b.must)
	appendClauses("must_not", b.mustNot)
	appendClauses("should", b.should)
	appendClauses("filter", b.filter)

	return map[string]interface{}{"bool": clauses}
}

// Nested evaluates a sub-query against values of a nested sub-document
// field.
type Nested struct {
	path  string
	query Query
}

func NewNested(path string, q Query) *Nested {
	return &Nested{path: path, query: q}
}

func (n *Nested) Kind() string {
	return "nested"
}

func (n *Nested) Source() map[string]interface{} {
	return map[string]interface{}{
		"nested": map[string]interface{}{
			"path":  n.path,
			"query": n.query.Source(),
		},
	}
}

// Exists matches documents that have any value for the field.
type Exists struct {
	field string
}

func NewExists(field string) *Exists {
	return &Exists{field: field}
}

func (e *Exists) Kind() string {
	return "exists"
}

func (e *Exists) Source() map[string]interface{} {
	return map[string]interface{}{
		"exists": map[string]interface{}{
			"field": e.field,
		},
	}
}

// Term matches documents where the field has exactly the given value.
type Term struct {
	field string
	value interface{}
}

func NewTerm(field string, value interface{}) *Term {
	return &Term{field: field, value: value}
}

func (t *Term) Kind() string {
	return "term"
}

func (t *Term) Source() map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{
			t.field: t.value,
		},
	}
}

// Terms matches documents where the field has any of the given values.
type Terms struct {
	field  string
	values []string
}

func NewTerms(field string, values ...string) *Terms {
	return &Terms{field: field, values: values}
}

func (t *Terms) Kind() string {
	return "terms"
}

func (t *Terms) Source() map[string]interface{} {
	values := make([]interface{}, 0, len(t.values))
	for _, v := range t.values {
		values = append(values, v)
	}

	return map[string]interface{}{
		"terms": map[string]interface{}{
			t.field: values,
		},
	}
}

// MatchAll matches every document.
type MatchAll struct{}

func NewMatchAll() *MatchAll {
	return &MatchAll{}
}

func (m *MatchAll) Kind() string {
	return "match_all"
}

func (m *MatchAll) Source() map[string]interface{} {
	return map[string]interface{}{"match_all": map[string]interface{}{}}
}
