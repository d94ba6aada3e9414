package loot

import (
	"strings"
)

// Query is a path to a value inside a Container. It consists of ordered
// string parts and has a '.'-separated textual form, so NewQuery("a", "b")
// and ParseQuery("a.b") address the same value.
//
// Queries are immutable values. Methods that derive new paths return copies
// and leave the receiver untouched.
type Query struct {
	parts []string
}

// NewQuery creates a query from the given parts. Parts are used verbatim, a
// part containing '.' is not split any further.
func NewQuery(parts ...string) Query {
	q := Query{parts: make([]string, len(parts))}
	copy(q.parts, parts)
	return q
}

// ParseQuery parses a '.'-separated path into a query. Empty parts are
// dropped, so ParseQuery("a..b") equals NewQuery("a", "b").
func ParseQuery(s string) Query {
	split := strings.Split(s, ".")
	parts := make([]string, 0, len(split))
	for _, part := range split {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return Query{parts: parts}
}

// Parts returns a copy of the parts that make up the query.
func (q Query) Parts() []string {
	parts := make([]string, len(q.parts))
	copy(parts, q.parts)
	return parts
}

// Then returns a new query with the given parts appended.
func (q Query) Then(parts ...string) Query {
	joined := make([]string, 0, len(q.parts)+len(parts))
	joined = append(joined, q.parts...)
	joined = append(joined, parts...)
	return Query{parts: joined}
}

// Parent returns the query without its last part. The parent of an empty
// query is the empty query.
func (q Query) Parent() Query {
	if len(q.parts) == 0 {
		return Query{}
	}
	return NewQuery(q.parts[:len(q.parts)-1]...)
}

// Last returns the last part of the query, or an empty string if the query
// is empty.
func (q Query) Last() string {
	if len(q.parts) == 0 {
		return ""
	}
	return q.parts[len(q.parts)-1]
}

// Empty checks if the query has no parts.
func (q Query) Empty() bool {
	return len(q.parts) == 0
}

// Equal checks if two queries consist of the same parts in the same order.
func (q Query) Equal(other Query) bool {
	if len(q.parts) != len(other.parts) {
		return false
	}
	for i, part := range q.parts {
		if other.parts[i] != part {
			return false
		}
	}
	return true
}

// String returns the '.'-separated textual form of the query.
func (q Query) String() string {
	return strings.Join(q.parts, ".")
}
