// Package docstore is the gateway to the backing document store. It exposes
// named collections of JSON-like documents with live subscriptions that
// deliver the full current result set on every change, plus fire-and-forget
// mutation calls. Decoding with fallback defaults happens once here, at the
// boundary, never at call sites.
package docstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("docstore: document not found")

// Fields is the mutable body of a document.
type Fields map[string]any

// Document is one decoded record. CreatedAt/UpdatedAt are server-assigned.
type Document struct {
	ID        string
	Fields    Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Snapshot []Document

// Filter is an equality filter on a body field. Field may be a dotted path
// ("shipping.status").
type Filter struct {
	Field string
	Value any
}

type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string // body field, or "createdAt"/"updatedAt" for server timestamps
	Desc       bool
}

// Where appends an equality filter.
func (q Query) Where(field string, value any) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Value: value})
	return q
}

type Store interface {
	// Subscribe delivers the current snapshot immediately and again after
	// every change to the collection. The callback runs on the notifying
	// goroutine; it must not block.
	Subscribe(ctx context.Context, q Query, fn func(Snapshot)) (func(), error)
	// Fetch runs the query once.
	Fetch(ctx context.Context, q Query) (Snapshot, error)
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	Patch(ctx context.Context, collection, id string, fields Fields) error
	Remove(ctx context.Context, collection, id string) error
}

// TimeLayout is the display format for server timestamps, matching the
// admin screens (e.g. "Aug 30, 2026, 05:41 PM").
const TimeLayout = "Jan 02, 2006, 03:04 PM"

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// Str returns a string field, or def when missing or not a string.
func (d Document) Str(key, def string) string {
	if v, ok := lookupPath(d.Fields, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Num returns a numeric field, or 0 when missing or not numeric.
func (d Document) Num(key string) float64 {
	if v, ok := lookupPath(d.Fields, key); ok {
		if f, ok := asNumber(v); ok {
			return f
		}
	}
	return 0
}

// Flag01 reads a tri-state flag: 1 or true count as set, anything else as 0.
func (d Document) Flag01(key string) int {
	v, ok := lookupPath(d.Fields, key)
	if !ok {
		return 0
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	if f, ok := asNumber(v); ok && f == 1 {
		return 1
	}
	return 0
}

// Strings returns a string-sequence field, or an empty slice.
func (d Document) Strings(key string) []string {
	v, ok := lookupPath(d.Fields, key)
	if !ok {
		return []string{}
	}
	switch vv := v.(type) {
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

// lookupPath resolves a dotted field path inside nested maps.
func lookupPath(f Fields, path string) (any, bool) {
	if f == nil {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var cur any = map[string]any(f)
	for _, p := range parts {
		m, ok := toMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath writes a dotted field path, creating nested maps as needed.
func setPath(f Fields, path string, value any) {
	parts := strings.Split(path, ".")
	cur := map[string]any(f)
	for _, p := range parts[:len(parts)-1] {
		next, ok := toMap(cur[p])
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Fields:
		return m, true
	}
	return nil, false
}

// matches reports whether the document passes all equality filters.
func matches(d Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := lookupPath(d.Fields, f.Field)
		if !ok {
			return false
		}
		if !valueEqual(v, f.Value) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if fa, ok := asNumber(a); ok {
		if fb, ok := asNumber(b); ok {
			return fa == fb
		}
		return false
	}
	return a == b
}

func (d Document) clone() Document {
	out := d
	out.Fields = cloneFields(d.Fields)
	return out
}

func cloneFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(vv))
		for k, e := range vv {
			m[k] = cloneValue(e)
		}
		return m
	case Fields:
		return map[string]any(cloneFields(vv))
	case []any:
		s := make([]any, len(vv))
		for i, e := range vv {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		s := make([]string, len(vv))
		copy(s, vv)
		return s
	}
	return v
}
