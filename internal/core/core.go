// Package core holds the vocabulary shared by every stage of the compile
// pipeline — the directive scanner, the expression tokenizer, the
// resolver, and the entry driver — so that none of them need to import one
// another just to pass diagnostics and resolved values around.
package core

import (
	"fmt"

	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// Undefined is the sentinel distinguishing "no value was supplied" from an
// explicit YAML null. A %PARAM or %LOCAL with no default and no supplied
// value resolves to Undefined, not nil (spec.md §8 invariant 2, §3.8).
type Undefined struct{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v interface{}) bool {
	_, ok := v.(Undefined)
	return ok
}

// DiagKind is one of the three diagnostic classes surfaced on the public
// API (spec.md §6.4).
type DiagKind string

const (
	KindParseError DiagKind = "ParseError"
	KindWarning    DiagKind = "Warning"
	KindExprError  DiagKind = "ExprError"
)

// RawDiag is a diagnostic as produced by a stage that does not yet know
// which module/file it is operating on (the tokenizer layers, the
// directive scanner). The entry driver decorates these into Diagnostic
// once the owning module's filename and path are known (spec.md §7,
// "after a top-level compile, every error is decorated...").
type RawDiag struct {
	Kind    DiagKind
	Code    string
	Message string
	Pos     position.Range
}

// Diagnostic is a fully decorated error as returned from the public API.
type Diagnostic struct {
	Kind     DiagKind
	Code     string
	Message  string
	Pos      position.Range
	LinePos  position.LinePos
	Filename string
	Path     string
}

// Error implements the error interface: a human message suffixed with the
// file location, per spec.md §6.4.
func (d *Diagnostic) Error() string {
	loc := d.Filename
	if loc == "" {
		loc = d.Path
	}
	return fmt.Sprintf("%s: %s (%s:%d:%d)", d.Kind, d.Message, loc, d.LinePos.Start.Line, d.LinePos.Start.Col)
}

// Decorate turns a RawDiag into a Diagnostic using the owning module's
// filename, canonical path, and line index.
func Decorate(raw RawDiag, filename, path string, idx *position.Index) *Diagnostic {
	var lp position.LinePos
	if idx != nil {
		lp = idx.LinePosFor(raw.Pos)
	}
	return &Diagnostic{
		Kind:     raw.Kind,
		Code:     raw.Code,
		Message:  raw.Message,
		Pos:      raw.Pos,
		LinePos:  lp,
		Filename: filename,
		Path:     path,
	}
}

// OrderedMap is an insertion-ordered string-keyed map: the resolver builds
// one of these for every YAML mapping node so that key order in the
// resolved value tree matches source order (spec.md §4.6.2, "Map...build
// an ordered mapping from stringified keys to values").
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]interface{})}
}

// Set inserts or updates key. Re-setting an existing key keeps its
// original position.
func (m *OrderedMap) Set(key string, value interface{}) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, preserving the order of the remaining keys.
func (m *OrderedMap) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Clone deep-copies the map (nested OrderedMaps and slices are cloned too).
func (m *OrderedMap) Clone() *OrderedMap {
	out := NewOrderedMap()
	for _, k := range m.keys {
		out.Set(k, CloneValue(m.values[k]))
	}
	return out
}

// ToPlain converts the OrderedMap into a map[string]interface{} suitable
// for hashing, JSON serialization, or generic traversal, recursively.
func (m *OrderedMap) ToPlain() map[string]interface{} {
	out := make(map[string]interface{}, len(m.keys))
	for _, k := range m.keys {
		out[k] = ToPlainValue(m.values[k])
	}
	return out
}

// ToPlainValue recursively converts OrderedMaps nested in v into plain
// map[string]interface{} values.
func ToPlainValue(v interface{}) interface{} {
	switch val := v.(type) {
	case *OrderedMap:
		return val.ToPlain()
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, vv := range val {
			out[i] = ToPlainValue(vv)
		}
		return out
	default:
		return v
	}
}

// CloneValue deep-copies a resolved value (OrderedMap, slice, or scalar).
func CloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case *OrderedMap:
		return val.Clone()
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, vv := range val {
			out[i] = CloneValue(vv)
		}
		return out
	default:
		return v
	}
}
