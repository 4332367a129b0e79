// Package modcache implements the per-path, per-parameter-hash module
// cache (spec.md §4.5.1): one entry per canonical module path, keyed
// further by a FIFO-bounded map of parameter hash → resolved tree.
//
// Grounded on cloudposse/atmos's YAML-loader cache-key pattern (reused
// via internal/hashutil) and on the teacher's own bounded-collection
// instincts in internal/filetree (deterministic, insertion-ordered
// traversal); the FIFO eviction policy itself is new to this package,
// sized 50/25 per spec.md §9's design note.
package modcache

import (
	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/directive"
	"github.com/yaml-extend/yaml-extend-sub001/internal/hashutil"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

const (
	evictThreshold = 50
	evictBatch     = 25
)

// ParamEntry is one resolved-tree slot, indexed by the hash of the
// parameter map a resolve ran with.
type ParamEntry struct {
	PublicTree  interface{}
	PrivateTree interface{}
	Errors      []core.RawDiag
}

// Entry is everything the cache keeps for one canonical module path.
type Entry struct {
	ResolvedPath string
	SourceHash   string
	Index        *position.Index
	Directives   *directive.Directives
	Root         *yaml.Node

	paramOrder []string
	params     map[string]*ParamEntry
}

// Cache maps canonical paths to Entry.
type Cache struct {
	entries map[string]*Entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: map[string]*Entry{}}
}

// Lookup returns the entry for path if present and its sourceHash still
// matches source (a cache hit re-compares hashString(source) and the
// caller discards on mismatch — spec.md §4.5.1).
func (c *Cache) Lookup(path, source string) (*Entry, bool) {
	e, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	if e.SourceHash != hashutil.HashString(source) {
		return nil, false
	}
	return e, true
}

// Insert creates (or replaces) the entry for path.
func (c *Cache) Insert(path, source string, idx *position.Index, d *directive.Directives, root *yaml.Node) *Entry {
	e := &Entry{
		ResolvedPath: path,
		SourceHash:   hashutil.HashString(source),
		Index:        idx,
		Directives:   d,
		Root:         root,
		params:       map[string]*ParamEntry{},
	}
	c.entries[path] = e
	return e
}

// GetEntry returns the entry for path without re-validating its source
// hash, for callers (the entry driver, decorating diagnostics after a
// compile) that already know which entry they want.
func (c *Cache) GetEntry(path string) (*Entry, bool) {
	e, ok := c.entries[path]
	return e, ok
}

// Delete removes path's entry entirely.
func (c *Cache) Delete(path string) {
	delete(c.entries, path)
}

// Paths returns every path currently cached.
func (c *Cache) Paths() []string {
	out := make([]string, 0, len(c.entries))
	for p := range c.entries {
		out = append(out, p)
	}
	return out
}

// ParamKey returns the cache key for a parameter map: undefined params
// are treated as hashParams({}), a distinguished "pure" entry (spec.md
// §4.5.1).
func ParamKey(params map[string]interface{}) string {
	if params == nil {
		params = map[string]interface{}{}
	}
	return hashutil.HashParams(params)
}

// LookupParams returns the ParamEntry for key on e, if present.
func (e *Entry) LookupParams(key string) (*ParamEntry, bool) {
	pe, ok := e.params[key]
	return pe, ok
}

// InsertParams stores pe under key, evicting the oldest evictBatch
// entries (FIFO) once the map would exceed evictThreshold.
func (e *Entry) InsertParams(key string, pe *ParamEntry) {
	if _, exists := e.params[key]; !exists {
		e.paramOrder = append(e.paramOrder, key)
	}
	e.params[key] = pe

	if len(e.paramOrder) > evictThreshold {
		toEvict := e.paramOrder[:evictBatch]
		for _, k := range toEvict {
			delete(e.params, k)
		}
		e.paramOrder = e.paramOrder[evictBatch:]
	}
}

// ParamCount returns how many parameter entries are currently cached for
// e, for diagnostics and tests.
func (e *Entry) ParamCount() int {
	return len(e.paramOrder)
}
