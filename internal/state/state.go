// Package state defines the shared, explicitly-passed context for one
// outermost compile (spec.md §5: "best modelled as a context passed
// explicitly, not as module-global"). It owns only owned collections — a
// module cache and a dependency graph — plus a depth counter and a
// compile identifier, a random UUID set once when the State is created
// and not read anywhere else in this module.
package state

import (
	"github.com/google/uuid"

	"github.com/yaml-extend/yaml-extend-sub001/internal/depgraph"
	"github.com/yaml-extend/yaml-extend-sub001/internal/logger"
	"github.com/yaml-extend/yaml-extend-sub001/internal/modcache"
)

// TagDef is one entry of a schema: a tag name, the AST kind it applies
// to, and a resolver function (spec.md §4.6.5).
type TagDef struct {
	Tag     string
	Kind    string // "scalar", "map", or "seq"
	Resolve func(data interface{}, onError func(string), opts map[string]interface{}) (interface{}, error)
}

// Options mirrors the public compile options (spec.md §6.1), normalized
// by the entry driver before a compile begins.
type Options struct {
	BasePath        string
	Unsafe          bool
	Filepath        string
	Filename        string
	Params          map[string]interface{}
	UniversalParams map[string]interface{}
	IgnorePrivate   []string // normalized form of "all" | "current" | [filenames...]
	IgnoreAllPriv   bool
	IgnoreTags      bool
	Schema          []TagDef
}

// State is shared by every module reached during one outermost compile,
// including every recursive %IMPORT. A long-running live-loading driver
// may keep one State alive across many top-level compiles.
type State struct {
	Cache     *modcache.Cache
	Graph     *depgraph.Graph
	Depth     int
	CompileID string
	Logger    logger.Logger
	destroyed bool
}

// New creates a fresh State with its own cache and dependency graph,
// stamped with a new random compile ID.
func New(log logger.Logger) *State {
	if log == nil {
		log = logger.Nop()
	}
	return &State{
		Cache:     modcache.New(),
		Graph:     depgraph.New(),
		Logger:    log,
		CompileID: uuid.NewString(),
	}
}

// Destroy marks the state unusable; any subsequent operation against it
// is an error (spec.md §5, "a destroyed state must reject any in-flight
// operation cleanly").
func (s *State) Destroy() {
	s.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (s *State) Destroyed() bool {
	return s.destroyed
}

// EnterImport increments the depth counter for the duration of a
// recursive module compile and returns a func to restore it; isRoot is
// true only at depth 0, matching the driver's "(from, to, isRoot=depth==0)"
// edge annotation (spec.md §4.7).
func (s *State) EnterImport() (isRoot bool, leave func()) {
	isRoot = s.Depth == 0
	s.Depth++
	return isRoot, func() { s.Depth-- }
}
