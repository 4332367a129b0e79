// Package resolver walks a parsed YAML AST and evaluates the scalar
// expression language embedded in it, producing the fully resolved
// public/private value trees for one module (spec.md §4.6). It owns the
// expression evaluator directly rather than cross-injecting callbacks
// between two packages (spec.md §9's design note), and it also drives
// the recursive %IMPORT sub-compiles itself, since a module's resolve
// and its imports' resolves are the same recursive operation.
package resolver

import (
	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/directive"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
	"github.com/yaml-extend/yaml-extend-sub001/internal/state"
)

// importResult is the resolved value (and errors) of one %IMPORT, cached
// for the duration of this module's resolve so that repeated
// import.Alias.path references with the same arguments don't re-run the
// sub-compile. value is the imported module's unfiltered (private) tree:
// internal traversal must be able to see every field regardless of that
// module's own %PRIVATE policy, which only applies to its own output.
type importResult struct {
	value interface{}
	errs  []core.RawDiag
}

// Module holds everything needed to resolve one parsed document: the
// anchors map and locals stack scoped to this document (spec.md §4.6.1),
// the per-node resolved cache used for left-to-right visibility and
// alias lookups, and the shared compile State used for recursive
// %IMPORT resolution.
type Module struct {
	State      *state.State
	Opts       *state.Options
	Directives *directive.Directives
	Index      *position.Index
	Path       string // canonical path of this module, "" for an in-memory root
	Dir        string // directory imports are resolved relative to
	Params     map[string]interface{}
	Root       *yaml.Node

	anchors map[string]interface{}
	locals  []map[string]interface{}

	resolvedValue map[*yaml.Node]interface{}
	resolvedFlag  map[*yaml.Node]bool

	imports map[string]*importResult

	Errors         []core.RawDiag
	ImportedErrors []core.RawDiag
}

// NewModule creates a Module ready to resolve Root.
func NewModule(st *state.State, opts *state.Options, dirs *directive.Directives, idx *position.Index, path, dir string, params map[string]interface{}, root *yaml.Node) *Module {
	return &Module{
		State:         st,
		Opts:          opts,
		Directives:    dirs,
		Index:         idx,
		Path:          path,
		Dir:           dir,
		Params:        params,
		Root:          root,
		anchors:       map[string]interface{}{},
		resolvedValue: map[*yaml.Node]interface{}{},
		resolvedFlag:  map[*yaml.Node]bool{},
		imports:       map[string]*importResult{},
	}
}

func (m *Module) addErr(kind core.DiagKind, code, message string, pos position.Range) {
	m.Errors = append(m.Errors, core.RawDiag{Kind: kind, Code: code, Message: message, Pos: pos})
}

// pushLocals pushes a new frame onto the locals stack.
func (m *Module) pushLocals(frame map[string]interface{}) {
	m.locals = append(m.locals, frame)
}

// popLocals pops the top locals frame.
func (m *Module) popLocals() {
	if len(m.locals) > 0 {
		m.locals = m.locals[:len(m.locals)-1]
	}
}

// lookupLocal walks the locals stack from top to bottom (spec.md
// §4.6.3).
func (m *Module) lookupLocal(name string) (interface{}, bool) {
	for i := len(m.locals) - 1; i >= 0; i-- {
		if v, ok := m.locals[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// documentRoot returns the real root node, unwrapping a DocumentNode.
func documentRoot(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

// Resolve walks the document and returns both the private (unfiltered)
// value — always needed so an importing document's internal traversal
// can see every field regardless of this module's own %PRIVATE policy —
// and the public value. The public value has %PRIVATE paths stripped
// only when this module is named by IgnorePrivate (or IgnoreAllPriv is
// set); by default %PRIVATE nodes are left in the output (spec.md
// §4.6.1, §6.1, worked example S3).
func (m *Module) Resolve() (public, private interface{}) {
	root := documentRoot(m.Root)
	val := m.resolveNode(root)

	private = val
	if m.ignorePrivateApplies() {
		clone := core.CloneValue(val)
		public = m.applyPrivateFilter(clone)
	} else {
		public = val
	}
	return public, private
}

// ignorePrivateApplies reports whether this module is named by
// IgnorePrivate (or IgnoreAllPriv is set), meaning its %PRIVATE paths
// get stripped from the public output rather than left in place.
func (m *Module) ignorePrivateApplies() bool {
	if m.Opts == nil {
		return false
	}
	if m.Opts.IgnoreAllPriv {
		return true
	}
	name := m.filename()
	for _, f := range m.Opts.IgnorePrivate {
		if f == name {
			return true
		}
	}
	return false
}

func (m *Module) filename() string {
	if name, ok := m.Directives.FilenameValue(); ok {
		return name
	}
	if m.Opts != nil {
		return m.Opts.Filename
	}
	return ""
}
