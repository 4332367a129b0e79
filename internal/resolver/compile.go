package resolver

import (
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/directive"
	"github.com/yaml-extend/yaml-extend-sub001/internal/modcache"
	"github.com/yaml-extend/yaml-extend-sub001/internal/sandbox"
	"github.com/yaml-extend/yaml-extend-sub001/internal/state"
)

// CompileModule drives the full per-module pipeline described in spec.md
// §4.7 over in-memory source text: cache lookup, directive scan, AST
// parse, eager import pre-resolution, document resolve, and private
// filtering. dir is the directory %IMPORT paths inside source resolve
// relative to; canonicalPath is the cache key ("" disables caching, used
// for one-off in-memory compiles with no imports to cache).
func CompileModule(st *state.State, opts *state.Options, source, canonicalPath, dir string) (value interface{}, errs []core.RawDiag, importedErrs []core.RawDiag) {
	isRoot, leave := st.EnterImport()
	defer leave()

	if canonicalPath != "" {
		st.Graph.AddDep(canonicalPath, isRoot)
	}

	if canonicalPath != "" {
		if entry, ok := st.Cache.Lookup(canonicalPath, source); ok {
			key := modcache.ParamKey(opts.Params)
			if pe, ok := entry.LookupParams(key); ok {
				return choosePrivacy(pe, isRoot), pe.Errors, nil
			}
			return resolveWithEntry(st, opts, entry, dir, canonicalPath, isRoot)
		}
	}

	dirs, idx := directive.Scan(source)
	errs = append(errs, dirs.Errors...)

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(source), &root); err != nil {
		errs = append(errs, core.RawDiag{
			Kind: core.KindParseError, Code: "parse.yaml_error",
			Message: "failed to parse YAML: " + err.Error(),
		})
		return core.Undefined{}, errs, nil
	}

	var entry *modcache.Entry
	if canonicalPath != "" {
		entry = st.Cache.Insert(canonicalPath, source, idx, dirs, &root)
	} else {
		entry = &modcache.Entry{Directives: dirs, Index: idx, Root: &root}
	}

	val, resolveErrs, impErrs := resolveWithEntry(st, opts, entry, dir, canonicalPath, isRoot)
	errs = append(errs, resolveErrs...)
	return val, errs, impErrs
}

// resolveWithEntry resolves one module and picks which of its two trees
// to hand back to the caller. A module reached through %IMPORT always
// hands back its unfiltered (private) tree, since the importing
// document's internal traversal (import.alias.path) must see every
// field regardless of the imported module's own %PRIVATE policy; only
// the outermost compile's result is subject to privacy filtering
// (spec.md §6.1, §7).
func resolveWithEntry(st *state.State, opts *state.Options, entry *modcache.Entry, dir, canonicalPath string, isRoot bool) (interface{}, []core.RawDiag, []core.RawDiag) {
	mod := NewModule(st, opts, entry.Directives, entry.Index, canonicalPath, dir, opts.Params, entry.Root)
	mod.preResolveImports()
	public, private := mod.Resolve()

	if canonicalPath != "" {
		key := modcache.ParamKey(opts.Params)
		entry.InsertParams(key, &modcache.ParamEntry{
			PublicTree:  public,
			PrivateTree: private,
			Errors:      mod.Errors,
		})
	}

	return choosePrivacyTree(public, private, isRoot), mod.Errors, mod.ImportedErrors
}

func choosePrivacyTree(public, private interface{}, isRoot bool) interface{} {
	if isRoot {
		return public
	}
	return private
}

func choosePrivacy(pe *modcache.ParamEntry, isRoot bool) interface{} {
	return choosePrivacyTree(pe.PublicTree, pe.PrivateTree, isRoot)
}

// preResolveImports eagerly resolves every valid %IMPORT using its
// declared defaults (spec.md §4.7: "pre-resolve every %IMPORT (with its
// declared defaults)"), so dependency-graph edges and circular-import
// errors surface even for imports never referenced by an expression.
func (m *Module) preResolveImports() {
	for _, imp := range m.Directives.Import {
		if !imp.Valid {
			continue
		}
		defaults := defaultParams(imp)
		m.importFor(imp, defaults)
	}
}

func defaultParams(imp *directive.Import) map[string]interface{} {
	out := make(map[string]interface{}, len(imp.Order))
	for _, key := range imp.Order {
		out[key] = imp.Params[key].Value.Value
	}
	return out
}

// resolveImport sandbox-verifies and reads the target file, records the
// dependency edge (rejecting it and reporting the cycle if it would
// close one), merges declared defaults with supplied args, and recurses
// into CompileModule for the target.
func (m *Module) resolveImport(imp *directive.Import, args map[string]interface{}) *importResult {
	fromPath := m.Path
	if fromPath == "" {
		fromPath = "<root>"
	}

	canonical, source, err := sandbox.ReadModule(imp.Path.Text, m.Dir, m.Opts.BasePath, m.Opts.Unsafe)
	if err != nil {
		return &importResult{
			value: core.Undefined{},
			errs: []core.RawDiag{{
				Kind: core.KindParseError, Code: "path.import_error",
				Message: err.Error(), Pos: imp.Path.Pos,
			}},
		}
	}

	cycle, hasCycle := m.State.Graph.BindPaths(fromPath, canonical)
	if hasCycle {
		return &importResult{
			value: core.Undefined{},
			errs: []core.RawDiag{{
				Kind: core.KindParseError, Code: "directive.import.circular",
				Message: "circular import detected: " + strings.Join(cycle, " -> "),
				Pos:     imp.Path.Pos,
			}},
		}
	}

	merged := mergeParams(defaultParams(imp), args)

	subOpts := *m.Opts
	subOpts.Filepath = canonical
	subOpts.Params = merged

	val, errs, impErrs := CompileModule(m.State, &subOpts, string(source), canonical, filepath.Dir(canonical))
	all := append(append([]core.RawDiag{}, errs...), impErrs...)
	return &importResult{value: val, errs: all}
}

// mergeParams merge-lefts supplied args over declared defaults: args
// override a default with the same key (spec.md §4.6.3).
func mergeParams(defaults, args map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(defaults)+len(args))
	for k, v := range defaults {
		merged[k] = v
	}
	if len(args) > 0 {
		_ = mergo.Merge(&merged, args, mergo.WithOverride)
	}
	return merged
}
