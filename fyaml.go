// Package yamlext compiles an extended-YAML module — YAML plus a small
// directive and scalar-expression layer — into a fully resolved value.
package yamlext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
	"github.com/yaml-extend/yaml-extend-sub001/internal/resolver"
	"github.com/yaml-extend/yaml-extend-sub001/internal/state"
)

// DiagKind classifies a Diagnostic (spec.md §6.4).
type DiagKind = core.DiagKind

const (
	ParseError DiagKind = core.KindParseError
	Warning    DiagKind = core.KindWarning
	ExprError  DiagKind = core.KindExprError
)

// Diagnostic is a fully decorated compile error: a kind, a stable code, a
// human message, a byte range and derived line/column, and the module's
// filename and canonical path.
type Diagnostic = core.Diagnostic

// OrderedMap is an insertion-ordered string-keyed map: every resolved
// YAML mapping in a Result's Value tree is one of these, so callers can
// walk output in source order instead of Go's randomized map order.
type OrderedMap = core.OrderedMap

// Undefined is the sentinel value a leaf resolves to when it could not be
// determined (an unsupplied, default-less %PARAM or %LOCAL, a failed
// traversal). It is distinct from a YAML null.
type Undefined = core.Undefined

// Result is the value returned by Compile (spec.md §6.1).
type Result struct {
	// Value is the resolved public tree: *OrderedMap, []interface{},
	// string, float64, bool, nil, or core.Undefined at any leaf that
	// could not be resolved.
	Value interface{}

	// Errors are diagnostics raised while compiling this module itself.
	Errors []*Diagnostic

	// ImportedErrors are diagnostics raised while compiling modules this
	// one imports, kept separate so their origin stays explicit (spec.md
	// §7).
	ImportedErrors []*Diagnostic
}

// State is a long-lived compile context shared across many Compile calls
// — its module cache and dependency graph persist between calls, as a
// live-reload driver would want. The zero value is not usable; construct
// with NewState.
type State struct {
	inner *state.State
}

// NewState creates a State with its own cache and dependency graph. log
// may be nil for no-op logging.
func NewState(log Logger) *State {
	return &State{inner: state.New(log)}
}

// Destroy marks s unusable; any Compile call made against it afterward
// returns ErrStateDestroyed.
func (s *State) Destroy() {
	s.inner.Destroy()
}

// Purge drops removed from the set of tracked entry points and evicts
// every module no longer reachable from a remaining entry point (spec.md
// §4.5.3). A live-reload driver calls this after a watched file stops
// being an active entry point; it is not called automatically by
// Compile, since one Compile call registers an entry point rather than
// removing one.
func (s *State) Purge(removed ...string) []string {
	purged := s.inner.Graph.Purge(removed...)
	for _, p := range purged {
		s.inner.Cache.Delete(p)
	}
	return purged
}

// Compile resolves source (extended-YAML text) against opts and returns
// the resolved value plus accumulated diagnostics. The context may be
// used to cancel before compilation begins; the resolver itself does not
// suspend, so cancellation mid-resolve is not observed (spec.md §5). A
// panic raised while compiling is recovered and returned as an error.
//
// Pass st to share a module cache and dependency graph across many
// Compile calls (a live-reload driver); pass nil for a one-shot compile
// with a fresh, throwaway State.
func Compile(ctx context.Context, st *State, source string, opts Options) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}
	if source == "" && opts.Filepath == "" {
		return nil, fmt.Errorf("%w", ErrSourceRequired)
	}

	if st == nil {
		st = NewState(nil)
	}
	if st.inner.Destroyed() {
		return nil, fmt.Errorf("%w", ErrStateDestroyed)
	}

	currentFilename := opts.Filename
	internalOpts, err := opts.normalize(currentFilename)
	if err != nil {
		return nil, err
	}

	dir := internalOpts.BasePath
	canonicalPath := ""
	if opts.Filepath != "" {
		abs, err := filepath.Abs(opts.Filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve filepath: %w", err)
		}
		canonicalPath = abs
		dir = filepath.Dir(abs)
		internalOpts.Filepath = abs
	}

	value, rawErrs, rawImported := resolver.CompileModule(st.inner, internalOpts, source, canonicalPath, dir)

	var idx *position.Index
	filename := internalOpts.Filename
	if canonicalPath != "" {
		if entry, ok := st.inner.Cache.GetEntry(canonicalPath); ok {
			idx = entry.Index
			if name, ok := entry.Directives.FilenameValue(); ok {
				filename = name
			}
		}
	}
	return &Result{
		Value:          value,
		Errors:         decorateAll(rawErrs, filename, canonicalPath, idx),
		ImportedErrors: decorateAll(rawImported, filename, canonicalPath, idx),
	}, nil
}

func decorateAll(raws []core.RawDiag, filename, path string, idx *position.Index) []*Diagnostic {
	out := make([]*Diagnostic, 0, len(raws))
	for _, r := range raws {
		out = append(out, core.Decorate(r, filename, path, idx))
	}
	return out
}

// ResolveToString compiles source and re-serialises the resolved public
// value as YAML or JSON (spec.md §6.3).
func ResolveToString(ctx context.Context, st *State, source string, opts Options, dump DumpOptions) (string, *Result, error) {
	result, err := Compile(ctx, st, source, opts)
	if err != nil {
		return "", nil, err
	}

	format := dump.Format
	if format == "" {
		format = FormatYAML
	}
	indent := dump.Indent
	if indent == 0 {
		indent = 2
	}

	plain := core.ToPlainValue(result.Value)
	text, err := encode(plain, format, indent)
	if err != nil {
		return "", result, err
	}
	return text, result, nil
}

func cwd() (string, error) {
	return os.Getwd()
}

func encode(data interface{}, format Format, indent int) (string, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(data, "", spaces(indent))
		if err != nil {
			return "", fmt.Errorf("failed to encode JSON: %w", err)
		}
		return string(out), nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		if err := enc.Encode(data); err != nil {
			_ = enc.Close()
			return "", fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.String(), nil
	}
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
