// Package directive scans and validates the module-level declarations that
// appear on lines starting with '%' at the top of a module: %FILENAME,
// %YAML, %TAG, %IMPORT, %PARAM, %LOCAL, and %PRIVATE (spec.md §3.5, §4.3).
//
// Grounded on the line-oriented directive handling in
// shapestone/shape-yaml's internal/parser/directives.go (split into name +
// fields, switch on the uppercased name, unknown directives ignored), with
// the one-token-per-quoted-or-bracketed-group tokenizer and the
// required/unique validation rules from spec.md §4.3 layered on top.
package directive

import (
	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// RawToken is a single tokenized field of a directive line: the substring
// as written (Raw), its unescaped/unquoted text (Text), and a typed
// reading of that text (Value) — see spec.md §3.2.
type RawToken struct {
	Raw    string
	Text   string
	Value  interface{}
	Quoted bool
	Pos    position.Range
}

// Kind identifies which of the seven directive variants a line declares.
type Kind int

const (
	KindUnknown Kind = iota
	KindFilename
	KindYAML
	KindTag
	KindImport
	KindParam
	KindLocal
	KindPrivate
)

// Base is the part common to every directive variant.
type Base struct {
	Name   RawToken // the directive keyword token (e.g. "IMPORT")
	Kind   Kind
	Line   string
	Pos    position.Range
	Valid  bool
	Errors []core.RawDiag
}

func (b *Base) fail(code, message string, pos position.Range) {
	b.Valid = false
	b.Errors = append(b.Errors, core.RawDiag{Kind: core.KindParseError, Code: code, Message: message, Pos: pos})
}

// Filename is the %FILENAME directive: a logical name used in diagnostics.
type Filename struct {
	Base
	Value RawToken
}

// Yaml is the %YAML directive: the declared YAML version.
type Yaml struct {
	Base
	Version RawToken
}

// Tag is the %TAG directive: a tag handle bound to a prefix.
type Tag struct {
	Base
	Handle RawToken
	Prefix RawToken
}

// Param is the %PARAM or %LOCAL directive: an alias with an optional type
// and default. Kind distinguishes which of the two it is.
type Param struct {
	Base
	Alias      RawToken
	Type       RawToken
	HasType    bool
	Default    RawToken
	HasDefault bool
}

// ImportParam is one `key=value` binding on an %IMPORT line.
type ImportParam struct {
	Key   RawToken
	Equal position.Range
	Value RawToken
}

// Import is the %IMPORT directive: another module bound to an alias with
// default parameters.
type Import struct {
	Base
	Alias  RawToken
	Path   RawToken
	Params map[string]ImportParam
	Order  []string // insertion order of Params keys

	// Left empty by Scan (the directive package does no filesystem
	// access) and not set by the resolver either: resolveImport keeps the
	// sandbox-verified path and merged parameters of each import call
	// itself.
	ResolvedPath   string
	ResolvedParams map[string]interface{}
}

// Private is the %PRIVATE directive: one or more dotted node paths to
// strip from public output.
type Private struct {
	Base
	RawPaths []RawToken
	Segments [][]string
}

// Directives is the parsed, validated directive table for one module.
type Directives struct {
	Filename []*Filename
	Yaml     []*Yaml
	Tag      []*Tag
	Import   []*Import
	Param    []*Param
	Local    []*Param
	Private  []*Private
	Errors   []core.RawDiag
}

// FilenameValue returns the value of the (unique) valid %FILENAME
// directive, if any.
func (d *Directives) FilenameValue() (string, bool) {
	for _, f := range d.Filename {
		if f.Valid {
			return f.Value.Text, true
		}
	}
	return "", false
}

// FindImport looks up an %IMPORT directive by alias.
func (d *Directives) FindImport(alias string) (*Import, bool) {
	for _, im := range d.Import {
		if im.Alias.Text == alias {
			return im, true
		}
	}
	return nil, false
}

// FindParam looks up a %PARAM directive by alias.
func (d *Directives) FindParam(alias string) (*Param, bool) {
	for _, p := range d.Param {
		if p.Alias.Text == alias {
			return p, true
		}
	}
	return nil, false
}

// FindLocal looks up a %LOCAL directive by alias.
func (d *Directives) FindLocal(alias string) (*Param, bool) {
	for _, p := range d.Local {
		if p.Alias.Text == alias {
			return p, true
		}
	}
	return nil, false
}

// AllPrivatePaths flattens every valid %PRIVATE directive's path segments.
func (d *Directives) AllPrivatePaths() [][]string {
	var out [][]string
	for _, pr := range d.Private {
		if !pr.Valid {
			continue
		}
		out = append(out, pr.Segments...)
	}
	return out
}
