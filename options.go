package yamlext

import (
	"fmt"

	"github.com/yaml-extend/yaml-extend-sub001/internal/state"
)

// TagResolver is a user-supplied tag handler: Kind is one of "scalar",
// "map", "seq" and constrains which AST node kinds the tag may apply to.
// Resolve receives the already-resolved child data, a callback for
// reporting a non-fatal error against the tag's node, and an options map
// that is always nil (a schema entry carries no options).
type TagResolver struct {
	Tag     string
	Kind    string
	Resolve func(data interface{}, onError func(string), opts map[string]interface{}) (interface{}, error)
}

// Options configures one Compile or ResolveToString call (spec.md §6.1).
type Options struct {
	// BasePath is the sandbox root every import must resolve lexically
	// and physically under. Defaults to the current working directory.
	BasePath string

	// Unsafe disables the sandbox containment check entirely. Use only
	// for trusted, locally-authored sources.
	Unsafe bool

	// Filepath is the absolute/resolved path of the source being
	// compiled. Required whenever the source contains %IMPORT (imports
	// resolve relative to its directory) or is itself cached.
	Filepath string

	// Filename is the logical name used in diagnostics and compared
	// against IgnorePrivate's filename list. Overridden by a module's own
	// %FILENAME directive.
	Filename string

	// Params is this module's own parameter map, consulted by
	// param.<alias> expressions.
	Params map[string]interface{}

	// UniversalParams is inherited by every module reached through
	// %IMPORT, in addition to that module's own Params.
	UniversalParams map[string]interface{}

	// IgnorePrivate is "all", "current", or a list of filenames: which
	// modules should have their %PRIVATE nodes stripped from the output
	// (modules not named here leave %PRIVATE nodes in place).
	IgnorePrivate []string

	// IgnoreTags skips every tag resolver; tagged nodes resolve as if
	// untagged.
	IgnoreTags bool

	// Schema is the tag table consulted during tag dispatch (spec.md
	// §4.6.5).
	Schema []TagResolver
}

// normalize validates and defaults opts, producing the internal
// state.Options the resolver package consumes. currentFilename is the
// logical name of the module being compiled, used to resolve an
// IgnorePrivate value of "current".
func (o Options) normalize(currentFilename string) (*state.Options, error) {
	basePath := o.BasePath
	if basePath == "" {
		var err error
		basePath, err = cwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve base path: %w", err)
		}
	}

	params := o.Params
	if params == nil {
		params = map[string]interface{}{}
	}
	universal := o.UniversalParams
	if universal == nil {
		universal = map[string]interface{}{}
	}

	var ignorePrivate []string
	var ignoreAll bool
	switch len(o.IgnorePrivate) {
	case 0:
		// nothing ignored
	case 1:
		switch o.IgnorePrivate[0] {
		case "all":
			ignoreAll = true
		case "current":
			ignorePrivate = []string{currentFilename}
		default:
			ignorePrivate = o.IgnorePrivate
		}
	default:
		ignorePrivate = o.IgnorePrivate
	}

	schema := make([]state.TagDef, 0, len(o.Schema))
	for _, t := range o.Schema {
		schema = append(schema, state.TagDef{Tag: t.Tag, Kind: t.Kind, Resolve: t.Resolve})
	}

	return &state.Options{
		BasePath:        basePath,
		Unsafe:          o.Unsafe,
		Filepath:        o.Filepath,
		Filename:        o.Filename,
		Params:          params,
		UniversalParams: universal,
		IgnorePrivate:   ignorePrivate,
		IgnoreAllPriv:   ignoreAll,
		IgnoreTags:      o.IgnoreTags,
		Schema:          schema,
	}, nil
}

// DumpOptions configures the re-serialisation performed by
// ResolveToString (spec.md §6.3). Zero value produces default
// go.yaml.in/yaml/v4 encoder behaviour with a two-space indent.
type DumpOptions struct {
	// Indent is the number of spaces per indentation level. Defaults to 2
	// if zero.
	Indent int

	// Format selects the dumped encoding. Defaults to FormatYAML.
	Format Format
}

// Format specifies the output encoding for ResolveToString.
type Format string

const (
	// FormatYAML serialises the resolved value as YAML (default).
	FormatYAML Format = "yaml"
	// FormatJSON serialises the resolved value as JSON.
	FormatJSON Format = "json"
)

// ParseFormat parses a format string, returning ErrInvalidFormat on an
// unrecognised value.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "yaml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s (must be 'yaml' or 'json')", ErrInvalidFormat, s)
	}
}
