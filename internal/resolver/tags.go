package resolver

import (
	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
)

var builtinTags = map[string]bool{
	"": true, "!!str": true, "!!int": true, "!!float": true, "!!bool": true,
	"!!null": true, "!!map": true, "!!seq": true, "?": true,
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "map"
	case yaml.SequenceNode:
		return "seq"
	default:
		return ""
	}
}

// applyTag dispatches a custom tag against val (spec.md §4.6.5). If
// ignoreTags is set, data passes through untouched. An unknown tag, a
// missing schema, or a resolver that returns an error yields an error and
// the unresolved value.
func (m *Module) applyTag(n *yaml.Node, val interface{}) interface{} {
	tag := n.Tag
	if tag == "" || builtinTags[tag] {
		return val
	}
	if m.Opts == nil || m.Opts.IgnoreTags {
		return val
	}
	if len(m.Opts.Schema) == 0 {
		m.addErr(core.KindParseError, "resolve.no_schema", "no schema configured for tag: "+tag, nodePos(n))
		return val
	}

	kind := kindName(n.Kind)
	var resolveFn func(data interface{}, onError func(string), opts map[string]interface{}) (interface{}, error)
	for _, t := range m.Opts.Schema {
		if t.Tag == tag && t.Kind == kind {
			resolveFn = t.Resolve
			break
		}
	}
	if resolveFn == nil {
		m.addErr(core.KindParseError, "resolve.unknown_tag", "unknown tag: "+tag, nodePos(n))
		return val
	}

	var resolveErr string
	out, err := resolveFn(val, func(msg string) { resolveErr = msg }, nil)
	if err != nil {
		m.addErr(core.KindParseError, "resolve.tag_error", "tag resolver threw for "+tag+": "+err.Error(), nodePos(n))
		return val
	}
	if resolveErr != "" {
		m.addErr(core.KindParseError, "resolve.tag_error", "tag resolver reported an error for "+tag+": "+resolveErr, nodePos(n))
		return val
	}
	return out
}
