package resolver

import (
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

func nodePos(n *yaml.Node) position.Range {
	// go.yaml.in/yaml/v4 nodes carry Line/Column, not byte offsets, and
	// the node's Line/Column are not translated into byte offsets here:
	// node diagnostics carry the zero Range.
	return position.Range{}
}

// resolveNode dispatches on n's Kind (spec.md §4.6.2), memoizing the
// result against n so that later Alias/this lookups can observe whether
// n has been resolved yet. This is the one entry point used by the main
// left-to-right document walk.
func (m *Module) resolveNode(n *yaml.Node) interface{} {
	return m.resolveNodeImpl(n, true)
}

// resolveNodeTransient re-evaluates n (and everything beneath it) without
// touching the resolved/anchor memoization, for a "this.path(args)"
// lookup that pushes a temporary locals frame (spec.md §4.6.3, "args
// push a locals frame for the duration of that lookup"). The node may
// already have a canonical memoized value from the main walk; this does
// not disturb it.
func (m *Module) resolveNodeTransient(n *yaml.Node) interface{} {
	return m.resolveNodeImpl(n, false)
}

func (m *Module) resolveNodeImpl(n *yaml.Node, memo bool) interface{} {
	if n == nil {
		return core.Undefined{}
	}
	n = documentRoot(n)

	var val interface{}
	switch n.Kind {
	case yaml.AliasNode:
		val = m.resolveAlias(n)
		if memo {
			m.resolvedValue[n] = val
			m.resolvedFlag[n] = true
		}
		return val

	case yaml.ScalarNode:
		val = m.resolveScalar(n)

	case yaml.MappingNode:
		val = m.resolveMapping(n, memo)

	case yaml.SequenceNode:
		val = m.resolveSequence(n, memo)

	default:
		val = core.Undefined{}
	}

	val = m.applyTag(n, val)
	if memo {
		if n.Anchor != "" {
			m.anchors[n.Anchor] = val
		}
		m.resolvedValue[n] = val
		m.resolvedFlag[n] = true
	}
	return val
}

func (m *Module) resolveAlias(n *yaml.Node) interface{} {
	if n.Alias == nil || n.Alias.Anchor == "" {
		m.addErr(core.KindParseError, "resolve.no_anchor", "no anchor defined yet", nodePos(n))
		return core.Undefined{}
	}
	val, ok := m.anchors[n.Alias.Anchor]
	if !ok {
		m.addErr(core.KindParseError, "resolve.no_anchor", "no anchor defined yet: "+n.Alias.Anchor, nodePos(n))
		return core.Undefined{}
	}
	return val
}

func (m *Module) resolveScalar(n *yaml.Node) interface{} {
	if n.Tag == "!!str" || n.Tag == "" || n.Tag == "?" {
		return m.evalScalarText(n.Value, nodePos(n))
	}
	return core.ParseLiteral(n.Value)
}

func (m *Module) resolveMapping(n *yaml.Node, memo bool) interface{} {
	out := core.NewOrderedMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := n.Content[i]
		valNode := n.Content[i+1]
		key := m.resolveNodeImpl(keyNode, memo)
		val := m.resolveNodeImpl(valNode, memo)
		out.Set(stringifyKey(key), val)
	}
	return out
}

// stringifyKey stringifies a resolved map key (spec.md §4.6.2, "build an
// ordered mapping from stringified keys to values"). An implicit
// non-string scalar key (a bare `0: foo` or `true: foo`) resolves through
// resolveScalar/core.ParseLiteral to a typed Go value, not a string, so a
// numeric key and its string form ("0" vs 0) stringify identically
// (spec.md §8 boundary #14).
func stringifyKey(key interface{}) string {
	switch v := key.(type) {
	case string:
		return v
	case nil:
		return "null"
	case core.Undefined:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (m *Module) resolveSequence(n *yaml.Node, memo bool) interface{} {
	out := make([]interface{}, 0, len(n.Content))
	for _, item := range n.Content {
		out = append(out, m.resolveNodeImpl(item, memo))
	}
	return out
}

// findChildNode navigates n (a mapping or sequence; a scalar has no
// children, so the lookup misses) one segment
// and returns the matching child AST node, for "this"-style lookups that
// must check the target node's resolved flag before reading its value.
func findChildNode(n *yaml.Node, seg string) (*yaml.Node, bool) {
	n = documentRoot(n)
	if n == nil {
		return nil, false
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == seg {
				return n.Content[i+1], true
			}
		}
	case yaml.SequenceNode:
		if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 && idx < len(n.Content) {
			return n.Content[idx], true
		}
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode && item.Value == seg {
				return item, true
			}
		}
	}
	return nil, false
}
