package resolver

import (
	"strconv"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
)

// applyPrivateFilter walks clone (already a deep copy of the resolved
// tree) and, for each %PRIVATE path, deletes the terminal segment — a
// mapping key, or a sequence element by index or by value — logging an
// error against the directive token if the path isn't present (spec.md
// §4.6.6). It returns the (possibly rebuilt, since sequence deletion
// rebuilds a slice) filtered tree.
func (m *Module) applyPrivateFilter(clone interface{}) interface{} {
	for _, pr := range m.Directives.Private {
		for i, segs := range pr.Segments {
			if len(segs) == 0 {
				continue
			}
			newClone, removed := deletePath(clone, segs)
			clone = newClone
			if !removed {
				tok := pr.RawPaths[i]
				m.addErr(core.KindWarning, "private.path_not_found",
					"private path not present in output tree: "+tok.Text, tok.Pos)
			}
		}
	}
	return clone
}

// deletePath removes segs from container, returning the (possibly
// rebuilt) container and whether anything was removed.
func deletePath(container interface{}, segs []string) (interface{}, bool) {
	if len(segs) == 0 {
		return container, false
	}
	key := segs[0]
	if len(segs) == 1 {
		return deleteTerminal(container, key)
	}
	switch c := container.(type) {
	case *core.OrderedMap:
		child, ok := c.Get(key)
		if !ok {
			return container, false
		}
		newChild, removed := deletePath(child, segs[1:])
		if !removed {
			return container, false
		}
		c.Set(key, newChild)
		return container, true
	case []interface{}:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(c) {
			return container, false
		}
		newChild, removed := deletePath(c[idx], segs[1:])
		if !removed {
			return container, false
		}
		c[idx] = newChild
		return container, true
	default:
		return container, false
	}
}

// deleteTerminal deletes key from container directly: a mapping key, or
// a sequence element by numeric index or by equal string value.
func deleteTerminal(container interface{}, key string) (interface{}, bool) {
	switch c := container.(type) {
	case *core.OrderedMap:
		return container, c.Delete(key)
	case []interface{}:
		if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx < len(c) {
			out := make([]interface{}, 0, len(c)-1)
			out = append(out, c[:idx]...)
			out = append(out, c[idx+1:]...)
			return out, true
		}
		for i, item := range c {
			if s, ok := item.(string); ok && s == key {
				out := make([]interface{}, 0, len(c)-1)
				out = append(out, c[:i]...)
				out = append(out, c[i+1:]...)
				return out, true
			}
		}
		return container, false
	default:
		return container, false
	}
}
