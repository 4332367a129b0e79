package resolver

import (
	"strconv"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
)

// TraversePath walks a dotted path against a resolved value (spec.md
// §4.6.3): a numeric segment indexes a sequence by position, matches an
// equal-named mapping key, or picks a character of a scalar string;
// a string segment indexes a mapping key, or scans a sequence for an
// equal string element. A missing path yields core.Undefined and ok=false.
func TraversePath(root interface{}, segments []string) (interface{}, bool) {
	cur := root
	for _, seg := range segments {
		next, ok := step(cur, seg)
		if !ok {
			return core.Undefined{}, false
		}
		cur = next
	}
	return cur, true
}

func step(cur interface{}, seg string) (interface{}, bool) {
	n, numErr := strconv.Atoi(seg)
	isNumeric := numErr == nil
	switch v := cur.(type) {
	case *core.OrderedMap:
		if val, ok := v.Get(seg); ok {
			return val, true
		}
		if isNumeric {
			if val, ok := v.Get(strconv.Itoa(n)); ok {
				return val, true
			}
		}
		return nil, false
	case []interface{}:
		if isNumeric {
			if n >= 0 && n < len(v) {
				return v[n], true
			}
			return nil, false
		}
		for _, item := range v {
			if s, ok := item.(string); ok && s == seg {
				return item, true
			}
		}
		return nil, false
	case string:
		if isNumeric && n >= 0 && n < len(v) {
			return string(v[n]), true
		}
		return nil, false
	default:
		return nil, false
	}
}
