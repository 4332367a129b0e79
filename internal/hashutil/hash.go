// Package hashutil provides the stable hashing the module cache (C6) keys
// on: a plain content hash for source text, and a structural hash for
// parameter maps that is independent of key insertion order.
//
// Grounded on the cache-key pattern in the cloudposse/atmos YAML loader
// (sha256 of file content, hex-encoded), generalized to also hash arbitrary
// nested parameter maps by normalizing them with mapstructure first, the
// same normalization the teacher's filetree.mergeTree uses before treating
// a decoded YAML value as a map[string]interface{}.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
)

// HashString returns the hex-encoded SHA-256 digest of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashParams returns a stable hash of a parameter map: equal maps hash
// equal regardless of insertion order, nested maps/slices are supported,
// and Undefined is distinct from nil.
func HashParams(params map[string]interface{}) string {
	normalized := normalizeKeys(params)
	var b strings.Builder
	writeStable(&b, normalized)
	return HashString(b.String())
}

// normalizeKeys converts map[interface{}]interface{} (as produced by
// decoding YAML scalars into generic values) into map[string]interface{}
// recursively, the same shape mapstructure.Decode produces for the
// teacher's merge step.
func normalizeKeys(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, vv := range val {
			out[fmt.Sprintf("%v", k)] = normalizeKeys(vv)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		var decoded map[string]interface{}
		if err := mapstructure.Decode(val, &decoded); err == nil {
			val = decoded
		}
		for k, vv := range val {
			out[k] = normalizeKeys(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, vv := range val {
			out[i] = normalizeKeys(vv)
		}
		return out
	default:
		return v
	}
}

// writeStable writes a deterministic textual encoding of v: map keys are
// sorted lexicographically at every level, and every value is prefixed
// with a type tag so that e.g. the number 1 and the string "1" never
// collide (spec.md §8 invariant 2).
func writeStable(b *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case core.Undefined:
		b.WriteString("U")
	case nil:
		b.WriteString("N")
	case bool:
		b.WriteString("B:")
		b.WriteString(strconv.FormatBool(val))
	case string:
		b.WriteString("S:")
		b.WriteString(strconv.Itoa(len(val)))
		b.WriteByte(':')
		b.WriteString(val)
	case int:
		writeNumber(b, float64(val))
	case int64:
		writeNumber(b, float64(val))
	case float64:
		writeNumber(b, val)
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("M{")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(len(k)))
			b.WriteByte(':')
			b.WriteString(k)
			b.WriteByte('=')
			writeStable(b, val[k])
		}
		b.WriteByte('}')
	case []interface{}:
		b.WriteString("A[")
		for i, vv := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			writeStable(b, vv)
		}
		b.WriteByte(']')
	default:
		b.WriteString("X:")
		fmt.Fprintf(b, "%v", val)
	}
}

func writeNumber(b *strings.Builder, f float64) {
	b.WriteString("#:")
	b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}
