package hashutil

import (
	"testing"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
)

func TestHashParams_OrderIndependent(t *testing.T) {
	a := HashParams(map[string]interface{}{"a": 1, "b": 2})
	b := HashParams(map[string]interface{}{"b": 2, "a": 1})
	if a != b {
		t.Fatalf("expected order-independent hashes to match: %s != %s", a, b)
	}
}

func TestHashParams_TypeSensitive(t *testing.T) {
	a := HashParams(map[string]interface{}{"a": 1})
	b := HashParams(map[string]interface{}{"a": "1"})
	if a == b {
		t.Fatalf("expected number 1 and string %q to hash differently", "1")
	}
}

func TestHashParams_UndefinedDistinctFromNil(t *testing.T) {
	a := HashParams(map[string]interface{}{"a": core.Undefined{}})
	b := HashParams(map[string]interface{}{"a": nil})
	if a == b {
		t.Fatalf("expected Undefined and nil to hash differently")
	}
}

func TestHashParams_NestedMapsAndSlices(t *testing.T) {
	a := HashParams(map[string]interface{}{"list": []interface{}{1, 2, map[string]interface{}{"x": "y"}}})
	b := HashParams(map[string]interface{}{"list": []interface{}{1, 2, map[string]interface{}{"x": "y"}}})
	if a != b {
		t.Fatalf("expected identical nested structures to hash equally")
	}
}

func TestHashString_Deterministic(t *testing.T) {
	if HashString("hello") != HashString("hello") {
		t.Fatalf("expected HashString to be deterministic")
	}
	if HashString("hello") == HashString("world") {
		t.Fatalf("expected different inputs to hash differently")
	}
}
