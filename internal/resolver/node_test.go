package resolver

import (
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
)

func TestResolveNode_ScalarTypes(t *testing.T) {
	mod := newTestModule(t, "a: 1\nb: true\nc: hello\nd: 3.5\ne: null\n", nil)
	public, _ := mod.Resolve()
	m := public.(*core.OrderedMap)

	cases := map[string]interface{}{
		"a": float64(1),
		"b": true,
		"c": "hello",
		"d": 3.5,
		"e": nil,
	}
	for key, want := range cases {
		got, ok := m.Get(key)
		if !ok {
			t.Errorf("missing key %q", key)
			continue
		}
		if got != want {
			t.Errorf("%s = %v (%T), want %v (%T)", key, got, got, want, want)
		}
	}
}

func TestResolveNode_NestedMapAndSeq(t *testing.T) {
	mod := newTestModule(t, "items:\n  - a\n  - b\nnested:\n  x: 1\n", nil)
	public, _ := mod.Resolve()
	m := public.(*core.OrderedMap)

	items, ok := m.Get("items")
	if !ok {
		t.Fatal("missing items")
	}
	seq, ok := items.([]interface{})
	if !ok || len(seq) != 2 || seq[0] != "a" || seq[1] != "b" {
		t.Errorf("items = %v, want [a b]", items)
	}

	nested, ok := m.Get("nested")
	if !ok {
		t.Fatal("missing nested")
	}
	nm, ok := nested.(*core.OrderedMap)
	if !ok {
		t.Fatalf("nested = %T, want *core.OrderedMap", nested)
	}
	x, _ := nm.Get("x")
	if x != float64(1) {
		t.Errorf("nested.x = %v, want 1", x)
	}
}

func TestResolveNode_AnchorAndAlias(t *testing.T) {
	mod := newTestModule(t, "base: &b\n  x: 1\nref: *b\n", nil)
	public, _ := mod.Resolve()
	m := public.(*core.OrderedMap)

	base, _ := m.Get("base")
	ref, _ := m.Get("ref")

	baseMap, ok := base.(*core.OrderedMap)
	if !ok {
		t.Fatalf("base = %T, want *core.OrderedMap", base)
	}
	refMap, ok := ref.(*core.OrderedMap)
	if !ok {
		t.Fatalf("ref = %T, want *core.OrderedMap", ref)
	}
	bx, _ := baseMap.Get("x")
	rx, _ := refMap.Get("x")
	if bx != rx {
		t.Errorf("alias did not resolve to the same value: base.x=%v ref.x=%v", bx, rx)
	}
}

func TestResolveAlias_NoAnchor(t *testing.T) {
	mod := newTestModule(t, "a: 1\n", nil)
	n := &yaml.Node{Kind: yaml.AliasNode, Alias: nil}
	val := mod.resolveAlias(n)
	if !core.IsUndefined(val) {
		t.Errorf("resolveAlias() with nil Alias = %v, want Undefined", val)
	}
	if len(mod.Errors) == 0 {
		t.Error("expected an error to be recorded for a missing anchor")
	}
}

func TestFindChildNode_MappingAndSequence(t *testing.T) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte("a: 1\nlist:\n  - x\n  - y\n"), &root); err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	doc := documentRoot(&root)

	child, ok := findChildNode(doc, "a")
	if !ok || child.Value != "1" {
		t.Errorf("findChildNode(a) = %v, %v", child, ok)
	}

	listNode, ok := findChildNode(doc, "list")
	if !ok {
		t.Fatal("findChildNode(list) missed")
	}
	item, ok := findChildNode(listNode, "0")
	if !ok || item.Value != "x" {
		t.Errorf("findChildNode(list, 0) = %v, %v", item, ok)
	}

	if _, ok := findChildNode(doc, "missing"); ok {
		t.Error("findChildNode(missing) should miss")
	}
}

func TestResolveNodeTransient_DoesNotMemoize(t *testing.T) {
	mod := newTestModule(t, "a: 1\n", nil)
	doc := documentRoot(mod.Root)
	child, ok := findChildNode(doc, "a")
	if !ok {
		t.Fatal("missing child a")
	}

	mod.resolveNodeTransient(child)
	if mod.resolvedFlag[child] {
		t.Error("resolveNodeTransient should not set the canonical resolved flag")
	}
}
