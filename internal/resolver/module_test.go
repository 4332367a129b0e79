package resolver

import (
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/directive"
	"github.com/yaml-extend/yaml-extend-sub001/internal/state"
)

func newTestModule(t *testing.T, source string, opts *state.Options) *Module {
	t.Helper()
	dirs, idx := directive.Scan(source)
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(source), &root); err != nil {
		t.Fatalf("failed to parse test source: %v", err)
	}
	if opts == nil {
		opts = &state.Options{}
	}
	st := state.New(nil)
	return NewModule(st, opts, dirs, idx, "", "", opts.Params, &root)
}

func TestResolve_Basic(t *testing.T) {
	mod := newTestModule(t, "name: hello\ncount: 3\n", nil)
	public, private := mod.Resolve()

	pub, ok := public.(*core.OrderedMap)
	if !ok {
		t.Fatalf("public = %T, want *core.OrderedMap", public)
	}
	name, _ := pub.Get("name")
	if name != "hello" {
		t.Errorf("name = %v, want hello", name)
	}
	if public != private {
		// no %PRIVATE declared, so both should be the exact same tree
		t.Errorf("public and private should be the same value when there is nothing to strip")
	}
}

func TestResolve_PrivateKeptByDefault(t *testing.T) {
	src := "%PRIVATE secret\nname: hello\nsecret: shh\n"
	mod := newTestModule(t, src, nil)
	public, private := mod.Resolve()

	pub := public.(*core.OrderedMap)
	if _, ok := pub.Get("secret"); !ok {
		t.Error("public tree should keep 'secret' by default (no IgnorePrivate)")
	}
	priv := private.(*core.OrderedMap)
	if _, ok := priv.Get("secret"); !ok {
		t.Error("private tree should retain 'secret' for internal traversal")
	}
}

func TestResolve_IgnorePrivateStripsModule(t *testing.T) {
	src := "%FILENAME svc.yaml\n%PRIVATE secret\nname: hello\nsecret: shh\n"
	opts := &state.Options{IgnorePrivate: []string{"svc.yaml"}}
	mod := newTestModule(t, src, opts)
	public, _ := mod.Resolve()

	pub := public.(*core.OrderedMap)
	if _, ok := pub.Get("secret"); ok {
		t.Error("public tree should have 'secret' stripped when the module is in IgnorePrivate")
	}
}

func TestResolve_IgnoreAllPrivStripsModule(t *testing.T) {
	src := "%PRIVATE secret\nname: hello\nsecret: shh\n"
	opts := &state.Options{IgnoreAllPriv: true}
	mod := newTestModule(t, src, opts)
	public, _ := mod.Resolve()

	pub := public.(*core.OrderedMap)
	if _, ok := pub.Get("secret"); ok {
		t.Error("public tree should have 'secret' stripped when IgnoreAllPriv is set")
	}
}

func TestLocalsStack_LookupOrder(t *testing.T) {
	mod := newTestModule(t, "name: hello\n", nil)
	mod.pushLocals(map[string]interface{}{"x": "outer"})
	mod.pushLocals(map[string]interface{}{"x": "inner"})

	val, ok := mod.lookupLocal("x")
	if !ok || val != "inner" {
		t.Errorf("lookupLocal(x) = %v, %v, want inner, true (top frame wins)", val, ok)
	}

	mod.popLocals()
	val, ok = mod.lookupLocal("x")
	if !ok || val != "outer" {
		t.Errorf("after pop, lookupLocal(x) = %v, %v, want outer, true", val, ok)
	}

	mod.popLocals()
	if _, ok := mod.lookupLocal("x"); ok {
		t.Error("lookupLocal(x) should miss once every frame is popped")
	}
}

func TestDocumentRoot_UnwrapsDocumentNode(t *testing.T) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("a: 1\n"), &doc); err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if doc.Kind != yaml.DocumentNode {
		t.Fatalf("expected yaml.Unmarshal to produce a DocumentNode, got %v", doc.Kind)
	}
	root := documentRoot(&doc)
	if root.Kind != yaml.MappingNode {
		t.Errorf("documentRoot() = %v, want a MappingNode", root.Kind)
	}
}
