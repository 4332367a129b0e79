package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/depgraph"
	"github.com/yaml-extend/yaml-extend-sub001/internal/logger"
	"github.com/yaml-extend/yaml-extend-sub001/internal/modcache"
	"github.com/yaml-extend/yaml-extend-sub001/internal/state"
)

func newTestState() *state.State {
	return &state.State{Cache: modcache.New(), Graph: depgraph.New(), Logger: logger.Nop()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestCompileModule_ImportTraversalSeesPrivateRegardlessOfPolicy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "child.yaml", "%PRIVATE secret\nsecret: shh\nvalue: 1\n")
	parentSrc := "%IMPORT child \"./child.yaml\"\nresult: ${import.child.secret}\n"
	parentPath := writeFile(t, dir, "parent.yaml", parentSrc)

	st := newTestState()
	opts := &state.Options{BasePath: dir, Filepath: parentPath}

	val, errs, _ := CompileModule(st, opts, parentSrc, parentPath, dir)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	m := val.(*core.OrderedMap)
	result, ok := m.Get("result")
	if !ok || result != "shh" {
		t.Errorf("result = %v, %v, want shh (import traversal must see the child's private field)", result, ok)
	}
}

func TestCompileModule_PrivateKeptByDefault(t *testing.T) {
	src := "%PRIVATE secret\nsecret: shh\nname: hello\n"
	st := newTestState()
	opts := &state.Options{Filepath: "mod.yaml"}

	val, _, _ := CompileModule(st, opts, src, "", "")
	m := val.(*core.OrderedMap)
	if _, ok := m.Get("secret"); !ok {
		t.Error("root compile output should keep 'secret' by default (no IgnorePrivate)")
	}
	if name, _ := m.Get("name"); name != "hello" {
		t.Errorf("name = %v, want hello", name)
	}
}

func TestCompileModule_IgnorePrivateStripsRootOutput(t *testing.T) {
	src := "%FILENAME svc.yaml\n%PRIVATE secret\nsecret: shh\nname: hello\n"
	st := newTestState()
	opts := &state.Options{Filepath: "mod.yaml", IgnorePrivate: []string{"svc.yaml"}}

	val, _, _ := CompileModule(st, opts, src, "", "")
	m := val.(*core.OrderedMap)
	if _, ok := m.Get("secret"); ok {
		t.Error("root compile output should have 'secret' stripped when the module is in IgnorePrivate")
	}
	if name, _ := m.Get("name"); name != "hello" {
		t.Errorf("name = %v, want hello", name)
	}
}

func TestCompileModule_CircularImportDetected(t *testing.T) {
	dir := t.TempDir()
	aSrc := "%IMPORT b \"./b.yaml\"\nvalue: ${import.b.value}\n"
	bSrc := "%IMPORT a \"./a.yaml\"\nvalue: ${import.a.value}\n"
	aPath := writeFile(t, dir, "a.yaml", aSrc)
	writeFile(t, dir, "b.yaml", bSrc)

	st := newTestState()
	opts := &state.Options{BasePath: dir, Filepath: aPath}

	_, _, impErrs := CompileModule(st, opts, aSrc, aPath, dir)

	found := false
	for _, e := range impErrs {
		if e.Code == "directive.import.circular" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected directive.import.circular among imported errors, got %v", impErrs)
	}
}

func TestCompileModule_CachesByCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	src := "value: 1\n"
	path := writeFile(t, dir, "mod.yaml", src)

	st := newTestState()
	opts := &state.Options{Filepath: path}

	if _, ok := st.Cache.GetEntry(path); ok {
		t.Fatal("cache should be empty before first compile")
	}
	CompileModule(st, opts, src, path, dir)
	if _, ok := st.Cache.GetEntry(path); !ok {
		t.Error("expected module cached under its canonical path after compile")
	}
}

func TestCompileModule_ParamHashCacheKeyingDistinguishesCalls(t *testing.T) {
	dir := t.TempDir()
	src := "%PARAM env scalar \"dev\"\nname: svc-${param.env}\n"
	path := writeFile(t, dir, "mod.yaml", src)
	st := newTestState()

	opts1 := &state.Options{Filepath: path, Params: map[string]interface{}{"env": "dev"}}
	val1, _, _ := CompileModule(st, opts1, src, path, dir)
	name1, _ := val1.(*core.OrderedMap).Get("name")
	if name1 != "svc-dev" {
		t.Errorf("name1 = %v, want svc-dev", name1)
	}

	opts2 := &state.Options{Filepath: path, Params: map[string]interface{}{"env": "prod"}}
	val2, _, _ := CompileModule(st, opts2, src, path, dir)
	name2, _ := val2.(*core.OrderedMap).Get("name")
	if name2 != "svc-prod" {
		t.Errorf("name2 = %v, want svc-prod (distinct param set should not hit the other's cache entry)", name2)
	}

	entry, ok := st.Cache.GetEntry(path)
	if !ok {
		t.Fatal("expected a cache entry")
	}
	if entry.ParamCount() != 2 {
		t.Errorf("ParamCount() = %d, want 2 distinct param-hash entries", entry.ParamCount())
	}
}

func TestCompileModule_PreResolveImportsRunsEvenWhenUnreferenced(t *testing.T) {
	dir := t.TempDir()
	childSrc := "value: 1\n"
	childPath := writeFile(t, dir, "child.yaml", childSrc)
	parentSrc := "%IMPORT child \"./child.yaml\"\nname: hello\n"
	parentPath := writeFile(t, dir, "parent.yaml", parentSrc)

	st := newTestState()
	opts := &state.Options{BasePath: dir, Filepath: parentPath}
	CompileModule(st, opts, parentSrc, parentPath, dir)

	if _, ok := st.Cache.GetEntry(childPath); !ok {
		t.Error("expected the unreferenced %IMPORT to have been pre-resolved and cached")
	}
}
