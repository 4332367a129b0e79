package depgraph

import "testing"

func TestBindPaths_NoCycle(t *testing.T) {
	g := New()
	if _, has := g.BindPaths("x", "y"); has {
		t.Fatalf("expected no cycle for a fresh edge")
	}
	if _, has := g.BindPaths("y", "z"); has {
		t.Fatalf("expected no cycle for x->y->z")
	}
}

func TestBindPaths_DetectsDirectCycle(t *testing.T) {
	g := New()
	g.BindPaths("x", "y")
	cycle, has := g.BindPaths("y", "x")
	if !has {
		t.Fatalf("expected a cycle for y->x after x->y")
	}
	if len(cycle) == 0 {
		t.Fatalf("expected a non-empty cycle path")
	}
}

func TestBindPaths_DetectsSelfCycle(t *testing.T) {
	g := New()
	cycle, has := g.BindPaths("x", "x")
	if !has || len(cycle) != 2 {
		t.Fatalf("expected a 2-element self cycle, got %v, %v", cycle, has)
	}
}

func TestBindPaths_DetectsIndirectCycle(t *testing.T) {
	g := New()
	g.BindPaths("x", "y")
	g.BindPaths("y", "z")
	if _, has := g.BindPaths("z", "x"); !has {
		t.Fatalf("expected cycle for z->x after x->y->z")
	}
}

func TestBindPaths_RejectedEdgeNotPersisted(t *testing.T) {
	g := New()
	g.AddDep("y", true)
	g.BindPaths("x", "y")
	g.BindPaths("y", "x")
	removed := g.Purge("x")
	found := false
	for _, p := range removed {
		if p == "x" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected x to be purged: it is reachable from entry y only through the rejected y->x edge: removed=%v", removed)
	}
}

func TestPurge_ReachabilityFromRemainingEntries(t *testing.T) {
	g := New()
	g.AddDep("root1", true)
	g.AddDep("root2", true)
	g.BindPaths("root1", "shared")
	g.BindPaths("root2", "shared")
	g.BindPaths("root1", "onlyRoot1")

	removed := g.Purge("root1")

	removedSet := map[string]bool{}
	for _, p := range removed {
		removedSet[p] = true
	}
	if removedSet["shared"] {
		t.Fatalf("shared should still be reachable from root2")
	}
	if !removedSet["onlyRoot1"] {
		t.Fatalf("onlyRoot1 should be purged once root1 is no longer an entry")
	}
}

func TestReset_ClearsAllState(t *testing.T) {
	g := New()
	g.AddDep("root", true)
	g.BindPaths("root", "dep")
	g.Reset()
	if len(g.Paths()) != 0 {
		t.Fatalf("expected empty graph after reset, got %v", g.Paths())
	}
}
