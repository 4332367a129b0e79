// Package depgraph tracks the import dependency graph across an
// outermost compile and its %IMPORTs (spec.md §4.5.2), so that cycles
// are rejected before a recursive resolve and so that subgraphs no
// longer rooted at any entry point can be purged from the module cache.
//
// Grounded on the same adjacency-map-plus-DFS shape the teacher's
// internal/include package uses to detect include cycles, generalized
// from a single-pass include check into a persistent graph that
// survives across many compiles sharing one state (spec.md §5).
package depgraph

// Graph is a directed graph of module paths: an edge from→to means "from
// imports to". It is not safe for concurrent use — the compiler's
// scheduling model is single-threaded cooperative (spec.md §5).
type Graph struct {
	deps       map[string]map[string]bool
	reverse    map[string]map[string]bool
	entryPaths map[string]bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		deps:       map[string]map[string]bool{},
		reverse:    map[string]map[string]bool{},
		entryPaths: map[string]bool{},
	}
}

// AddDep ensures path is present as a node. If isEntry, path is also
// recorded as an entry point (a root the next Purge keeps reachable
// from).
func (g *Graph) AddDep(path string, isEntry bool) {
	if g.deps[path] == nil {
		g.deps[path] = map[string]bool{}
	}
	if g.reverse[path] == nil {
		g.reverse[path] = map[string]bool{}
	}
	if isEntry {
		g.entryPaths[path] = true
	}
}

// BindPaths records that from imports to. If adding that edge would
// create a cycle (a path already exists from to back to from, or
// from == to), the edge is not persisted and the cycle — the list of
// paths starting at "from", running through "to", and ending back at
// "from" — is returned instead.
func (g *Graph) BindPaths(from, to string) (cycle []string, hasCycle bool) {
	g.AddDep(from, false)
	g.AddDep(to, false)

	if from == to {
		return []string{from, to}, true
	}
	if path, found := g.findPath(to, from); found {
		return append([]string{from}, path...), true
	}

	g.deps[from][to] = true
	g.reverse[to][from] = true
	return nil, false
}

// findPath does a DFS from start looking for target, returning the path
// (inclusive of both ends) if found.
func (g *Graph) findPath(start, target string) ([]string, bool) {
	visited := map[string]bool{}
	var stack []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		if node == target {
			stack = append(stack, node)
			return true
		}
		if visited[node] {
			return false
		}
		visited[node] = true
		stack = append(stack, node)
		for next := range g.deps[node] {
			if dfs(next) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		return false
	}

	if dfs(start) {
		return append([]string(nil), stack...), true
	}
	return nil, false
}

// Purge drops paths (if any) from the entry-point set, computes
// reachability from the remaining entry points, deletes every
// unreachable node (and its edges), and returns the set of paths
// removed.
func (g *Graph) Purge(paths ...string) []string {
	for _, p := range paths {
		delete(g.entryPaths, p)
	}

	reachable := map[string]bool{}
	var visit func(node string)
	visit = func(node string) {
		if reachable[node] {
			return
		}
		reachable[node] = true
		for next := range g.deps[node] {
			visit(next)
		}
	}
	for entry := range g.entryPaths {
		visit(entry)
	}

	var removed []string
	for node := range g.deps {
		if reachable[node] {
			continue
		}
		removed = append(removed, node)
	}
	for _, node := range removed {
		for next := range g.deps[node] {
			delete(g.reverse[next], node)
		}
		for prev := range g.reverse[node] {
			delete(g.deps[prev], node)
		}
		delete(g.deps, node)
		delete(g.reverse, node)
	}
	return removed
}

// Reset clears all state.
func (g *Graph) Reset() {
	g.deps = map[string]map[string]bool{}
	g.reverse = map[string]map[string]bool{}
	g.entryPaths = map[string]bool{}
}

// Paths returns every node currently tracked, for diagnostics and tests.
func (g *Graph) Paths() []string {
	out := make([]string, 0, len(g.deps))
	for p := range g.deps {
		out = append(out, p)
	}
	return out
}
