// Package domain contains the core domain models for the incremental build: cache entries,
// file identifiers and the file dependency graph.
package domain

import "sync"

// DependencyGraph records "importer -> imported" edges between files.
//
// Nodes live in an arena addressed by stable integer indices. The index map and
// the edge lists are guarded by a single lock so they are always observed together.
// Nodes are never removed. Self-loops and cycles are allowed.
type DependencyGraph struct {
	mu       sync.RWMutex
	index    map[FileID]int
	nodes    []FileID
	outgoing [][]int
	incoming [][]int
	edges    map[edge]struct{}
}

type edge struct {
	from int
	to   int
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		index: make(map[FileID]int),
		edges: make(map[edge]struct{}),
	}
}

// AddNode registers id as a node. It is a no-op if the node exists.
func (g *DependencyGraph) AddNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodeLocked(NewFileID(id))
}

// AddDependency records that from depends on (imports) to.
// Both nodes are created if needed; an existing edge is left as is.
func (g *DependencyGraph) AddDependency(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := edge{
		from: g.nodeLocked(NewFileID(from)),
		to:   g.nodeLocked(NewFileID(to)),
	}
	if _, exists := g.edges[e]; exists {
		return
	}
	g.edges[e] = struct{}{}
	g.outgoing[e.from] = append(g.outgoing[e.from], e.to)
	g.incoming[e.to] = append(g.incoming[e.to], e.from)
}

// nodeLocked returns the arena index of id, allocating it if necessary.
// The caller must hold the write lock.
func (g *DependencyGraph) nodeLocked(id FileID) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.outgoing = append(g.outgoing, nil)
	g.incoming = append(g.incoming, nil)
	g.index[id] = idx
	return idx
}

// Dependents returns the files with a direct edge into id, in the order the
// edges were added. Unknown ids have no dependents.
// Only one hop is followed; see TransitiveDependents for the full blast radius.
func (g *DependencyGraph) Dependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idx, ok := g.index[NewFileID(id)]
	if !ok {
		return []string{}
	}
	return g.namesLocked(g.incoming[idx])
}

// Dependencies returns the files id directly imports, in insertion order.
func (g *DependencyGraph) Dependencies(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idx, ok := g.index[NewFileID(id)]
	if !ok {
		return []string{}
	}
	return g.namesLocked(g.outgoing[idx])
}

// TransitiveDependents walks incoming edges breadth-first and returns every file
// that directly or indirectly depends on id, in discovery order. The result never
// contains id itself, even when id sits on a cycle.
func (g *DependencyGraph) TransitiveDependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	start, ok := g.index[NewFileID(id)]
	if !ok {
		return []string{}
	}

	visited := map[int]bool{start: true}
	queue := []int{start}
	var order []int
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range g.incoming[cur] {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			order = append(order, dep)
			queue = append(queue, dep)
		}
	}
	return g.namesLocked(order)
}

func (g *DependencyGraph) namesLocked(indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = g.nodes[idx].String()
	}
	return out
}

// HasNode reports whether id has been registered.
func (g *DependencyGraph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.index[NewFileID(id)]
	return ok
}

// NodeCount returns the number of registered files.
func (g *DependencyGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of distinct dependency edges.
func (g *DependencyGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}
