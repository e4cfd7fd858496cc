// Package depgraph implements the directed dependency graph over grid
// coordinates: formula cells point to every coordinate their region
// covers. It supports idempotent edge mutation, neighbour enumeration
// in both directions, and a topological sort that reports the first
// node it finds still participating in a cycle.
package depgraph

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/vogtb/occursheet/internal/coord"
)

// node holds one coordinate's adjacency sets. A set, rather than a
// slice, is what makes AddEdge idempotent: re-adding an existing edge
// is just overwriting the same map key.
type node struct {
	out map[coord.Coordinate]struct{}
	in  map[coord.Coordinate]struct{}
}

func newNode() *node {
	return &node{
		out: make(map[coord.Coordinate]struct{}),
		in:  make(map[coord.Coordinate]struct{}),
	}
}

// Graph is a directed graph over coord.Coordinate nodes.
type Graph struct {
	nodes map[coord.Coordinate]*node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[coord.Coordinate]*node)}
}

// AddNode ensures a node exists for c, creating it if necessary. Most
// callers never need to call this directly since AddEdge creates
// endpoints on demand, but the loader uses it to register isolated
// cells (Const cells with no edges at all).
func (g *Graph) AddNode(c coord.Coordinate) {
	if _, ok := g.nodes[c]; !ok {
		g.nodes[c] = newNode()
	}
}

// HasNode reports whether c has a node in the graph.
func (g *Graph) HasNode(c coord.Coordinate) bool {
	_, ok := g.nodes[c]
	return ok
}

// RemoveNode deletes c and every edge touching it.
func (g *Graph) RemoveNode(c coord.Coordinate) {
	n, ok := g.nodes[c]
	if !ok {
		return
	}
	for to := range n.out {
		delete(g.nodes[to].in, c)
	}
	for from := range n.in {
		delete(g.nodes[from].out, c)
	}
	delete(g.nodes, c)
}

// AddEdge adds a directed edge from -> to, creating either endpoint's
// node if needed. Adding an edge that already exists is a no-op.
func (g *Graph) AddEdge(from, to coord.Coordinate) {
	g.AddNode(from)
	g.AddNode(to)
	g.nodes[from].out[to] = struct{}{}
	g.nodes[to].in[from] = struct{}{}
}

// RemoveEdge removes the directed edge from -> to, if present.
func (g *Graph) RemoveEdge(from, to coord.Coordinate) {
	if n, ok := g.nodes[from]; ok {
		delete(n.out, to)
	}
	if n, ok := g.nodes[to]; ok {
		delete(n.in, from)
	}
}

// RemoveOutgoingEdges removes every edge leaving c, without touching
// the node itself. Used before a cell is replaced by an edit: its old
// outgoing edges are stale and must go, but its incoming edges (its
// parents) still need somewhere to point while the replacement is
// evaluated.
func (g *Graph) RemoveOutgoingEdges(c coord.Coordinate) {
	n, ok := g.nodes[c]
	if !ok {
		return
	}
	for to := range n.out {
		delete(g.nodes[to].in, c)
	}
	n.out = make(map[coord.Coordinate]struct{})
}

// Out returns the coordinates c has an outgoing edge to.
func (g *Graph) Out(c coord.Coordinate) []coord.Coordinate {
	n, ok := g.nodes[c]
	if !ok {
		return nil
	}
	return maps.Keys(n.out)
}

// In returns the coordinates that have an outgoing edge to c (c's
// parents in the formula->covered-cell relation).
func (g *Graph) In(c coord.Coordinate) []coord.Coordinate {
	n, ok := g.nodes[c]
	if !ok {
		return nil
	}
	return maps.Keys(n.in)
}

// OutDegree returns the number of outgoing edges from c.
func (g *Graph) OutDegree(c coord.Coordinate) int {
	n, ok := g.nodes[c]
	if !ok {
		return 0
	}
	return len(n.out)
}

// Nodes returns every node currently in the graph.
func (g *Graph) Nodes() []coord.Coordinate {
	return maps.Keys(g.nodes)
}

// Clone returns a deep copy of the graph, suitable for the working-copy
// topological sort the quarantine pass mutates and discards.
func (g *Graph) Clone() *Graph {
	out := New()
	for c, n := range g.nodes {
		clone := newNode()
		maps.Copy(clone.out, n.out)
		maps.Copy(clone.in, n.in)
		out.nodes[c] = clone
	}
	return out
}

// visitState is the 3-state DFS marking a topological sort needs to
// tell a back-edge (cycle) apart from a cross-edge to an already
// finished node: absent (unvisited), false (visiting, on the current
// DFS stack), true (visited, finished).
type visitState = bool

const (
	visiting visitState = false
	visited  visitState = true
)

// TopoSort performs a depth-first topological sort over outgoing edges.
// On success it returns the coordinates in DFS post-order, so every
// node follows its out-neighbours (for this graph: a formula is ordered
// after every cell it covers).
//
// On failure (a cycle exists), ok is false and cycleNode identifies a
// coordinate participating in that cycle; which one is
// implementation-defined.
func (g *Graph) TopoSort() (order []coord.Coordinate, cycleNode coord.Coordinate, ok bool) {
	state := make(map[coord.Coordinate]visitState)
	order = make([]coord.Coordinate, 0, len(g.nodes))

	var found coord.Coordinate
	hasCycle := false

	var visit func(c coord.Coordinate) bool
	visit = func(c coord.Coordinate) bool {
		if s, exists := state[c]; exists {
			if s == visiting {
				found = c // cycle: c is still on the stack
				return true
			}
			return false // already finished
		}
		state[c] = visiting

		outs := maps.Keys(g.nodes[c].out)
		sortCoordinates(outs)
		for _, to := range outs {
			if visit(to) {
				return true
			}
		}

		state[c] = visited
		order = append(order, c)
		return false
	}

	// Deterministic iteration order keeps TopoSort's cycleNode choice
	// reproducible across runs for the same graph.
	nodes := g.Nodes()
	sortCoordinates(nodes)

	for _, c := range nodes {
		if _, done := state[c]; done {
			continue
		}
		if visit(c) {
			hasCycle = true
			break
		}
	}

	if hasCycle {
		return nil, found, false
	}
	return order, coord.Coordinate{}, true
}

func sortCoordinates(cs []coord.Coordinate) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Less(cs[j]) })
}
