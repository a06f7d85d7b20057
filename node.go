package dawg

import (
	"fmt"
	"slices"
)

const rootNode = 0

// edge is an outgoing transition. In a Graph, node is an arena id; in a
// Compact it is an array index.
type edge struct {
	ch   rune
	node int
}

func (e edge) String() string {
	return fmt.Sprintf("('%c' -> %d)", e.ch, e.node)
}

func cmpEdge(e edge, ch rune) int {
	return int(e.ch) - int(ch)
}

type node struct {
	edges      []edge // sorted by ch
	final      bool
	incoming   int // number of (parent, ch) edges pointing here
	registered bool
}

// uncheckedNode is a transition on the path of the current session's last
// word whose child has not been folded into the register yet.
type uncheckedNode struct {
	parent int
	ch     rune
	child  int
}

func (g *Graph) newNode() int {
	g.numNodes++
	if n := len(g.free); n > 0 {
		id := g.free[n-1]
		g.free = g.free[:n-1]
		return id
	}
	g.nodes = append(g.nodes, node{})
	return len(g.nodes) - 1
}

func (g *Graph) freeNode(id int) {
	g.nodes[id] = node{}
	g.free = append(g.free, id)
	g.numNodes--
}

func (g *Graph) getChild(parent int, ch rune) (int, bool) {
	edges := g.nodes[parent].edges
	if i, ok := slices.BinarySearchFunc(edges, ch, cmpEdge); ok {
		return edges[i].node, true
	}
	return 0, false
}

func (g *Graph) addChild(parent int, ch rune, child int) {
	edges := g.nodes[parent].edges
	i, ok := slices.BinarySearchFunc(edges, ch, cmpEdge)
	if ok {
		inconsistent("node %d already has an edge for %q", parent, ch)
	}
	g.nodes[parent].edges = slices.Insert(edges, i, edge{ch: ch, node: child})
	g.nodes[child].incoming++
	g.numEdges++
}

// setChild points an existing edge at a different child. The caller is
// responsible for the old child's incoming count.
func (g *Graph) setChild(parent int, ch rune, child int) {
	edges := g.nodes[parent].edges
	i, ok := slices.BinarySearchFunc(edges, ch, cmpEdge)
	if !ok {
		inconsistent("node %d has no edge for %q", parent, ch)
	}
	edges[i].node = child
	g.nodes[child].incoming++
}

func (g *Graph) removeChild(parent int, ch rune) {
	edges := g.nodes[parent].edges
	i, ok := slices.BinarySearchFunc(edges, ch, cmpEdge)
	if !ok {
		inconsistent("node %d has no edge for %q", parent, ch)
	}
	child := edges[i].node
	g.nodes[parent].edges = slices.Delete(edges, i, i+1)
	g.numEdges--
	g.release(child)
}

// release drops one incoming reference to id, freeing it and releasing its
// children when nothing points at it any more.
func (g *Graph) release(id int) {
	n := &g.nodes[id]
	n.incoming--
	if n.incoming < 0 {
		inconsistent("incoming count of node %d went negative", id)
	}
	if n.incoming > 0 {
		return
	}

	g.unregister(id)
	edges := n.edges
	g.numEdges -= len(edges)
	g.freeNode(id)
	for _, e := range edges {
		g.release(e.node)
	}
}

// clone gives parent a private copy of the shared node at parent's edge ch,
// and returns the copy.
func (g *Graph) clone(parent int, ch rune, orig int) int {
	if g.nodes[orig].incoming < 2 {
		inconsistent("cloning node %d which is not shared", orig)
	}

	id := g.newNode()
	src := g.nodes[orig]
	g.nodes[id].final = src.final
	g.nodes[id].edges = slices.Clone(src.edges)
	for _, e := range src.edges {
		g.nodes[e.node].incoming++
	}
	g.numEdges += len(src.edges)

	g.nodes[orig].incoming--
	g.setChild(parent, ch, id)
	return id
}
