package dawg

import (
	"iter"
	"slices"

	"go.uber.org/zap"
)

// Compact is an immutable DAWG stored in flat arrays. Node 0 is the source;
// the edges of node n are edges[start[n]:start[n+1]], sorted by rune, and
// point at node indexes.
//
// A Compact is safe for concurrent use by any number of readers.
type Compact struct {
	final []bool
	start []int
	edges []edge
	reach []int // words reachable from each node

	numAdded int
}

// Compress flushes the graph and lays it out as a Compact. Nodes are numbered
// in depth-first preorder from the source, following edges in rune order, so
// compressing the same graph twice gives identical arrays.
//
// The Compact shares nothing with the graph, which can keep changing.
func (g *Graph) Compress() *Compact {
	g.Flush()

	// renumber the reachable nodes consecutively
	order := make([]int, 0, g.numNodes)
	remap := make(map[int]int, g.numNodes)
	var visit func(id int)
	visit = func(id int) {
		remap[id] = len(order)
		order = append(order, id)
		for _, e := range g.nodes[id].edges {
			if _, ok := remap[e.node]; !ok {
				visit(e.node)
			}
		}
	}
	visit(rootNode)

	c := &Compact{
		final:    make([]bool, len(order)),
		start:    make([]int, len(order)+1),
		edges:    make([]edge, 0, g.numEdges),
		numAdded: g.numAdded,
	}
	for i, id := range order {
		n := &g.nodes[id]
		c.final[i] = n.final
		c.start[i] = len(c.edges)
		for _, e := range n.edges {
			c.edges = append(c.edges, edge{ch: e.ch, node: remap[e.node]})
		}
	}
	c.start[len(order)] = len(c.edges)
	c.calculateReach()

	g.log.Debug("compressed graph",
		zap.Int("words", c.numAdded),
		zap.Int("nodes", c.NumNodes()),
		zap.Int("edges", c.NumEdges()))
	return c
}

// calculateReach fills in the number of words reachable from each node.
func (c *Compact) calculateReach() {
	c.reach = make([]int, len(c.final))
	done := make([]bool, len(c.final))
	var count func(n int) int
	count = func(n int) int {
		if done[n] {
			return c.reach[n]
		}
		total := 0
		if c.final[n] {
			total++
		}
		for _, e := range c.edgesOf(n) {
			total += count(e.node)
		}
		c.reach[n] = total
		done[n] = true
		return total
	}
	if len(c.final) > 0 {
		count(rootNode)
	}
}

func (c *Compact) root() int {
	return rootNode
}

func (c *Compact) isFinal(node int) bool {
	return c.final[node]
}

func (c *Compact) edgesOf(node int) []edge {
	return c.edges[c.start[node]:c.start[node+1]]
}

func (c *Compact) child(node int, ch rune) (int, bool) {
	edges := c.edgesOf(node)
	if i, ok := slices.BinarySearchFunc(edges, ch, cmpEdge); ok {
		return edges[i].node, true
	}
	return 0, false
}

func (c *Compact) reachable(node int) int {
	return c.reach[node]
}

// NumAdded returns the number of words stored.
func (c *Compact) NumAdded() int {
	return c.numAdded
}

// NumNodes returns the number of nodes, including the source.
func (c *Compact) NumNodes() int {
	return len(c.final)
}

// NumEdges returns the number of transitions.
func (c *Compact) NumEdges() int {
	return len(c.edges)
}

// NumClasses returns the number of equivalence classes. Every node but the
// source is its own class.
func (c *Compact) NumClasses() int {
	return len(c.final) - 1
}

// Stats returns all counts at once.
func (c *Compact) Stats() Stats {
	return Stats{
		Words:   c.NumAdded(),
		Nodes:   c.NumNodes(),
		Edges:   c.NumEdges(),
		Classes: c.NumClasses(),
	}
}

// Contains reports whether word is stored.
func (c *Compact) Contains(word string) bool {
	return contains(c, word)
}

// LongestAcceptedPrefix returns the longest prefix of input that is a stored
// word, or the empty string if there is none.
func (c *Compact) LongestAcceptedPrefix(input string) string {
	return longestAcceptedPrefix(c, input)
}

// FindAllPrefixesOf returns all stored words that are a prefix of the input
// string, with their indexes.
func (c *Compact) FindAllPrefixesOf(input string) []FindResult {
	return findAllPrefixesOf(c, input)
}

// IndexOf returns the position of input among the stored words in sorted
// order, or -1 if it is not stored.
func (c *Compact) IndexOf(input string) int {
	return indexOf(c, input)
}

// Enumerate calls fn for every prefix of the stored words, in increasing
// order. fn returns Continue to go deeper, Skip to leave out the words below
// the prefix, or Stop to end the enumeration.
func (c *Compact) Enumerate(fn EnumFn) {
	enumerate(c, 0, rootNode, nil, fn)
}

// AllStrings returns every stored word in increasing order.
func (c *Compact) AllStrings() iter.Seq[string] {
	return wordsBelow(c, rootNode, "")
}

// StringsWithPrefix returns the stored words starting with prefix, in
// increasing order.
func (c *Compact) StringsWithPrefix(prefix string) []string {
	return stringsWithPrefix(c, prefix)
}

// StringsWithSuffix returns the stored words ending with suffix. It walks
// every stored word.
func (c *Compact) StringsWithSuffix(suffix string) []string {
	return stringsWithSuffix(c, suffix)
}

// StringsContaining returns the stored words containing substr. It walks
// every stored word.
func (c *Compact) StringsContaining(substr string) []string {
	return stringsContaining(c, substr)
}
