package dawg

import (
	"slices"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Stats holds the size of a graph.
type Stats struct {
	Words   int `yaml:"words" json:"words"`
	Nodes   int `yaml:"nodes" json:"nodes"`
	Edges   int `yaml:"edges" json:"edges"`
	Classes int `yaml:"classes" json:"classes"`
}

// Graph is a minimal DAWG that supports adding and removing words.
//
// A Graph is not safe for concurrent use, not even by readers alone.
// Compress it to get a structure that is.
type Graph struct {
	nodes    []node
	free     []int
	register map[string]int

	// the current construction session
	inSession      bool
	lastWord       []rune
	uncheckedNodes []uncheckedNode

	numAdded int
	numNodes int
	numEdges int

	// words reachable from each node; dropped on every change
	reach map[int]int

	strict bool
	log    *zap.Logger
}

// New creates an empty Graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:    make([]node, 1),
		register: make(map[string]int),
		numNodes: 1,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Build creates a Graph holding words. The input does not have to be sorted
// or free of duplicates; a sorted copy is added in one session, which is then
// flushed.
func Build(words []string, opts ...Option) (*Graph, error) {
	sorted := slices.Clone(words)
	slices.Sort(sorted)

	g := New(opts...)
	for _, word := range slices.Compact(sorted) {
		if err := g.Add(word); err != nil {
			return nil, err
		}
	}
	g.Flush()

	g.log.Debug("built graph",
		zap.Int("words", g.numAdded),
		zap.Int("nodes", g.numNodes),
		zap.Int("edges", g.numEdges))
	return g, nil
}

// MinimizationStart returns the position from which the path of prev can be
// folded once curr is added after it: the length in runes of their common
// prefix. It returns -1 when there is nothing to fold, because prev is empty
// or equal to curr.
func MinimizationStart(prev, curr string) int {
	if prev == curr || prev == "" {
		return -1
	}

	commonPrefix := 0
	for len(prev) > 0 && len(curr) > 0 {
		r1, n1 := utf8.DecodeRuneInString(prev)
		r2, n2 := utf8.DecodeRuneInString(curr)
		if r1 != r2 {
			break
		}
		prev, curr = prev[n1:], curr[n2:]
		commonPrefix++
	}
	return commonPrefix
}

// CanAdd returns false if Add would reject word.
func (g *Graph) CanAdd(word string) bool {
	if !utf8.ValidString(word) {
		return false
	}
	return g.inOrder(word) || g.Contains(word)
}

func (g *Graph) inOrder(word string) bool {
	return !g.strict || !g.inSession || word >= string(g.lastWord)
}

// Add adds a word to the graph. Adding a word that is already stored does
// nothing, whatever its position. A word that is not valid UTF-8 is rejected
// with ErrInvalidWord.
//
// Words added in increasing order are cheapest: the previous word's path
// below the point where the new word diverges is folded into the register,
// and the new suffix is appended. A word that is lower than the previous one
// is still inserted correctly, by detaching the part of its path that already
// exists, unless the graph was created WithStrictOrder, in which case
// ErrOutOfOrder is returned.
func (g *Graph) Add(word string) error {
	if !utf8.ValidString(word) {
		return errors.Wrapf(ErrInvalidWord, "add %q", word)
	}
	if g.Contains(word) {
		return nil
	}
	if !g.inOrder(word) {
		g.log.Debug("rejected word out of order",
			zap.String("last", string(g.lastWord)), zap.String("word", word))
		return errors.Wrapf(ErrOutOfOrder, "%q after %q", word, string(g.lastWord))
	}
	g.reach = nil

	// fold the previous word's path below the common prefix
	downTo := 0
	if g.inSession {
		downTo = max(MinimizationStart(string(g.lastWord), word), 0)
	}
	g.minimize(downTo)

	runes := []rune(word)
	node := rootNode
	if len(g.uncheckedNodes) > 0 {
		node = g.uncheckedNodes[len(g.uncheckedNodes)-1].child
	}

	// the part of the word that already has a path must be detached before
	// it can be extended. With sorted input this is always empty.
	rest := runes[downTo:]
	existing := 0
	for at := node; existing < len(rest); existing++ {
		child, ok := g.getChild(at, rest[existing])
		if !ok {
			break
		}
		at = child
	}
	if existing > 0 {
		detached, err := g.detach(node, rest[:existing])
		if err != nil {
			inconsistent("detaching %q: %v", string(rest[:existing]), err)
		}
		g.uncheckedNodes = append(g.uncheckedNodes, detached...)
		node = detached[len(detached)-1].child
	}

	// add the suffix
	for _, letter := range rest[existing:] {
		next := g.newNode()
		g.addChild(node, letter, next)
		g.uncheckedNodes = append(g.uncheckedNodes, uncheckedNode{node, letter, next})
		node = next
	}

	g.nodes[node].final = true
	g.lastWord = runes
	g.inSession = true
	g.numAdded++
	return nil
}

// Flush folds the rest of the current session into the register, leaving the
// graph minimal. The next Add starts a new session.
func (g *Graph) Flush() {
	if !g.inSession {
		return
	}

	pending := len(g.uncheckedNodes)
	merged := g.minimize(0)
	g.inSession = false
	g.lastWord = nil
	g.log.Debug("flushed session",
		zap.Int("folded", pending),
		zap.Int("merged", merged))
}

// Remove deletes a word from the graph, keeping it minimal. It returns
// ErrWordNotFound if the word is not stored.
func (g *Graph) Remove(word string) error {
	if !g.Contains(word) {
		return errors.Wrapf(ErrWordNotFound, "remove %q", word)
	}
	g.Flush()
	g.reach = nil

	path, err := g.detach(rootNode, []rune(word))
	if err != nil {
		inconsistent("detaching stored word %q: %v", word, err)
	}

	end := rootNode
	if len(path) > 0 {
		end = path[len(path)-1].child
	}
	g.nodes[end].final = false
	g.numAdded--

	// prune nodes that only existed for this word
	pruned := 0
	for len(path) > 0 {
		last := path[len(path)-1]
		n := &g.nodes[last.child]
		if n.final || len(n.edges) > 0 {
			break
		}
		g.removeChild(last.parent, last.ch)
		path = path[:len(path)-1]
		pruned++
	}

	g.uncheckedNodes = path
	merged := g.minimize(0)

	g.log.Debug("removed word",
		zap.String("word", word),
		zap.Int("pruned", pruned),
		zap.Int("merged", merged))
	return nil
}

// NumAdded returns the number of words stored.
func (g *Graph) NumAdded() int {
	return g.numAdded
}

// NumNodes returns the number of nodes, including the source. Until Flush is
// called this may include nodes that are not minimized yet.
func (g *Graph) NumNodes() int {
	return g.numNodes
}

// NumEdges returns the number of transitions.
func (g *Graph) NumEdges() int {
	return g.numEdges
}

// NumClasses returns the number of registered equivalence classes. After
// Flush this is one less than NumNodes, the source being the only node
// outside the register.
func (g *Graph) NumClasses() int {
	return len(g.register)
}

// Stats returns all counts at once.
func (g *Graph) Stats() Stats {
	return Stats{
		Words:   g.numAdded,
		Nodes:   g.numNodes,
		Edges:   g.numEdges,
		Classes: len(g.register),
	}
}

// Verify recounts the graph from scratch and checks it against the running
// counts, the incoming counts and the register. It returns an error wrapping
// ErrInconsistentState on the first mismatch.
func (g *Graph) Verify() error {
	incoming := make(map[int]int)
	seen := map[int]bool{rootNode: true}
	stack := []int{rootNode}
	edges := 0
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &g.nodes[id]

		if !slices.IsSortedFunc(n.edges, func(a, b edge) int { return cmpEdge(a, b.ch) }) {
			return errors.Wrapf(ErrInconsistentState, "edges of node %d are not sorted", id)
		}
		if id != rootNode && !n.final && len(n.edges) == 0 {
			return errors.Wrapf(ErrInconsistentState, "node %d accepts nothing", id)
		}

		edges += len(n.edges)
		for _, e := range n.edges {
			incoming[e.node]++
			if !seen[e.node] {
				seen[e.node] = true
				stack = append(stack, e.node)
			}
		}
	}

	if len(seen) != g.numNodes {
		return errors.Wrapf(ErrInconsistentState, "%d nodes reachable, %d counted", len(seen), g.numNodes)
	}
	if len(g.nodes)-len(g.free) != g.numNodes {
		return errors.Wrapf(ErrInconsistentState, "%d nodes allocated, %d counted",
			len(g.nodes)-len(g.free), g.numNodes)
	}
	if edges != g.numEdges {
		return errors.Wrapf(ErrInconsistentState, "%d edges reachable, %d counted", edges, g.numEdges)
	}

	for id := range seen {
		if g.nodes[id].incoming != incoming[id] {
			return errors.Wrapf(ErrInconsistentState, "node %d has %d incoming edges, %d counted",
				id, incoming[id], g.nodes[id].incoming)
		}
	}

	unchecked := make(map[int]bool, len(g.uncheckedNodes))
	for _, u := range g.uncheckedNodes {
		unchecked[u.child] = true
	}
	for id := range seen {
		n := &g.nodes[id]
		switch {
		case id == rootNode:
			if n.registered {
				return errors.Wrap(ErrInconsistentState, "source node is registered")
			}
		case unchecked[id]:
			if n.registered || n.incoming != 1 {
				return errors.Wrapf(ErrInconsistentState, "unchecked node %d is registered or shared", id)
			}
		case !n.registered:
			return errors.Wrapf(ErrInconsistentState, "node %d is not registered", id)
		}
	}
	for name, id := range g.register {
		if !seen[id] || !g.nodes[id].registered || g.nameOf(id) != name {
			return errors.Wrapf(ErrInconsistentState, "register entry %q points at node %d", name, id)
		}
	}

	if words := g.reachable(rootNode); words != g.numAdded {
		return errors.Wrapf(ErrInconsistentState, "%d words reachable, %d counted", words, g.numAdded)
	}
	return nil
}
