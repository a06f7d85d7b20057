package dawg

import (
	"bytes"
	"strconv"
)

// nameOf returns the signature of a node: its edges as _ch:id pairs in rune
// order, followed by ! if the node is final. Two nodes whose children are
// already canonical are equivalent exactly when their names are equal.
func (g *Graph) nameOf(id int) string {
	n := &g.nodes[id]
	buff := bytes.Buffer{}
	for _, e := range n.edges {
		buff.WriteByte('_')
		buff.WriteRune(e.ch)
		buff.WriteByte(':')
		buff.WriteString(strconv.Itoa(e.node))
	}

	if n.final {
		buff.WriteByte('!')
	}

	return buff.String()
}

// fold merges the child of u into the register. If an equivalent node is
// already registered, the edge is redirected to it and the child is released.
func (g *Graph) fold(u uncheckedNode) (merged bool) {
	name := g.nameOf(u.child)
	if canon, ok := g.register[name]; ok && canon != u.child {
		g.setChild(u.parent, u.ch, canon)
		g.release(u.child)
		return true
	}

	g.register[name] = u.child
	g.nodes[u.child].registered = true
	return false
}

// unregister takes a node out of the register. It must be called before a
// registered node is changed, since its name would no longer match.
func (g *Graph) unregister(id int) {
	n := &g.nodes[id]
	if !n.registered {
		return
	}

	name := g.nameOf(id)
	if g.register[name] != id {
		inconsistent("node %d is marked registered under %q but the register says %d",
			id, name, g.register[name])
	}
	delete(g.register, name)
	n.registered = false
}

// minimize folds the unchecked nodes from the last one down to index downTo,
// then truncates the list at that point.
func (g *Graph) minimize(downTo int) int {
	merged := 0
	for i := len(g.uncheckedNodes) - 1; i >= downTo; i-- {
		if g.fold(g.uncheckedNodes[i]) {
			merged++
		}
	}

	g.uncheckedNodes = g.uncheckedNodes[:downTo]
	return merged
}
