package dawg

import "github.com/pkg/errors"

// step is one transition taken while walking a path.
type step struct {
	node int
	ch   rune
}

// confluence describes the first shared node on a path.
type confluence struct {
	// node is the first node after the start with more than one incoming
	// edge, or -1 if every node on the path is owned by this path alone.
	node int

	// steps are the transitions walked from the start. If node is set, the
	// last step leads to it; otherwise they cover the whole path.
	steps []step
}

func (c confluence) found() bool {
	return c.node >= 0
}

// firstConfluence walks path from start and reports the first confluence
// node. Everything before it can be changed in place; everything from it on
// is shared with other words and has to be copied first.
func (g *Graph) firstConfluence(start int, path []rune) (confluence, error) {
	result := confluence{node: -1, steps: make([]step, 0, len(path))}
	node := start
	for i, ch := range path {
		child, ok := g.getChild(node, ch)
		if !ok {
			return confluence{}, errors.Wrapf(errInvalidPath, "no edge for %q at position %d", ch, i)
		}

		result.steps = append(result.steps, step{node: node, ch: ch})
		if g.nodes[child].incoming > 1 {
			result.node = child
			return result, nil
		}
		node = child
	}

	return result, nil
}

// detach makes the path from start exclusively owned and unregistered, so that
// it can be changed. Nodes before the first confluence node are taken out of
// the register; the confluence node and everything after it is cloned. The
// returned transitions are in path order.
func (g *Graph) detach(start int, path []rune) ([]uncheckedNode, error) {
	c, err := g.firstConfluence(start, path)
	if err != nil {
		return nil, err
	}

	cloneFrom := len(path)
	if c.found() {
		cloneFrom = len(c.steps) - 1
	}

	result := make([]uncheckedNode, 0, len(path))
	node := start
	for i, ch := range path {
		child, _ := g.getChild(node, ch)
		if i >= cloneFrom {
			child = g.clone(node, ch, child)
		} else {
			g.unregister(child)
		}
		result = append(result, uncheckedNode{parent: node, ch: ch, child: child})
		node = child
	}

	return result, nil
}
