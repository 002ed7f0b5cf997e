package syntax

// ReplaceTokens returns n with every token found in repl swapped for its
// replacement. Subtrees without replaced tokens are shared, not copied.
func ReplaceTokens(n *Node, repl map[*Node]*Node) *Node {
	if len(repl) == 0 {
		return n
	}

	out, _ := replaceTokens(n, repl)

	return out
}

func replaceTokens(n *Node, repl map[*Node]*Node) (*Node, bool) {
	if n.kind == KindToken {
		if r, ok := repl[n]; ok {
			return r, true
		}

		return n, false
	}

	var children []*Node

	for i, c := range n.children {
		nc, changed := replaceTokens(c, repl)
		if !changed {
			continue
		}

		if children == nil {
			children = make([]*Node, len(n.children))
			copy(children, n.children)
		}

		children[i] = nc
	}

	if children == nil {
		return n, false
	}

	return n.withChildren(children), true
}

func (n *Node) withChildren(children []*Node) *Node {
	cp := &Node{kind: n.kind, grammar: n.grammar, pos: -1, children: children, fields: n.fields}
	cp.linkEnds()

	return cp
}

// PathTo returns the chain of nodes from root down to target, both
// included, or nil when target is not part of root.
func PathTo(root, target *Node) []*Node {
	if root == target {
		return []*Node{root}
	}

	// Offsets prune the search when both nodes carry positions.
	ts := target.Span()

	var path []*Node

	var find func(n *Node) bool

	find = func(n *Node) bool {
		path = append(path, n)

		if n == target {
			return true
		}

		if ns := n.FullSpan(); ts.IsValid() && ns.IsValid() && !ns.Contains(ts) {
			path = path[:len(path)-1]

			return false
		}

		for _, c := range n.children {
			if find(c) {
				return true
			}
		}

		path = path[:len(path)-1]

		return false
	}

	if !find(root) {
		return nil
	}

	return path
}

// ReplaceNode returns a copy of root in which target is swapped for repl,
// sharing every subtree off the path. It reports false if target is absent.
func ReplaceNode(root, target, repl *Node) (*Node, bool) {
	path := PathTo(root, target)
	if path == nil {
		return root, false
	}

	cur := repl

	for i := len(path) - 2; i >= 0; i-- {
		parent := path[i]
		children := make([]*Node, len(parent.children))
		copy(children, parent.children)

		for j, c := range children {
			if c == path[i+1] {
				children[j] = cur

				break
			}
		}

		cur = parent.withChildren(children)
	}

	return cur, true
}
