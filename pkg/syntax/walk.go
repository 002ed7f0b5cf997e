package syntax

// Cursor is a node together with the chain of its ancestors. Trees carry no
// parent pointers, so a cursor is the only way to look upward.
// A cursor handed to a visit callback is only valid during that callback;
// call Clone to keep it.
type Cursor struct {
	nodes []*Node
	index []int
}

// Root returns a cursor positioned at root.
func Root(root *Node) Cursor {
	return Cursor{nodes: []*Node{root}, index: []int{-1}}
}

// Node returns the node under the cursor.
func (c Cursor) Node() *Node {
	if len(c.nodes) == 0 {
		return nil
	}

	return c.nodes[len(c.nodes)-1]
}

// Depth returns the number of ancestors.
func (c Cursor) Depth() int { return len(c.nodes) - 1 }

// Parent returns a cursor at the parent node.
func (c Cursor) Parent() (Cursor, bool) {
	if len(c.nodes) < 2 {
		return Cursor{}, false
	}

	return Cursor{nodes: c.nodes[:len(c.nodes)-1], index: c.index[:len(c.index)-1]}, true
}

// ParentNode returns the parent node, or nil at the root.
func (c Cursor) ParentNode() *Node {
	if len(c.nodes) < 2 {
		return nil
	}

	return c.nodes[len(c.nodes)-2]
}

// Index returns the position of the node in its parent, or -1 at the root.
func (c Cursor) Index() int {
	if len(c.index) == 0 {
		return -1
	}

	return c.index[len(c.index)-1]
}

// Field returns the field label the node occupies in its parent.
func (c Cursor) Field() string {
	p := c.ParentNode()
	if p == nil {
		return ""
	}

	return p.fields[c.Index()]
}

// ChildAt moves the cursor down to child i.
func (c Cursor) ChildAt(i int) Cursor {
	n := c.Node()
	nodes := make([]*Node, len(c.nodes), len(c.nodes)+1)
	copy(nodes, c.nodes)
	index := make([]int, len(c.index), len(c.index)+1)
	copy(index, c.index)

	return Cursor{nodes: append(nodes, n.children[i]), index: append(index, i)}
}

// Enclosing returns a cursor at the nearest ancestor of kind k.
func (c Cursor) Enclosing(k Kind) (Cursor, bool) {
	for i := len(c.nodes) - 2; i >= 0; i-- {
		if c.nodes[i].kind == k {
			return Cursor{nodes: c.nodes[:i+1], index: c.index[:i+1]}, true
		}
	}

	return Cursor{}, false
}

// Clone returns a cursor that stays valid after the visit returns.
func (c Cursor) Clone() Cursor {
	nodes := make([]*Node, len(c.nodes))
	copy(nodes, c.nodes)
	index := make([]int, len(c.index))
	copy(index, c.index)

	return Cursor{nodes: nodes, index: index}
}

// Walk visits root and its descendants in pre-order. visit returns false to
// stop the walk; Walk reports whether every node was visited.
func Walk(root *Node, visit func(c Cursor) bool) bool {
	w := walker{visit: visit}
	w.nodes = append(w.nodes, root)
	w.index = append(w.index, -1)

	return w.walk()
}

type walker struct {
	visit func(c Cursor) bool
	nodes []*Node
	index []int
}

func (w *walker) walk() bool {
	if !w.visit(Cursor{nodes: w.nodes, index: w.index}) {
		return false
	}

	n := w.nodes[len(w.nodes)-1]

	for i, c := range n.children {
		w.nodes = append(w.nodes, c)
		w.index = append(w.index, i)

		ok := w.walk()

		w.nodes = w.nodes[:len(w.nodes)-1]
		w.index = w.index[:len(w.index)-1]

		if !ok {
			return false
		}
	}

	return true
}

// Inspect visits every node of root in pre-order; returning false from f
// skips the node's children.
func Inspect(root *Node, f func(n *Node) bool) {
	if !f(root) {
		return
	}

	for _, c := range root.children {
		Inspect(c, f)
	}
}

// Find returns the first node in pre-order for which f is true.
func Find(root *Node, f func(n *Node) bool) *Node {
	var found *Node

	Walk(root, func(c Cursor) bool {
		if f(c.Node()) {
			found = c.Node()

			return false
		}

		return true
	})

	return found
}

// CursorTo returns a cursor positioned at target within root.
func CursorTo(root, target *Node) (Cursor, bool) {
	path := PathTo(root, target)
	if path == nil {
		return Cursor{}, false
	}

	c := Cursor{nodes: path, index: make([]int, len(path))}
	c.index[0] = -1

	for i := 1; i < len(path); i++ {
		for j, ch := range path[i-1].children {
			if ch == path[i] {
				c.index[i] = j

				break
			}
		}
	}

	return c, true
}
