package csharp

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

const (
	grammarComment = "comment"
	grammarError   = "ERROR"
	grammarEOF     = "end_of_file"
)

type nodeKey struct {
	start, end uint
	grammar    string
}

// converter turns a tree-sitter tree into a syntax tree. Comments and
// whitespace between tokens become trivia; every other byte of the source
// belongs to exactly one token, so rendering the result reproduces it.
type converter struct {
	src      []byte
	leading  []syntax.TriviaList
	trailing []syntax.TriviaList
	next     int
	errors   []syntax.Span
}

type leafRange struct{ start, end int }

func convert(root sitter.Node, src []byte) (*syntax.Node, []syntax.Span) {
	c := &converter{src: src}

	var leaves []leafRange

	collectLeaves(root, &leaves)
	c.distributeTrivia(leaves)

	top := c.build(root)

	eof := syntax.NewSourceToken(grammarEOF, "", len(src), c.leading[len(leaves)], nil)
	if top == nil {
		return syntax.NewGrammarNode(syntax.KindCompilationUnit, root.Type(), syntax.Child{Node: eof}), c.errors
	}

	children := make([]syntax.Child, 0, top.ChildCount()+1)
	for i, ch := range top.Children() {
		children = append(children, syntax.Child{Field: top.FieldAt(i), Node: ch})
	}

	children = append(children, syntax.Child{Node: eof})

	return syntax.NewGrammarNode(syntax.KindCompilationUnit, top.Grammar(), children...), c.errors
}

func isLeaf(n sitter.Node) bool {
	return n.ChildCount() == 0 || literalTypes[n.Type()]
}

// bytesOf returns the byte range of n. Offsets index src, so they fit in int.
func bytesOf(n sitter.Node) (int, int) {
	return int(n.StartByte()), int(n.EndByte()) //nolint:gosec // bounded by len(src).
}

func collectLeaves(n sitter.Node, out *[]leafRange) {
	if n.Type() == grammarComment {
		return
	}

	if isLeaf(n) {
		if start, end := bytesOf(n); end > start {
			*out = append(*out, leafRange{start, end})
		}

		return
	}

	for i := range n.ChildCount() {
		collectLeaves(n.Child(i), out)
	}
}

// distributeTrivia splits every inter-token gap: up to and including the
// first line break it trails the earlier token, the rest leads the next.
// Index len(leaves) is the end-of-file token.
func (c *converter) distributeTrivia(leaves []leafRange) {
	c.leading = make([]syntax.TriviaList, len(leaves)+1)
	c.trailing = make([]syntax.TriviaList, len(leaves)+1)

	prev := 0

	for i := 0; i <= len(leaves); i++ {
		end := len(c.src)
		if i < len(leaves) {
			end = leaves[i].start
		}

		gap := syntax.LexTrivia(string(c.src[prev:end]))

		if i == 0 {
			c.leading[0] = gap
		} else {
			c.trailing[i-1], c.leading[i] = syntax.SplitGap(gap)
		}

		if i < len(leaves) {
			prev = leaves[i].end
		}
	}
}

func (c *converter) build(n sitter.Node) *syntax.Node {
	grammar := n.Type()
	if grammar == grammarComment {
		return nil
	}

	start, end := bytesOf(n)

	if grammar == grammarError {
		c.errors = append(c.errors, syntax.SpanOf(start, end))
	}

	if isLeaf(n) {
		if end <= start {
			return nil
		}

		i := c.next
		c.next++

		tok := syntax.NewSourceToken(grammar, string(c.src[start:end]), start, c.leading[i], c.trailing[i])
		if !n.IsNamed() {
			return tok
		}

		return syntax.NewGrammarNode(kindOf(grammar), grammar, syntax.Child{Node: tok})
	}

	fields := fieldsOf(n)
	children := make([]syntax.Child, 0, n.ChildCount())

	for i := range n.ChildCount() {
		child := n.Child(i)

		built := c.build(child)
		if built == nil {
			continue
		}

		children = append(children, syntax.Child{Field: fields[keyOf(child)], Node: built})
	}

	if len(children) == 0 {
		return nil
	}

	k := kindOf(grammar)
	labelChildren(k, children)

	return syntax.NewGrammarNode(k, grammar, children...)
}

func keyOf(n sitter.Node) nodeKey {
	return nodeKey{start: n.StartByte(), end: n.EndByte(), grammar: n.Type()}
}

// fieldsOf maps the field-labelled children of n to their labels.
func fieldsOf(n sitter.Node) map[nodeKey]string {
	var out map[nodeKey]string

	for _, name := range grammarFields {
		f := n.ChildByFieldName(name)
		if f.IsNull() {
			continue
		}

		if out == nil {
			out = make(map[nodeKey]string, 4)
		}

		if alias, ok := fieldAliases[name]; ok {
			name = alias
		}

		out[keyOf(f)] = name
	}

	return out
}
