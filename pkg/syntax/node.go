package syntax

import (
	"strings"
)

// Node is an immutable tree node. Tokens are leaves of KindToken carrying
// their text and the trivia they own; every other node is composite.
// Nodes are shared between trees, so a node never knows its parent.
type Node struct {
	kind    Kind
	grammar string

	// Token state.
	text     string
	leading  TriviaList
	trailing TriviaList
	pos      int

	// Composite state.
	children []*Node
	fields   []string
	first    *Node
	last     *Node
}

// Child pairs a node with the field label it occupies in its parent.
type Child struct {
	Field string
	Node  *Node
}

// NewToken creates a synthesized token with no position in the original text.
func NewToken(text string, leading, trailing TriviaList) *Node {
	return &Node{kind: KindToken, text: text, leading: leading, trailing: trailing, pos: -1}
}

// NewSourceToken creates a token parsed at byte offset pos. grammar records
// the front end's name for it and is informational only.
func NewSourceToken(grammar, text string, pos int, leading, trailing TriviaList) *Node {
	return &Node{kind: KindToken, grammar: grammar, text: text, leading: leading, trailing: trailing, pos: pos}
}

// NewNode creates a composite node. Nil children are skipped.
func NewNode(kind Kind, children ...Child) *Node {
	return NewGrammarNode(kind, "", children...)
}

// NewGrammarNode is NewNode with the front end's name for the node recorded.
func NewGrammarNode(kind Kind, grammar string, children ...Child) *Node {
	n := &Node{kind: kind, grammar: grammar, pos: -1}
	n.children = make([]*Node, 0, len(children))
	n.fields = make([]string, 0, len(children))

	for _, c := range children {
		if c.Node == nil {
			continue
		}

		n.children = append(n.children, c.Node)
		n.fields = append(n.fields, c.Field)
	}

	n.linkEnds()

	return n
}

func (n *Node) linkEnds() {
	for _, c := range n.children {
		if f := c.FirstToken(); f != nil {
			n.first = f

			break
		}
	}

	for i := len(n.children) - 1; i >= 0; i-- {
		if l := n.children[i].LastToken(); l != nil {
			n.last = l

			break
		}
	}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Grammar returns the front end's name for the node, if recorded.
func (n *Node) Grammar() string { return n.grammar }

// IsToken reports whether n is a leaf token.
func (n *Node) IsToken() bool { return n.kind == KindToken }

// Is reports whether n is non-nil and of kind k.
func (n *Node) Is(k Kind) bool { return n != nil && n.kind == k }

// Children returns the child nodes. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// FieldAt returns the field label of the i-th child, or "".
func (n *Node) FieldAt(i int) string { return n.fields[i] }

// Field returns the first child labelled name, or nil.
func (n *Node) Field(name string) *Node {
	for i, f := range n.fields {
		if f == name {
			return n.children[i]
		}
	}

	return nil
}

// ChildrenOf returns the children of kind k in order.
func (n *Node) ChildrenOf(k Kind) []*Node {
	var out []*Node

	for _, c := range n.children {
		if c.kind == k {
			out = append(out, c)
		}
	}

	return out
}

// TokenChild returns the first direct token child whose text is text, or nil.
func (n *Node) TokenChild(text string) *Node {
	for _, c := range n.children {
		if c.kind == KindToken && c.text == text {
			return c
		}
	}

	return nil
}

// FirstToken returns the leftmost token of n, or nil for an empty node.
func (n *Node) FirstToken() *Node {
	if n.kind == KindToken {
		return n
	}

	return n.first
}

// LastToken returns the rightmost token of n, or nil for an empty node.
func (n *Node) LastToken() *Node {
	if n.kind == KindToken {
		return n
	}

	return n.last
}

// Tokens returns every token of n in document order.
func (n *Node) Tokens() []*Node {
	var out []*Node

	n.appendTokens(&out)

	return out
}

func (n *Node) appendTokens(out *[]*Node) {
	if n.kind == KindToken {
		*out = append(*out, n)

		return
	}

	for _, c := range n.children {
		c.appendTokens(out)
	}
}

// TokenText returns the text of a token, or "" for composite nodes.
func (n *Node) TokenText() string { return n.text }

// Pos returns a token's byte offset in the original text, or -1.
func (n *Node) Pos() int {
	if f := n.FirstToken(); f != nil {
		return f.pos
	}

	return -1
}

// LeadingTrivia returns the leading trivia of the first token.
func (n *Node) LeadingTrivia() TriviaList {
	if f := n.FirstToken(); f != nil {
		return f.leading
	}

	return nil
}

// TrailingTrivia returns the trailing trivia of the last token.
func (n *Node) TrailingTrivia() TriviaList {
	if l := n.LastToken(); l != nil {
		return l.trailing
	}

	return nil
}

// Span returns the node's range in the original text without outer trivia.
// Nodes whose boundary tokens were synthesized report NoSpan.
func (n *Node) Span() Span {
	f, l := n.FirstToken(), n.LastToken()
	if f == nil || f.pos < 0 || l.pos < 0 {
		return NoSpan
	}

	return SpanOf(f.pos, l.pos+len(l.text))
}

// FullSpan returns the node's range including outer trivia.
func (n *Node) FullSpan() Span {
	s := n.Span()
	if !s.IsValid() {
		return s
	}

	lead := len(n.LeadingTrivia().String())
	trail := len(n.TrailingTrivia().String())

	return SpanOf(s.Start-lead, s.End()+trail)
}

// String renders the node with all of its trivia.
func (n *Node) String() string {
	var sb strings.Builder

	n.WriteTo(&sb)

	return sb.String()
}

// Text renders the node without its outer leading and trailing trivia.
func (n *Node) Text() string {
	f, l := n.FirstToken(), n.LastToken()
	if f == nil {
		return ""
	}

	if f == l {
		return f.text
	}

	var sb strings.Builder

	n.render(&sb, f, l)

	return sb.String()
}

// WriteTo renders n into sb.
func (n *Node) WriteTo(sb *strings.Builder) {
	n.render(sb, nil, nil)
}

func (n *Node) render(sb *strings.Builder, skipLead, skipTrail *Node) {
	if n.kind == KindToken {
		if n != skipLead {
			for _, t := range n.leading {
				sb.WriteString(t.Text)
			}
		}

		sb.WriteString(n.text)

		if n != skipTrail {
			for _, t := range n.trailing {
				sb.WriteString(t.Text)
			}
		}

		return
	}

	for _, c := range n.children {
		c.render(sb, skipLead, skipTrail)
	}
}

// WithTokenTrivia returns a copy of token n with new trivia.
func (n *Node) WithTokenTrivia(leading, trailing TriviaList) *Node {
	cp := *n
	cp.leading = leading
	cp.trailing = trailing

	return &cp
}

// WithLeadingTrivia returns n with its first token's leading trivia replaced.
func (n *Node) WithLeadingTrivia(leading TriviaList) *Node {
	f := n.FirstToken()
	if f == nil {
		return n
	}

	return ReplaceTokens(n, map[*Node]*Node{f: f.WithTokenTrivia(leading, f.trailing)})
}

// WithTrailingTrivia returns n with its last token's trailing trivia replaced.
func (n *Node) WithTrailingTrivia(trailing TriviaList) *Node {
	l := n.LastToken()
	if l == nil {
		return n
	}

	return ReplaceTokens(n, map[*Node]*Node{l: l.WithTokenTrivia(l.leading, trailing)})
}

// WithoutTrivia strips the outer trivia of n.
func (n *Node) WithoutTrivia() *Node {
	return n.WithLeadingTrivia(nil).WithTrailingTrivia(nil)
}
