// Package csharp is the reference front end for a C# subset: it parses
// source with tree-sitter into the engine's trivia-preserving syntax tree
// and answers semantic queries from source declarations and a catalog of
// well-known framework types.
package csharp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/alexaandru/go-sitter-forest/c_sharp"

	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Sentinel errors for parsing.
var (
	ErrParse    = errors.New("c# parse error")
	errNoRoot   = errors.New("tree-sitter returned no root node")
	errPoolType = errors.New("unexpected parser pool type")
)

var language = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(c_sharp.GetLanguage())
})

// Parser parses C# source. It is safe for concurrent use.
type Parser struct {
	pool sync.Pool
}

// NewParser returns a Parser.
func NewParser() *Parser {
	p := &Parser{}
	p.pool.New = func() any {
		tsParser := sitter.NewParser()
		tsParser.SetLanguage(language())

		return tsParser
	}

	return p
}

// File is a parsed compilation unit.
type File struct {
	Root   *syntax.Node
	Source string
}

// ParseError reports regions tree-sitter could not parse.
type ParseError struct {
	Spans []syntax.Span
}

func (e *ParseError) Error() string {
	parts := make([]string, 0, len(e.Spans))
	for _, s := range e.Spans {
		parts = append(parts, s.String())
	}

	return fmt.Sprintf("%v at %s", ErrParse, strings.Join(parts, ", "))
}

func (e *ParseError) Unwrap() error { return ErrParse }

// Parse converts src into a syntax tree. The tree always renders back to
// src. When the source has syntax errors the tree is still returned,
// together with a *ParseError.
func (p *Parser) Parse(ctx context.Context, src string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("csharp: parse: %w", err)
	}

	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	content := []byte(src)

	// A context that can be cancelled would leave the cancellation flag set
	// on the pooled parser, so the parse itself never sees ctx.
	tree, err := tsParser.ParseString(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("csharp: parse: %w", err)
	}
	defer tree.Close()

	p.pool.Put(tsParser)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("csharp: parse: %w", err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRoot
	}

	node, errs := convert(root, content)
	file := &File{Root: node, Source: src}

	if len(errs) > 0 {
		return file, &ParseError{Spans: errs}
	}

	return file, nil
}

// Parse parses src with a shared Parser.
func Parse(ctx context.Context, src string) (*File, error) {
	return sharedParser().Parse(ctx, src)
}

var sharedParser = sync.OnceValue(NewParser)
