package csharp

import (
	"context"

	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Load parses src and builds its model. Source with syntax errors still
// yields the file and its model, together with a *ParseError.
func Load(ctx context.Context, src string) (*File, *Model, error) {
	file, err := Parse(ctx, src)
	if file == nil {
		return nil, nil, err
	}

	model, modelErr := NewModel(file.Root, nil)
	if modelErr != nil {
		return nil, nil, modelErr
	}

	return file, model, err
}

// ParseTree parses src and returns only the root.
func ParseTree(ctx context.Context, src string) (*syntax.Node, error) {
	file, err := Parse(ctx, src)
	if file == nil {
		return nil, err
	}

	return file.Root, err
}

// Facts builds the default-catalog model for root.
func Facts(root *syntax.Node) (semantic.Provider, error) {
	m, err := NewModel(root, nil)
	if err != nil {
		return nil, err
	}

	return m, nil
}
