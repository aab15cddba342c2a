// Package outline computes folding ranges for CSS with tree-sitter-css. It
// works on text the cssom parser rejects, so folding survives while the
// user is typing.
package outline

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// FoldKind matches the LSP folding range kinds.
type FoldKind string

const (
	FoldRegion  FoldKind = "region"
	FoldComment FoldKind = "comment"
	FoldImports FoldKind = "imports"
)

// Fold is a foldable line span, 0-based and inclusive.
type Fold struct {
	StartLine int
	EndLine   int
	Kind      FoldKind
}

// Parser wraps a tree-sitter CSS parser.
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close releases the tree-sitter parser.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Folds parses src with a pooled parser.
func Folds(src string) []Fold {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Folds(src)
}

// Folds returns block, comment and import folds in document order.
// A block fold starts on the line of its rule and stops before the line
// of its closing brace, which stays visible.
func (p *Parser) Folds(src string) []Fold {
	tree := p.parser.Parse([]byte(src), nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var folds []Fold
	root := tree.RootNode()
	walk(root, &folds)
	return append(folds, imports(root)...)
}

func walk(node *sitter.Node, folds *[]Fold) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "block", "keyframe_block_list":
		start := int(node.StartPosition().Row)
		if parent := node.Parent(); parent != nil {
			start = int(parent.StartPosition().Row)
		}
		end := int(node.EndPosition().Row) - 1
		if end > start {
			*folds = append(*folds, Fold{StartLine: start, EndLine: end, Kind: FoldRegion})
		}
	case "comment":
		start, end := int(node.StartPosition().Row), int(node.EndPosition().Row)
		if end > start {
			*folds = append(*folds, Fold{StartLine: start, EndLine: end, Kind: FoldComment})
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), folds)
	}
}

// imports folds each run of two or more consecutive top-level @import
// statements.
func imports(root *sitter.Node) []Fold {
	var folds []Fold
	first, last := -1, -1
	flush := func() {
		if first >= 0 && last > first {
			folds = append(folds, Fold{StartLine: first, EndLine: last, Kind: FoldImports})
		}
		first, last = -1, -1
	}
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		switch child.Kind() {
		case "import_statement":
			if first < 0 {
				first = int(child.StartPosition().Row)
			}
			last = int(child.EndPosition().Row)
		case "comment":
		default:
			flush()
		}
	}
	flush()
	return folds
}
