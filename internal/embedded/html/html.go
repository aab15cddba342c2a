// Package html finds CSS in HTML documents: <style> element bodies and
// style attribute values.
package html

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/cssom/internal/embedded"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser extracts CSS regions from HTML.
type Parser struct {
	parser     *sitter.Parser
	styleQuery *sitter.Query
	attrQuery  *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		styleQuery, qerr := sitter.NewQuery(htmlLang, `(style_element (raw_text) @css)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile style query: %v", qerr))
		}

		attrQuery, qerr := sitter.NewQuery(htmlLang, `
			(attribute
				(attribute_name) @name
				[
					(attribute_value) @value
					(quoted_attribute_value (attribute_value) @value)
				])
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile attribute query: %v", qerr))
		}

		return &Parser{
			parser:     parser,
			styleQuery: styleQuery,
			attrQuery:  attrQuery,
		}
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

// Close releases the tree-sitter resources held by p.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.styleQuery != nil {
		p.styleQuery.Close()
	}
	if p.attrQuery != nil {
		p.attrQuery.Close()
	}
}

// Extract parses src with a pooled parser.
func Extract(src string) []embedded.Region {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Regions(src)
}

// Regions returns the CSS regions of src in document order.
func (p *Parser) Regions(src string) []embedded.Region {
	sourceBytes := []byte(src)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()
	root := tree.RootNode()

	type found struct {
		off    uint
		region embedded.Region
	}
	var all []found

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(p.styleQuery, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			start, end := node.StartByte(), node.EndByte()
			all = append(all, found{start, embedded.At(src, int(start), src[start:end], embedded.StyleElement)})
		}
	}

	attrCursor := sitter.NewQueryCursor()
	defer attrCursor.Close()
	names := p.attrQuery.CaptureNames()
	attrMatches := attrCursor.Matches(p.attrQuery, root, sourceBytes)
	for match := attrMatches.Next(); match != nil; match = attrMatches.Next() {
		var isStyle bool
		var value *sitter.Node
		for i := range match.Captures {
			capture := &match.Captures[i]
			switch names[capture.Index] {
			case "name":
				isStyle = strings.EqualFold(capture.Node.Utf8Text(sourceBytes), "style")
			case "value":
				value = &capture.Node
			}
		}
		if !isStyle || value == nil {
			continue
		}
		start, end := value.StartByte(), value.EndByte()
		all = append(all, found{start, embedded.At(src, int(start), src[start:end], embedded.StyleAttribute)})
	}

	slices.SortFunc(all, func(a, b found) int { return cmp.Compare(a.off, b.off) })
	regions := make([]embedded.Region, len(all))
	for i, f := range all {
		regions[i] = f.region
	}
	return regions
}
