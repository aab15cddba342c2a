// Package js finds CSS in css`...` tagged templates of JavaScript and
// TypeScript sources, and in the <style> elements of html`...` templates.
package js

import (
	"fmt"
	"sync"

	"bennypowers.dev/cssom/internal/embedded"
	"bennypowers.dev/cssom/internal/embedded/html"
	"bennypowers.dev/cssom/internal/log"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser extracts CSS regions from JS/TS.
type Parser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
	genericQuery  *sitter.Query // css<Type>`...`, which the grammar reads as binary expressions
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		templateQuery, qerr := sitter.NewQuery(jsLang, `
			(call_expression
				function: (identifier) @tag
				arguments: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile template query: %v", qerr))
		}

		genericQuery, qerr := sitter.NewQuery(jsLang, `
			(binary_expression
				left: (binary_expression
					left: (identifier) @tag)
				right: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile generic query: %v", qerr))
		}

		return &Parser{
			parser:        parser,
			templateQuery: templateQuery,
			genericQuery:  genericQuery,
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
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
	if p.genericQuery != nil {
		p.genericQuery.Close()
	}
}

// Extract parses src with a pooled parser.
func Extract(src string) []embedded.Region {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Regions(src)
}

// Regions returns the CSS of every css template and of the <style>
// elements and style attributes of every html template. Templates with
// ${} substitutions are skipped: their text is not CSS until rendered.
func (p *Parser) Regions(src string) []embedded.Region {
	sourceBytes := []byte(src)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()
	root := tree.RootNode()

	var regions []embedded.Region
	for _, query := range []*sitter.Query{p.templateQuery, p.genericQuery} {
		regions = p.runTemplateQuery(query, root, src, regions)
	}
	return regions
}

func (p *Parser) runTemplateQuery(query *sitter.Query, root *sitter.Node, src string, regions []embedded.Region) []embedded.Region {
	sourceBytes := []byte(src)
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	matches := cursor.Matches(query, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tag string
		var template *sitter.Node
		for i := range match.Captures {
			capture := &match.Captures[i]
			switch names[capture.Index] {
			case "tag":
				tag = capture.Node.Utf8Text(sourceBytes)
			case "template":
				template = &capture.Node
			}
		}
		if template == nil || tag != "css" && tag != "html" {
			continue
		}
		if hasSubstitution(template) {
			log.Debug("Skipping %s template with substitutions at line %d", tag, template.StartPosition().Row+1)
			continue
		}
		start, end := int(template.StartByte())+1, int(template.EndByte())-1
		if end < start {
			continue
		}
		body := embedded.At(src, start, src[start:end], embedded.Template)
		switch tag {
		case "css":
			regions = append(regions, body)
		case "html":
			for _, r := range html.Extract(body.Content) {
				regions = append(regions, r.Shift(body))
			}
		}
	}
	return regions
}

func hasSubstitution(template *sitter.Node) bool {
	for i := uint(0); i < template.ChildCount(); i++ {
		if template.Child(i).Kind() == "template_substitution" {
			return true
		}
	}
	return false
}
