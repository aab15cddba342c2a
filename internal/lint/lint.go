// Package lint runs the CSS parser over a document, or over the CSS
// embedded in HTML and JS/TS, and reports diagnostics and colors in host
// document coordinates.
package lint

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/cssom/cssom"
	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/embedded"
	"bennypowers.dev/cssom/internal/embedded/html"
	"bennypowers.dev/cssom/internal/embedded/js"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/parser"
	"github.com/mazznoer/csscolorparser"
	"go.uber.org/zap"
)

// Finding is one diagnostic. Line and Column are 0-based; Column counts
// code points.
type Finding struct {
	Line     int
	Column   int
	Severity diag.Severity
	Kind     diag.Kind
	Message  string
}

// Color is a color literal spanning [Column, EndColumn) of Line.
type Color struct {
	Line      int
	Column    int
	EndColumn int
	Color     csscolorparser.Color
}

// Result is everything Analyze learns about a document.
type Result struct {
	Findings []Finding
	Colors   []Color
}

// LanguageID maps a file name to the LSP language identifier Analyze
// understands, or "" for files it does not handle.
func LanguageID(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "css"
	case ".html", ".htm":
		return "html"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "javascriptreact"
	case ".ts", ".mts", ".cts":
		return "typescript"
	case ".tsx":
		return "typescriptreact"
	}
	return ""
}

// Regions splits content into the CSS regions of its language. A CSS
// document is a single region.
func Regions(languageID, content string) []embedded.Region {
	switch languageID {
	case "html":
		return html.Extract(content)
	case "javascript", "javascriptreact", "typescript", "typescriptreact":
		return js.Extract(content)
	}
	return []embedded.Region{{Content: content}}
}

// newParser returns a parser reporting to c, with every event also traced
// to the debug log.
func newParser(c *diag.Collector, cfg config.Config) *parser.Parser {
	h := diag.Multi{c, diag.NewTraceHandler(log.Logger().Named("lint"))}
	return parser.New(h, cfg.ParserOptions(log.Logger()))
}

// Analyze parses every region of content.
func Analyze(uri, languageID, content string, cfg config.Config) *Result {
	res := &Result{}
	for _, region := range Regions(languageID, content) {
		c := diag.NewCollector()
		p := newParser(c, cfg)
		var decls []*cssom.StyleDeclaration
		if region.Kind == embedded.StyleAttribute {
			decls = append(decls, p.ParseStyleDeclaration(region.Content))
		} else {
			decls = Declarations(p.ParseStyleSheet(region.Content, uri))
		}
		for _, e := range c.Events() {
			line, col := region.Map(e.Locator.Line, e.Locator.Column)
			res.Findings = append(res.Findings, Finding{
				Line:     line,
				Column:   col,
				Severity: e.Severity,
				Kind:     e.Kind,
				Message:  e.Message,
			})
		}
		res.Colors = append(res.Colors, colors(content, region, decls)...)
	}
	log.Logger().Debug("analyzed document",
		zap.String("uri", uri),
		zap.String("language", languageID),
		zap.Int("findings", len(res.Findings)),
		zap.Int("colors", len(res.Colors)))
	return res
}

// Document returns the diagnostics of content.
func Document(uri, languageID, content string, cfg config.Config) []Finding {
	return Analyze(uri, languageID, content, cfg).Findings
}

// Format returns the canonical text of a CSS document. ok is false, and
// the text empty, when the parse reported errors, since formatting would
// drop the malformed parts.
func Format(content string, cfg config.Config) (text string, ok bool) {
	c := diag.NewCollector()
	sheet := newParser(c, cfg).ParseStyleSheet(content, "")
	if c.HasErrors() {
		return "", false
	}
	text = sheet.Render(cfg.Format())
	if text != "" {
		text += "\n"
	}
	return text, true
}

// Declarations returns the declaration blocks of sheet in document order,
// including those nested in @media, @page, @font-face and @keyframes.
func Declarations(sheet *cssom.StyleSheet) []*cssom.StyleDeclaration {
	var out []*cssom.StyleDeclaration
	var walk func(rules []cssom.Rule)
	walk = func(rules []cssom.Rule) {
		for _, r := range rules {
			switch r := r.(type) {
			case *cssom.StyleRule:
				out = append(out, r.Style)
			case *cssom.MediaRule:
				walk(r.CSSRules().Rules())
			case *cssom.PageRule:
				out = append(out, r.Style)
			case *cssom.FontFaceRule:
				out = append(out, r.Style)
			case *cssom.KeyframesRule:
				for _, k := range r.Keyframes() {
					out = append(out, k.Style)
				}
			}
		}
	}
	walk(sheet.CSSRules().Rules())
	return out
}
