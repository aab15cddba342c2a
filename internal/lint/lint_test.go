package lint_test

import (
	"testing"

	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/lint"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLanguageID(t *testing.T) {
	tests := map[string]string{
		"a.css":          "css",
		"index.HTML":     "html",
		"el.ts":          "typescript",
		"el.tsx":         "typescriptreact",
		"el.mjs":         "javascript",
		"README.md":      "",
		"styles.min.css": "css",
	}
	for path, want := range tests {
		assert.Equal(t, want, lint.LanguageID(path), path)
	}
}

func TestDocumentCSS(t *testing.T) {
	findings := lint.Document("file:///a.css", "css", "a { color: red }\nb { top: }\n", config.DefaultConfig())
	require.NotEmpty(t, findings)
	f := findings[0]
	assert.Equal(t, 1, f.Line)
	assert.Equal(t, diag.SeverityError, f.Severity)
	assert.Contains(t, f.Message, `"top"`)

	assert.Empty(t, lint.Document("file:///b.css", "css", "a { color: red }", config.DefaultConfig()))
}

func TestDocumentStarHack(t *testing.T) {
	src := "a { *zoom: 1 }"
	assert.NotEmpty(t, lint.Document("", "css", src, config.DefaultConfig()))

	cfg := config.DefaultConfig()
	cfg.Parser.AllowStarHack = true
	assert.Empty(t, lint.Document("", "css", src, cfg))
}

func TestDocumentHTML(t *testing.T) {
	src := "<html>\n  <style>\n    a { color: }\n  </style>\n  <p style=\"top: 0; left\">x</p>\n</html>\n"
	findings := lint.Document("file:///index.html", "html", src, config.DefaultConfig())
	require.Len(t, findings, 2)
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, 4, findings[1].Line)
	assert.GreaterOrEqual(t, findings[1].Column, len(`  <p style="`))
}

func TestColors(t *testing.T) {
	src := "a {\n  color: #ccc;\n  background: rgb(1, 2, 3) url(x.png);\n  border: 1px solid rebeccapurple;\n}\n"
	res := lint.Analyze("file:///a.css", "css", src, config.DefaultConfig())
	require.Len(t, res.Colors, 3)

	hex := res.Colors[0]
	assert.Equal(t, []int{1, 9, 13}, []int{hex.Line, hex.Column, hex.EndColumn})
	assert.InDelta(t, 0.8, hex.Color.R, 0.001)

	rgb := res.Colors[1]
	assert.Equal(t, []int{2, 14, 26}, []int{rgb.Line, rgb.Column, rgb.EndColumn})

	named := res.Colors[2]
	assert.Equal(t, []int{3, 20, 33}, []int{named.Line, named.Column, named.EndColumn})
	assert.Equal(t, "#663399", named.Color.HexString())
}

func TestColorsInAttributes(t *testing.T) {
	res := lint.Analyze("", "html", `<p style="color: blue">x</p>`, config.DefaultConfig())
	require.Len(t, res.Colors, 1)
	c := res.Colors[0]
	assert.Equal(t, []int{0, 17, 21}, []int{c.Line, c.Column, c.EndColumn})
}

func TestColorsSkipVariables(t *testing.T) {
	res := lint.Analyze("", "css", "a { color: rgb(var(--r), 0, 0); background: linear-gradient(red, blue) }", config.DefaultConfig())
	require.Len(t, res.Colors, 2)
	assert.Equal(t, "#ff0000", res.Colors[0].Color.HexString())
	assert.Equal(t, "#0000ff", res.Colors[1].Color.HexString())
}

func TestFormat(t *testing.T) {
	out, ok := lint.Format("a{color:#ccc}\n@media print{b{top:0}}", config.DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "a { color: rgb(204, 204, 204) }\n@media print {\n  b { top: 0 }\n}\n", out)

	cfg := config.DefaultConfig()
	cfg.Formatting.RGBAsHex = true
	out, ok = lint.Format("a{color:#ccc}", cfg)
	require.True(t, ok)
	assert.Equal(t, "a { color: #cccccc }\n", out)

	_, ok = lint.Format("a { color: }", config.DefaultConfig())
	assert.False(t, ok)

	out, ok = lint.Format("", config.DefaultConfig())
	assert.True(t, ok)
	assert.Empty(t, out)
}

func TestDeclarations(t *testing.T) {
	src := `a { top: 0 }
@media print { b { left: 0 } }
@page { margin: 0 }
@font-face { font-family: x }
@keyframes k { from { opacity: 0 } to { opacity: 1 } }
@import "x.css";`
	sheet := parser.New(nil, nil).ParseStyleSheet(src, "")
	decls := lint.Declarations(sheet)
	require.Len(t, decls, 6)
	assert.Equal(t, "top: 0", decls[0].CSSText())
	assert.Equal(t, "left: 0", decls[1].CSSText())
	assert.Equal(t, "opacity: 1", decls[5].CSSText())
}

func TestEventsAreTraced(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	previous := log.Logger()
	log.SetLogger(zap.New(core))
	t.Cleanup(func() { log.SetLogger(previous) })

	findings := lint.Document("file:///a.css", "css", "b { top: }\n", config.DefaultConfig())
	require.Len(t, findings, 1)

	traced := logs.FilterLoggerName("lint.css").All()
	require.Len(t, traced, 1)
	assert.Equal(t, zapcore.DebugLevel, traced[0].Level)
	assert.Equal(t, findings[0].Message, traced[0].Message)
	assert.Equal(t, "error", traced[0].ContextMap()["severity"])
	assert.Equal(t, "file:///a.css", traced[0].ContextMap()["uri"])

	logs.TakeAll()
	_, ok := lint.Format("a { color: }", config.DefaultConfig())
	assert.False(t, ok)
	assert.NotZero(t, logs.FilterLoggerName("lint.css").Len())
}
