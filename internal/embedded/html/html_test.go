package html_test

import (
	"os"
	"testing"

	"bennypowers.dev/cssom/internal/embedded"
	"bennypowers.dev/cssom/internal/embedded/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	source, err := os.ReadFile("testdata/page.html")
	require.NoError(t, err)

	regions := html.Extract(string(source))
	require.Len(t, regions, 4)

	assert.Equal(t, embedded.StyleElement, regions[0].Kind)
	assert.Contains(t, regions[0].Content, "body { margin: 0 }")
	assert.Equal(t, 3, regions[0].StartLine, "raw text starts right after <style>")
	assert.Equal(t, 11, regions[0].StartCol)

	assert.Equal(t, embedded.StyleAttribute, regions[1].Kind)
	assert.Equal(t, "background: white", regions[1].Content)
	assert.Equal(t, 8, regions[1].StartLine)
	assert.Equal(t, 15, regions[1].StartCol)

	assert.Equal(t, embedded.StyleAttribute, regions[2].Kind)
	assert.Equal(t, "color: red; top: 0", regions[2].Content)
	assert.Equal(t, 9, regions[2].StartLine)

	assert.Equal(t, embedded.StyleElement, regions[3].Kind)
	assert.Equal(t, "h1{color:blue}", regions[3].Content)
	assert.Equal(t, 11, regions[3].StartLine)
	assert.Equal(t, 11, regions[3].StartCol)
}

func TestExtractNoCSS(t *testing.T) {
	assert.Empty(t, html.Extract(`<p class="a" title="style">x</p>`))
	assert.Empty(t, html.Extract(""))
}

func TestParserReuse(t *testing.T) {
	p := html.AcquireParser()
	defer html.ReleaseParser(p)
	for range 3 {
		regions := p.Regions(`<div style="top: 0"></div>`)
		require.Len(t, regions, 1)
		assert.Equal(t, 12, regions[0].StartCol)
	}
}
