package source_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"bennypowers.dev/cssom/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utf16le(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func TestDecodeBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		hint string
		want string
	}{
		{"plain utf-8", []byte("a { content: 'é' }"), "", "a { content: 'é' }"},
		{"utf-8 bom is stripped", append([]byte{0xEF, 0xBB, 0xBF}, "a{}"...), "latin1", "a{}"},
		{"utf-16le bom", utf16le("p { top: 0 }"), "", "p { top: 0 }"},
		{"charset rule", []byte("@charset \"iso-8859-1\"; a { content: '\xe9' }"), "", "@charset \"iso-8859-1\"; a { content: 'é' }"},
		{"charset rule beats hint", []byte("@charset \"iso-8859-1\"; b::after { content: '\xe9' }"), "utf-8", "@charset \"iso-8859-1\"; b::after { content: 'é' }"},
		{"utf-16 charset means utf-8", []byte("@charset \"utf-16\"; a{}"), "", "@charset \"utf-16\"; a{}"},
		{"unknown charset falls back to hint", []byte("@charset \"nope\"; \xe9"), "windows-1252", "@charset \"nope\"; é"},
		{"hint", []byte("\xe9"), "latin1", "é"},
		{"invalid utf-8 becomes replacement", []byte("a\xffb"), "", "a\uFFFDb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := source.DecodeBytes(tt.data, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeUnknownHint(t *testing.T) {
	_, err := source.Decode(strings.NewReader("a{}"), "klingon")
	assert.ErrorContains(t, err, `unknown encoding "klingon"`)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.css")
	require.NoError(t, os.WriteFile(path, []byte("@charset \"latin1\"; i { content: '\xe9' }"), 0o644))

	got, err := source.ReadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "@charset \"latin1\"; i { content: 'é' }", got)

	_, err = source.ReadFile(filepath.Join(dir, "missing.css"), "")
	assert.ErrorContains(t, err, "failed to read")
}

func TestURIs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX-only test")
	}
	tests := []struct {
		path string
		uri  string
	}{
		{"/", "file:///"},
		{"/home/user/styles", "file:///home/user/styles"},
		{"/home/user/my styles/a.css", "file:///home/user/my%20styles/a.css"},
		{"/home/user/文件.css", "file:///home/user/%E6%96%87%E4%BB%B6.css"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.uri, source.PathToURI(tt.path))
			assert.Equal(t, tt.path, source.URIToPath(tt.uri))
		})
	}
	assert.Equal(t, "/tmp/a.css", source.URIToPath("/tmp/a.css"))
	assert.Equal(t, "C:/project", source.URIToPath("file://C:/project"))
}

func TestWindowsURIs(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("Windows-only test")
	}
	assert.Equal(t, "file:///C:/Foo%20Bar/a.css", source.PathToURI(`C:\Foo Bar\a.css`))
	assert.Equal(t, `C:\Foo Bar\a.css`, source.URIToPath("file:///C:/Foo%20Bar/a.css"))
	assert.Equal(t, "file://server/share/a.css", source.PathToURI(`\\server\share\a.css`))
	assert.Equal(t, `\\server\share\a.css`, source.URIToPath("file://server/share/a.css"))
}
