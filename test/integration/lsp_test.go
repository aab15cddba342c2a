package integration_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	waitFor = 5 * time.Second
	tick    = 50 * time.Millisecond
)

func TestPullDiagnostics(t *testing.T) {
	dir := t.TempDir()
	client := NewLSPClient(t)
	capabilities, err := client.Initialize("file://"+dir, true)
	require.NoError(t, err)
	assert.Contains(t, capabilities, "diagnosticProvider")
	assert.Equal(t, true, capabilities["documentFormattingProvider"])

	uri := "file://" + filepath.Join(dir, "a.css")
	client.DidOpen(uri, "css", "a { color: red }\nb { top: }\n")

	assert.Eventually(t, func() bool {
		report, err := client.Diagnostic(uri)
		return err == nil && report.Kind == "full" && len(report.Items) == 1 &&
			report.Items[0].Range.Start.Line == 1
	}, waitFor, tick)

	client.DidChange(uri, "a { color: red }\n", 2)
	assert.Eventually(t, func() bool {
		report, err := client.Diagnostic(uri)
		return err == nil && len(report.Items) == 0
	}, waitFor, tick)
}

func TestConfigurationChange(t *testing.T) {
	dir := t.TempDir()
	client := NewLSPClient(t)
	_, err := client.Initialize("file://"+dir, true)
	require.NoError(t, err)

	uri := "file://" + filepath.Join(dir, "hack.css")
	client.DidOpen(uri, "css", "a { *zoom: 1 }\n")
	assert.Eventually(t, func() bool {
		report, err := client.Diagnostic(uri)
		return err == nil && len(report.Items) > 0
	}, waitFor, tick)

	client.DidChangeConfiguration(map[string]any{
		"cssom": map[string]any{"parser": map[string]any{"allowStarHack": true}},
	})
	assert.Eventually(t, func() bool {
		report, err := client.Diagnostic(uri)
		return err == nil && len(report.Items) == 0
	}, waitFor, tick)
}

func TestPushDiagnostics(t *testing.T) {
	dir := t.TempDir()
	client := NewLSPClient(t)
	capabilities, err := client.Initialize("file://"+dir, false)
	require.NoError(t, err)
	assert.NotContains(t, capabilities, "diagnosticProvider")

	uri := "file://" + filepath.Join(dir, "a.css")
	client.DidOpen(uri, "css", "b { top: }\n")
	assert.Eventually(t, func() bool {
		diags, ok := client.Published(uri)
		return ok && len(diags) == 1
	}, waitFor, tick)

	diags, _ := client.Published(uri)
	require.NotNil(t, diags[0].Source)
	assert.Equal(t, "cssom", *diags[0].Source)
	require.NotNil(t, diags[0].Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
}

func TestEditorFeatures(t *testing.T) {
	dir := t.TempDir()
	client := NewLSPClient(t)
	_, err := client.Initialize("file://"+dir, true)
	require.NoError(t, err)

	uri := "file://" + filepath.Join(dir, "a.css")
	client.DidOpen(uri, "css", "a{color:#ccc}\n@media print{b{top:0}}")

	var edits []protocol.TextEdit
	require.Eventually(t, func() bool {
		edits, err = client.Formatting(uri)
		return err == nil && len(edits) == 1
	}, waitFor, tick)
	assert.Equal(t, "a { color: rgb(204, 204, 204) }\n@media print {\n  b { top: 0 }\n}\n", edits[0].NewText)

	colors, err := client.DocumentColor(uri)
	require.NoError(t, err)
	require.Len(t, colors, 1)
	assert.Equal(t, protocol.Position{Line: 0, Character: 8}, colors[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 12}, colors[0].Range.End)

	folded := "file://" + filepath.Join(dir, "b.css")
	client.DidOpen(folded, "css", "a {\n  top: 0;\n  left: 0;\n}\n")
	var ranges []protocol.FoldingRange
	require.Eventually(t, func() bool {
		ranges, err = client.FoldingRange(folded)
		return err == nil && len(ranges) > 0
	}, waitFor, tick)
	assert.Equal(t, protocol.UInteger(0), ranges[0].StartLine)
}
