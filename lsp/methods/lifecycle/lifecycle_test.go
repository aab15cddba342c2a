package lifecycle_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/internal/source"
	"bennypowers.dev/cssom/lsp/methods/lifecycle"
	"bennypowers.dev/cssom/lsp/testutil"
	"bennypowers.dev/cssom/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func initialize(t *testing.T, server *testutil.MockServerContext, params *protocol.InitializeParams) lifecycle.InitializeResult {
	t.Helper()
	log.SetOutput(nil)
	result, err := lifecycle.Initialize(types.NewRequestContext(server, nil), params)
	require.NoError(t, err)
	res, ok := result.(lifecycle.InitializeResult)
	require.True(t, ok)
	return res
}

func TestInitialize(t *testing.T) {
	t.Run("advertises capabilities", func(t *testing.T) {
		res := initialize(t, testutil.NewMockServerContext(), &protocol.InitializeParams{})
		for _, key := range []string{"textDocumentSync", "documentFormattingProvider", "colorProvider", "foldingRangeProvider"} {
			assert.Contains(t, res.Capabilities, key)
		}
		assert.NotContains(t, res.Capabilities, "diagnosticProvider")
		require.NotNil(t, res.ServerInfo)
		assert.Equal(t, "cssom-language-server", res.ServerInfo.Name)

		data, err := json.Marshal(res)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"change":2`)
	})

	t.Run("pull diagnostics follow the detected capability", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.SetClientDiagnosticCapability(true)
		res := initialize(t, server, &protocol.InitializeParams{})
		assert.True(t, server.UsePullDiagnostics())
		assert.Contains(t, res.Capabilities, "diagnosticProvider")
	})

	t.Run("root from rootUri or rootPath", func(t *testing.T) {
		dir := t.TempDir()
		server := testutil.NewMockServerContext()
		uri := source.PathToURI(dir)
		initialize(t, server, &protocol.InitializeParams{RootURI: &uri})
		assert.Equal(t, uri, server.RootURI())
		assert.Equal(t, dir, server.RootPath())

		server = testutil.NewMockServerContext()
		initialize(t, server, &protocol.InitializeParams{RootPath: &dir})
		assert.Equal(t, dir, server.RootPath())
		assert.Equal(t, uri, server.RootURI())
	})

	t.Run("reads the workspace config then initializationOptions", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".cssom.yaml"), []byte("parser:\n  allowStarHack: true\nformat:\n  indent: \"\\t\"\n"), 0o644))

		server := testutil.NewMockServerContext()
		initialize(t, server, &protocol.InitializeParams{
			RootPath:              &dir,
			InitializationOptions: map[string]any{"format": map[string]any{"rgbAsHex": true}},
		})
		cfg := server.GetConfig()
		assert.True(t, cfg.Parser.AllowStarHack)
		assert.Equal(t, "\t", cfg.Formatting.Indent)
		assert.True(t, cfg.Formatting.RGBAsHex)
	})

	t.Run("bad config files fall back to defaults", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".cssom.json"), []byte("{ nope"), 0o644))

		server := testutil.NewMockServerContext()
		initialize(t, server, &protocol.InitializeParams{
			RootPath:              &dir,
			InitializationOptions: "not an object",
		})
		assert.Equal(t, "  ", server.GetConfig().Formatting.Indent)
	})
}

func TestInitializedAndShutdown(t *testing.T) {
	log.SetOutput(nil)
	server := testutil.NewMockServerContext()
	glspCtx := &glsp.Context{}

	require.NoError(t, lifecycle.Initialized(types.NewRequestContext(server, glspCtx), &protocol.InitializedParams{}))
	assert.Same(t, glspCtx, server.GLSPContext())

	require.NoError(t, lifecycle.Shutdown(types.NewRequestContext(server, glspCtx)))
	assert.Nil(t, server.GLSPContext())
	require.NoError(t, lifecycle.Shutdown(types.NewRequestContext(server, nil)))
}

func TestSetTrace(t *testing.T) {
	log.SetOutput(nil)
	defer log.SetLevel(log.LevelInfo)

	req := types.NewRequestContext(testutil.NewMockServerContext(), nil)
	require.NoError(t, lifecycle.SetTrace(req, &protocol.SetTraceParams{Value: protocol.TraceValueOff}))
	assert.Equal(t, log.LevelInfo, log.GetLevel())
	require.NoError(t, lifecycle.SetTrace(req, &protocol.SetTraceParams{Value: protocol.TraceValueVerbose}))
	assert.Equal(t, log.LevelDebug, log.GetLevel())
}
