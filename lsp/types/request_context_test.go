package types_test

import (
	"errors"
	"testing"

	"bennypowers.dev/cssom/lsp/testutil"
	"bennypowers.dev/cssom/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/tliron/glsp"
)

func TestRequestContext_Warnings(t *testing.T) {
	server := testutil.NewMockServerContext()
	glspCtx := &glsp.Context{Method: "textDocument/formatting"}
	req := types.NewRequestContext(server, glspCtx)

	assert.Same(t, server, req.Server)
	assert.Equal(t, "textDocument/formatting", req.GLSP.Method)
	assert.False(t, req.HasWarnings())
	assert.Nil(t, req.Warnings())

	first := errors.New("unparsable color")
	req.AddWarning(first)
	req.AddWarning(nil)
	req.AddWarning(errors.New("second"))

	assert.True(t, req.HasWarnings())
	assert.Len(t, req.Warnings(), 2)
	assert.Equal(t, first, req.Warnings()[0])
}
