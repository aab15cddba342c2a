package workspace_test

import (
	"bytes"
	"testing"
	"time"

	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/methods/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type sent struct {
	method string
	params any
}

func recorder() (*glsp.Context, chan sent) {
	ch := make(chan sent, 4)
	return &glsp.Context{Notify: func(method string, params any) {
		ch <- sent{method, params}
	}}, ch
}

func receive(t *testing.T, ch chan sent) sent {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		require.FailNow(t, "no notification sent")
	}
	return sent{}
}

func TestLogWithoutClient(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	assert.NotPanics(t, func() {
		workspace.LogError(nil, "bad %s", "thing")
		workspace.LogWarning(&glsp.Context{}, "odd %d", 1)
		workspace.ShowMessage(nil, protocol.MessageTypeInfo, "hi")
	})
	assert.Contains(t, buf.String(), "ERROR: bad thing")
	assert.Contains(t, buf.String(), "WARN: odd 1")
}

func TestLogErrorNotifiesClient(t *testing.T) {
	log.SetOutput(nil)
	ctx, ch := recorder()

	workspace.LogError(ctx, "failed: %v", "boom")
	s := receive(t, ch)
	assert.Equal(t, protocol.ServerWindowLogMessage, s.method)
	params, ok := s.params.(*protocol.LogMessageParams)
	require.True(t, ok)
	assert.Equal(t, protocol.MessageTypeError, params.Type)
	assert.Equal(t, "failed: boom", params.Message)

	workspace.ShowMessage(ctx, protocol.MessageTypeWarning, "careful")
	assert.Equal(t, protocol.ServerWindowShowMessage, receive(t, ch).method)
}
