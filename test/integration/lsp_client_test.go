package integration_test

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bennypowers.dev/cssom/lsp/methods/textDocument/diagnostic"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LSPClient talks to a cssom-language-server process over stdio.
type LSPClient struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    io.ReadCloser
	reader    *bufio.Reader
	msgID     int
	responses map[int]chan json.RawMessage
	published map[string][]protocol.Diagnostic
	mu        sync.Mutex
	writeMu   sync.Mutex
	t         *testing.T
}

// NewLSPClient builds the server binary and starts it.
func NewLSPClient(t *testing.T) *LSPClient {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping server process test in short mode")
	}

	binary := filepath.Join(t.TempDir(), "cssom-language-server")
	build := exec.Command("go", "build", "-o", binary, "./cmd/cssom-language-server")
	build.Dir = filepath.Join("..", "..")
	output, err := build.CombinedOutput()
	require.NoError(t, err, "failed to build server: %s", string(output))

	cmd := exec.Command(binary)
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	stderr, err := cmd.StderrPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			t.Logf("[SERVER] %s", scanner.Text())
		}
	}()

	client := &LSPClient{
		cmd:       cmd,
		stdin:     stdin,
		stdout:    stdout,
		reader:    bufio.NewReader(stdout),
		responses: make(map[int]chan json.RawMessage),
		published: make(map[string][]protocol.Diagnostic),
		t:         t,
	}
	go client.readMessages()
	t.Cleanup(client.Close)
	return client
}

// Close shuts the server down and waits for it to exit.
func (c *LSPClient) Close() {
	id := c.sendRequest("shutdown", nil)
	_, _ = c.waitForResponse(id, 2*time.Second)
	c.sendNotification("exit", nil)
	_ = c.stdin.Close()
	_ = c.cmd.Wait()
}

func (c *LSPClient) sendRequest(method string, params any) int {
	c.mu.Lock()
	c.msgID++
	id := c.msgID
	c.responses[id] = make(chan json.RawMessage, 1)
	c.mu.Unlock()

	c.sendMessage(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	return id
}

func (c *LSPClient) sendNotification(method string, params any) {
	c.sendMessage(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (c *LSPClient) sendMessage(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Errorf("failed to marshal message: %v", err)
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := fmt.Fprintf(c.stdin, "Content-Length: %d\r\n\r\n%s", len(data), data); err != nil {
		c.t.Logf("failed to write message: %v", err)
	}
}

func (c *LSPClient) waitForResponse(id int, timeout time.Duration) (json.RawMessage, error) {
	c.mu.Lock()
	ch, ok := c.responses[id]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no response channel for message ID %d", id)
	}
	select {
	case response := <-ch:
		return response, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout waiting for response to message %d", id)
	}
}

// readMessages routes responses to their waiters and records published
// diagnostics.
func (c *LSPClient) readMessages() {
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return
		}
		var length int
		if _, err := fmt.Sscanf(line, "Content-Length: %d", &length); err != nil {
			continue
		}
		if _, err := c.reader.ReadString('\n'); err != nil {
			return
		}
		content := make([]byte, length)
		if _, err := io.ReadFull(c.reader, content); err != nil {
			return
		}

		var message struct {
			ID     *int            `json:"id"`
			Method *string         `json:"method"`
			Params json.RawMessage `json:"params"`
			Result json.RawMessage `json:"result"`
			Error  json.RawMessage `json:"error"`
		}
		if err := json.Unmarshal(content, &message); err != nil {
			continue
		}

		if message.Method != nil {
			if *message.Method == "textDocument/publishDiagnostics" {
				var params protocol.PublishDiagnosticsParams
				if json.Unmarshal(message.Params, &params) == nil {
					c.mu.Lock()
					c.published[params.URI] = params.Diagnostics
					c.mu.Unlock()
				}
			}
			if message.ID != nil {
				id := *message.ID
				go c.sendMessage(map[string]any{"jsonrpc": "2.0", "id": id, "result": nil})
			}
			continue
		}

		if message.ID == nil {
			continue
		}
		c.mu.Lock()
		if ch, ok := c.responses[*message.ID]; ok {
			if message.Error != nil {
				ch <- message.Error
			} else {
				ch <- message.Result
			}
		}
		c.mu.Unlock()
	}
}

// request sends method and decodes the result into out.
func (c *LSPClient) request(method string, params, out any) error {
	id := c.sendRequest(method, params)
	response, err := c.waitForResponse(id, 5*time.Second)
	if err != nil {
		return err
	}
	return json.Unmarshal(response, out)
}

// Initialize performs the initialize handshake. With pull set the client
// declares textDocument.diagnostic support.
func (c *LSPClient) Initialize(rootURI string, pull bool) (map[string]any, error) {
	textDocument := map[string]any{}
	if pull {
		textDocument["diagnostic"] = map[string]any{"dynamicRegistration": false}
	}
	var result struct {
		Capabilities map[string]any `json:"capabilities"`
	}
	err := c.request("initialize", map[string]any{
		"rootUri":      rootURI,
		"capabilities": map[string]any{"textDocument": textDocument},
	}, &result)
	if err != nil {
		return nil, err
	}
	c.sendNotification("initialized", map[string]any{})
	return result.Capabilities, nil
}

func textDocument(uri string) map[string]any {
	return map[string]any{"textDocument": map[string]any{"uri": uri}}
}

// DidOpen sends textDocument/didOpen.
func (c *LSPClient) DidOpen(uri, languageID, text string) {
	c.sendNotification("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        uri,
			"languageId": languageID,
			"version":    1,
			"text":       text,
		},
	})
}

// DidChange replaces the whole document.
func (c *LSPClient) DidChange(uri, text string, version int) {
	c.sendNotification("textDocument/didChange", map[string]any{
		"textDocument":   map[string]any{"uri": uri, "version": version},
		"contentChanges": []map[string]any{{"text": text}},
	})
}

// DidChangeConfiguration sends workspace/didChangeConfiguration.
func (c *LSPClient) DidChangeConfiguration(settings map[string]any) {
	c.sendNotification("workspace/didChangeConfiguration", map[string]any{"settings": settings})
}

// Diagnostic sends textDocument/diagnostic.
func (c *LSPClient) Diagnostic(uri string) (diagnostic.FullReport, error) {
	var report diagnostic.FullReport
	err := c.request("textDocument/diagnostic", textDocument(uri), &report)
	return report, err
}

// Formatting sends textDocument/formatting.
func (c *LSPClient) Formatting(uri string) ([]protocol.TextEdit, error) {
	params := textDocument(uri)
	params["options"] = map[string]any{"tabSize": 2, "insertSpaces": true}
	var edits []protocol.TextEdit
	err := c.request("textDocument/formatting", params, &edits)
	return edits, err
}

// DocumentColor sends textDocument/documentColor.
func (c *LSPClient) DocumentColor(uri string) ([]protocol.ColorInformation, error) {
	var colors []protocol.ColorInformation
	err := c.request("textDocument/documentColor", textDocument(uri), &colors)
	return colors, err
}

// FoldingRange sends textDocument/foldingRange.
func (c *LSPClient) FoldingRange(uri string) ([]protocol.FoldingRange, error) {
	var ranges []protocol.FoldingRange
	err := c.request("textDocument/foldingRange", textDocument(uri), &ranges)
	return ranges, err
}

// Published returns the last diagnostics pushed for uri.
func (c *LSPClient) Published(uri string) ([]protocol.Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	diags, ok := c.published[uri]
	return diags, ok
}
