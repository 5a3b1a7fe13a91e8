package zksync

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type rpcHandler func(params []json.RawMessage) (interface{}, error)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fakeNode is a minimal JSON-RPC server answering from per-method handlers.
type fakeNode struct {
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    map[string]int
}

func newFakeNode(t *testing.T) *fakeNode {
	node := &fakeNode{
		handlers: make(map[string]rpcHandler),
		calls:    make(map[string]int),
	}
	node.server = httptest.NewServer(http.HandlerFunc(node.serve))
	t.Cleanup(node.server.Close)
	return node
}

func (n *fakeNode) handle(method string, handler rpcHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = handler
}

func (n *fakeNode) result(method string, result interface{}) {
	n.handle(method, func([]json.RawMessage) (interface{}, error) {
		return result, nil
	})
}

func (n *fakeNode) callCount(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *fakeNode) totalCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, count := range n.calls {
		total += count
	}
	return total
}

func (n *fakeNode) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method]++
	handler, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = rpcError{Code: -32601, Message: "method not found: " + req.Method}
	} else if result, err := handler(req.Params); err != nil {
		resp["error"] = rpcError{Code: -32000, Message: err.Error()}
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, node *fakeNode, privateKey string) *Client {
	cfg := &types.NetworkConfig{
		Name:        types.Sepolia,
		ChainID:     types.SepoliaChainID,
		RpcUrl:      node.server.URL,
		ExplorerUrl: types.SepoliaExplorerUrl,
		PrivateKey:  privateKey,
	}

	client, err := NewClient(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}
