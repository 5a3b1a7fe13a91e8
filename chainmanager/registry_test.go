package chainmanager

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Velocity-BPA/zksync-lib/chains"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainIDNode answers eth_chainId with 0x144 (324).
func chainIDNode(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": "0x144"})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRegistryLifecycle(t *testing.T) {
	logger, _ := test.NewNullLogger()
	registry := NewRegistry(chains.NewClientFactory(&chains.NoticeGate{}), logger)
	defer registry.Close()
	ctx := context.Background()

	sepolia, err := types.ResolveNetwork(types.Sepolia, "")
	require.NoError(t, err)

	chainID, err := registry.Add(ctx, sepolia)
	require.NoError(t, err)
	assert.Equal(t, uint64(types.SepoliaChainID), chainID)

	_, err = registry.Add(ctx, sepolia)
	assert.True(t, errors.Is(err, zkerrors.ErrClientExists))

	client, err := registry.Get(types.SepoliaChainID)
	require.NoError(t, err)
	assert.Equal(t, types.Sepolia, client.Config().Name)

	registry.Remove(types.SepoliaChainID)
	_, err = registry.Get(types.SepoliaChainID)
	assert.True(t, errors.Is(err, zkerrors.ErrClientNotFound))

	registry.Remove(types.SepoliaChainID)
}

func TestRegistryResolvesCustomChainID(t *testing.T) {
	logger, _ := test.NewNullLogger()
	registry := NewRegistry(chains.NewClientFactory(nil), logger)
	defer registry.Close()

	custom, err := types.ResolveNetwork(types.Custom, chainIDNode(t).URL)
	require.NoError(t, err)

	chainID, err := registry.Add(context.Background(), custom)
	require.NoError(t, err)
	assert.Equal(t, uint64(324), chainID)

	_, err = registry.Get(324)
	assert.NoError(t, err)
}
