package zksync

import (
	"context"

	"github.com/Velocity-BPA/zksync-lib/connectionmonitor"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// endpointManager implements connectionmonitor.RPCEndpoint for the zkSync client.
type endpointManager struct {
	client *Client
}

// initMonitor initializes the connection monitor for the client.
//
// Parameters:
// - ctx: the context for managing the monitor lifetime.
//
// Returns:
// - error: an error if there is an issue starting the connection monitor.
func (c *Client) initMonitor(ctx context.Context) error {
	c.monitorMutex.Lock()
	defer c.monitorMutex.Unlock()

	c.monitor = connectionmonitor.NewConnectionMonitor(
		&endpointManager{client: c},
		c.logger,
		c.config.Name.String(),
		c.config.HealthCheckInterval,
	)
	return c.monitor.Start(ctx)
}

// CheckConnection checks the connection by retrieving the current block number.
func (m *endpointManager) CheckConnection(ctx context.Context) error {
	_, err := m.client.BlockNumber(ctx)
	return err
}

// Reconnect re-dials the endpoint and swaps both underlying clients.
func (m *endpointManager) Reconnect(ctx context.Context) error {
	m.client.clientMutex.Lock()
	defer m.client.clientMutex.Unlock()

	if m.client.rpcClient == nil {
		return errors.New("client closed")
	}

	rpcClient, err := rpc.DialContext(ctx, m.client.config.RpcUrl)
	if err != nil {
		return err
	}

	m.client.rpcClient.Close()
	m.client.rpcClient = rpcClient
	m.client.ethClient = ethclient.NewClient(rpcClient)

	return nil
}

// ConnectionStatus reports the health of the endpoint as last seen by the monitor.
// A closed client reports unhealthy.
func (c *Client) ConnectionStatus() connectionmonitor.Status {
	c.monitorMutex.RLock()
	defer c.monitorMutex.RUnlock()

	if c.monitor == nil {
		return connectionmonitor.Status{LastError: "client closed"}
	}
	return c.monitor.Status()
}
