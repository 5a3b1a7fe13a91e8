// Package zksync implements a JSON-RPC client for zkSync Era nodes covering the
// standard eth namespace, the zks namespace and ERC-20/ERC-721 helpers.
package zksync

import (
	"context"
	"math/big"
	"sync"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/signer"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/connectionmonitor"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// errClientNotInitialized is returned when the client was closed.
var errClientNotInitialized = errors.New("client not initialized")

// Client is a zkSync Era JSON-RPC client.
type Client struct {
	config  *types.NetworkConfig // Network configuration.
	logger  *logrus.Logger       // Logger for logging events.
	limiter *rate.Limiter        // Optional client side rate limiter.

	// Protected fields with their own mutexes.
	clientMutex sync.RWMutex      // Mutex for rpcClient and ethClient.
	rpcClient   *rpc.Client       // Raw JSON-RPC client for zks and zkSync shaped eth responses.
	ethClient   *ethclient.Client // Typed client sharing rpcClient.

	signerMutex sync.RWMutex  // Mutex for signer.
	signer      signer.Signer // Signer, nil when no private key is configured.

	chainIDMutex sync.Mutex // Mutex for chainID.
	chainID      *big.Int   // Cached chain ID.

	monitorMutex sync.RWMutex                        // Mutex for connection monitor.
	monitor      connectionmonitor.ConnectionMonitor // Connection monitor.
}

// NewClient dials the configured endpoint and starts the connection monitor.
//
// Parameters:
// - ctx: the context for managing the dial and the monitor lifetime.
// - config: the network configuration.
// - logger: the logger for logging events.
//
// Returns:
// - *Client: a new client instance.
// - error: an error if the endpoint cannot be dialed or the private key is invalid.
func NewClient(ctx context.Context, config *types.NetworkConfig, logger *logrus.Logger) (*Client, error) {
	if config == nil || config.RpcUrl == "" {
		return nil, errors.Wrap(zkerrors.ErrInvalidNetwork, "rpc url is required")
	}

	rpcClient, err := rpc.DialContext(ctx, config.RpcUrl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}

	client := &Client{
		config:    config,
		logger:    logger,
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}

	if config.ChainID != 0 {
		client.chainID = new(big.Int).SetUint64(config.ChainID)
	}

	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	if config.PrivateKey != "" {
		s, err := signer.NewSignerFromHex(config.PrivateKey)
		if err != nil {
			rpcClient.Close()
			return nil, errors.Wrap(err, "failed to create signer")
		}

		client.signerMutex.Lock()
		client.signer = s
		client.signerMutex.Unlock()
	}

	if err := client.initMonitor(ctx); err != nil {
		rpcClient.Close()
		return nil, errors.Wrap(err, "failed to init connection monitor")
	}

	logger.WithFields(logrus.Fields{
		"network":   config.Name,
		"chainID":   config.ChainID,
		"rpcUrl":    config.RpcUrl,
		"transport": types.GetTransportMode(config.RpcUrl),
		"canWrite":  client.CanSign(),
	}).Info("zkSync client created")

	return client, nil
}

// Close should be called when the client is no longer needed.
// It stops the connection monitor and closes the RPC connection.
func (c *Client) Close() {
	c.monitorMutex.Lock()
	if c.monitor != nil {
		c.monitor.Stop()
		c.monitor = nil
	}
	c.monitorMutex.Unlock()

	c.clientMutex.Lock()
	if c.rpcClient != nil {
		c.rpcClient.Close()
		c.rpcClient = nil
		c.ethClient = nil
	}
	c.clientMutex.Unlock()
}

// Config returns the network configuration the client was created with.
func (c *Client) Config() *types.NetworkConfig {
	return c.config
}

// CanSign reports whether a private key is configured.
func (c *Client) CanSign() bool {
	c.signerMutex.RLock()
	defer c.signerMutex.RUnlock()
	return c.signer != nil
}

// SignerAddress returns the address of the configured key.
func (c *Client) SignerAddress() (string, error) {
	s, err := c.getSigner()
	if err != nil {
		return "", err
	}
	return s.Address().Hex(), nil
}

// SignMessage signs message with the EIP-191 personal message prefix.
//
// Returns:
// - string: the 0x prefixed 65 byte signature.
// - error: ErrMissingCredential if no private key is configured.
func (c *Client) SignMessage(message []byte) (string, error) {
	s, err := c.getSigner()
	if err != nil {
		return "", err
	}

	signature, err := s.SignMessage(message)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(signature), nil
}

func (c *Client) getSigner() (signer.Signer, error) {
	c.signerMutex.RLock()
	defer c.signerMutex.RUnlock()

	if c.signer == nil {
		return nil, errors.Wrap(zkerrors.ErrMissingCredential, "private key is not configured")
	}
	return c.signer, nil
}

func (c *Client) clients() (*rpc.Client, *ethclient.Client, error) {
	c.clientMutex.RLock()
	defer c.clientMutex.RUnlock()

	if c.rpcClient == nil || c.ethClient == nil {
		return nil, nil, errClientNotInitialized
	}
	return c.rpcClient, c.ethClient, nil
}

// prepare waits for the rate limiter and applies the per-call timeout.
func (c *Client) prepare(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, errors.Wrap(err, "rate limiter")
		}
	}

	if c.config.RequestTimeout > 0 {
		callCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
		return callCtx, cancel, nil
	}

	callCtx, cancel := context.WithCancel(ctx)
	return callCtx, cancel, nil
}

// call performs a raw JSON-RPC call. Failures are wrapped with the method name.
func (c *Client) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	rpcClient, _, err := c.clients()
	if err != nil {
		return err
	}

	callCtx, cancel, err := c.prepare(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := rpcClient.CallContext(callCtx, result, method, args...); err != nil {
		return errors.Wrapf(err, "%s failed", method)
	}
	return nil
}

// withEth runs fn against the typed client under the limiter and timeout.
func (c *Client) withEth(ctx context.Context, method string, fn func(ctx context.Context, client *ethclient.Client) error) error {
	_, ethClient, err := c.clients()
	if err != nil {
		return err
	}

	callCtx, cancel, err := c.prepare(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := fn(callCtx, ethClient); err != nil {
		return errors.Wrapf(err, "%s failed", method)
	}
	return nil
}

// resolveChainID returns the configured chain ID, asking the node for custom networks.
func (c *Client) resolveChainID(ctx context.Context) (*big.Int, error) {
	c.chainIDMutex.Lock()
	cached := c.chainID
	c.chainIDMutex.Unlock()

	if cached != nil {
		return new(big.Int).Set(cached), nil
	}

	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	c.chainIDMutex.Lock()
	c.chainID = chainID
	c.chainIDMutex.Unlock()

	return new(big.Int).Set(chainID), nil
}

// explorerTxUrl returns an explorer link for hash, empty for networks without explorer.
func (c *Client) explorerTxUrl(hash string) string {
	return c.config.ExplorerTxUrl(hash)
}
