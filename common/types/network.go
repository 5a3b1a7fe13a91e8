package types

import (
	"strings"
	"time"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/pkg/errors"
)

// Network identifies a zkSync Era deployment.
type Network string

const (
	// Mainnet represents zkSync Era mainnet.
	Mainnet Network = "mainnet"
	// Sepolia represents the zkSync Era Sepolia testnet.
	Sepolia Network = "sepolia"
	// Custom represents a caller supplied endpoint with unknown chain metadata.
	Custom Network = "custom"
)

const (
	// MainnetChainID is the chain ID of zkSync Era mainnet.
	MainnetChainID = 324
	// SepoliaChainID is the chain ID of zkSync Era Sepolia testnet.
	SepoliaChainID = 300

	MainnetRpcUrl      = "https://mainnet.era.zksync.io"
	MainnetExplorerUrl = "https://explorer.zksync.io"
	SepoliaRpcUrl      = "https://sepolia.era.zksync.dev"
	SepoliaExplorerUrl = "https://sepolia.explorer.zksync.io"

	// defaultRequestTimeout bounds a single RPC call when no timeout is configured.
	defaultRequestTimeout = 30 * time.Second
)

// String converts Network to string representation.
func (n Network) String() string {
	return string(n)
}

// ParseNetwork converts string to Network representation.
func ParseNetwork(s string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(s))) {
	case Mainnet:
		return Mainnet, nil
	case Sepolia:
		return Sepolia, nil
	case Custom:
		return Custom, nil
	default:
		return "", errors.Wrapf(zkerrors.ErrInvalidNetwork, "unknown network %q", s)
	}
}

// NetworkConfig holds the configuration for a zkSync client.
//
// Fields:
// - Name: the network name.
// - ChainID: the chain ID, 0 when unknown (custom endpoints).
// - RpcUrl: the URL for the JSON-RPC endpoint.
// - ExplorerUrl: the block explorer base URL, empty for custom endpoints.
// - PrivateKey: the hex private key used for signing, optional.
// - WaitNBlocks: the number of blocks to wait for transaction confirmation.
// - RequestTimeout: the timeout applied to every RPC call.
// - RequestsPerSecond: the client side rate limit, 0 disables it.
// - Burst: the rate limiter burst size.
// - HealthCheckInterval: the connection monitor period, 0 uses the monitor default.
type NetworkConfig struct {
	Name                Network
	ChainID             uint64
	RpcUrl              string
	ExplorerUrl         string
	PrivateKey          string
	WaitNBlocks         uint64
	RequestTimeout      time.Duration
	RequestsPerSecond   float64
	Burst               int
	HealthCheckInterval time.Duration
}

// ResolveNetwork builds the NetworkConfig for the given network.
// customURL is required for Custom and ignored otherwise.
func ResolveNetwork(network Network, customURL string) (*NetworkConfig, error) {
	cfg := &NetworkConfig{
		Name:           network,
		RequestTimeout: defaultRequestTimeout,
	}

	switch network {
	case Mainnet:
		cfg.ChainID = MainnetChainID
		cfg.RpcUrl = MainnetRpcUrl
		cfg.ExplorerUrl = MainnetExplorerUrl
	case Sepolia:
		cfg.ChainID = SepoliaChainID
		cfg.RpcUrl = SepoliaRpcUrl
		cfg.ExplorerUrl = SepoliaExplorerUrl
	case Custom:
		if strings.TrimSpace(customURL) == "" {
			return nil, errors.Wrap(zkerrors.ErrInvalidNetwork, "custom network requires an rpc url")
		}
		cfg.RpcUrl = customURL
	default:
		return nil, errors.Wrapf(zkerrors.ErrInvalidNetwork, "unknown network %q", network)
	}

	return cfg, nil
}

// ExplorerTxUrl returns the explorer link for a transaction hash, or empty string when
// the network has no explorer.
func (c *NetworkConfig) ExplorerTxUrl(hash string) string {
	if c.ExplorerUrl == "" {
		return ""
	}
	return c.ExplorerUrl + "/tx/" + hash
}

// ExplorerAddressUrl returns the explorer link for an address.
func (c *NetworkConfig) ExplorerAddressUrl(address string) string {
	if c.ExplorerUrl == "" {
		return ""
	}
	return c.ExplorerUrl + "/address/" + address
}
