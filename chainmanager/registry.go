// Package chainmanager keeps one zkSync client per chain ID.
package chainmanager

import (
	"context"
	"sync"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ClientCreator creates zkSync clients, implemented by chains.ClientFactory.
type ClientCreator interface {
	CreateClient(ctx context.Context, config *types.NetworkConfig, logger *logrus.Logger) (*zksync.Client, error)
}

// Registry is a concurrency safe set of clients keyed by chain ID.
type Registry struct {
	logger       *logrus.Logger
	clients      map[uint64]*zksync.Client
	clientsMutex sync.RWMutex
	factory      ClientCreator
}

// NewRegistry creates an empty registry that builds clients through factory.
func NewRegistry(factory ClientCreator, logger *logrus.Logger) *Registry {
	return &Registry{
		clients: make(map[uint64]*zksync.Client),
		factory: factory,
		logger:  logger,
	}
}

// Add creates a client for config and registers it under its chain ID.
// Custom networks without a configured chain ID are keyed by the ID the node reports.
//
// Returns:
// - uint64: the chain ID the client was registered under.
// - error: ErrClientExists if a client is already registered for the chain, or the creation error.
func (r *Registry) Add(ctx context.Context, config *types.NetworkConfig) (uint64, error) {
	client, err := r.factory.CreateClient(ctx, config, r.logger)
	if err != nil {
		return 0, err
	}

	chainID := config.ChainID
	if chainID == 0 {
		id, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return 0, errors.Wrap(err, "failed to resolve chain id")
		}
		chainID = id.Uint64()
	}

	r.clientsMutex.Lock()
	defer r.clientsMutex.Unlock()

	if _, exists := r.clients[chainID]; exists {
		client.Close()
		return 0, errors.Wrapf(zkerrors.ErrClientExists, "chain %d", chainID)
	}
	r.clients[chainID] = client

	r.logger.WithFields(logrus.Fields{
		"chainID": chainID,
		"network": config.Name,
	}).Info("Client registered")

	return chainID, nil
}

// Get returns the client registered for chainID.
func (r *Registry) Get(chainID uint64) (*zksync.Client, error) {
	r.clientsMutex.RLock()
	client, ok := r.clients[chainID]
	r.clientsMutex.RUnlock()

	if !ok {
		return nil, errors.Wrapf(zkerrors.ErrClientNotFound, "chain %d", chainID)
	}
	return client, nil
}

// Remove closes and unregisters the client for chainID. Removing a missing chain is a no-op.
func (r *Registry) Remove(chainID uint64) {
	r.clientsMutex.Lock()
	client, ok := r.clients[chainID]
	delete(r.clients, chainID)
	r.clientsMutex.Unlock()

	if ok {
		client.Close()
	}
}

// Close closes every registered client.
func (r *Registry) Close() {
	r.clientsMutex.Lock()
	defer r.clientsMutex.Unlock()

	for chainID, client := range r.clients {
		client.Close()
		delete(r.clients, chainID)
	}
}
