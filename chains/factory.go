package chains

import (
	"context"
	"sync"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LicensingNotice is logged once per NoticeGate when the first client is created.
const LicensingNotice = "This zkSync Era library is licensed under the Business Source License 1.1 (BSL 1.1). " +
	"Use by for-profit organizations in production environments requires a commercial license from Velocity BPA. " +
	"For licensing information, visit https://velobpa.com/licensing or contact licensing@velobpa.com."

// NoticeGate logs the licensing notice at most once until Reset.
type NoticeGate struct {
	mu        sync.Mutex
	announced bool
}

// Announce logs the notice if it was not logged yet.
//
// Returns:
// - bool: true if this call logged the notice.
func (g *NoticeGate) Announce(logger *logrus.Logger) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.announced {
		return false
	}
	g.announced = true

	logger.Warn(LicensingNotice)
	return true
}

// Reset re-arms the gate.
func (g *NoticeGate) Reset() {
	g.mu.Lock()
	g.announced = false
	g.mu.Unlock()
}

// ClientConstructor represents a function that constructs a new zkSync client.
//
// Parameters:
// - ctx: the context for managing the client lifetime.
// - config: the network configuration.
// - logger: the logger for logging purposes.
//
// Returns:
// - *zksync.Client: the constructed client.
// - error: an error if the client construction fails.
type ClientConstructor func(ctx context.Context, config *types.NetworkConfig, logger *logrus.Logger) (*zksync.Client, error)

// ClientFactory defines the interface for client creation.
type ClientFactory interface {
	// RegisterConstructor registers a client constructor for a network.
	RegisterConstructor(network types.Network, constructor ClientConstructor)

	// CreateClient creates a new client based on the configuration.
	//
	// Parameters:
	// - ctx: the context for managing the client lifetime.
	// - config: the network configuration.
	// - logger: the logger for logging purposes.
	//
	// Returns:
	// - *zksync.Client: the created client.
	// - error: ErrInvalidNetwork if no constructor is registered for the network, or the constructor error.
	CreateClient(ctx context.Context, config *types.NetworkConfig, logger *logrus.Logger) (*zksync.Client, error)
}

type clientFactory struct {
	gate *NoticeGate
	// constructors stores the mapping of networks to their constructors.
	constructors map[types.Network]ClientConstructor
	// constructorsMutex protects access to the constructors map.
	constructorsMutex sync.RWMutex
}

// NewClientFactory creates a new instance of the client factory.
//
// Parameters:
// - gate: the licensing notice gate, shared by every client the factory creates.
//
// Returns:
// - ClientFactory: the new client factory instance.
func NewClientFactory(gate *NoticeGate) ClientFactory {
	if gate == nil {
		gate = &NoticeGate{}
	}

	factory := &clientFactory{
		gate:         gate,
		constructors: make(map[types.Network]ClientConstructor),
	}

	// Initialize with default constructors.
	factory.registerConstructors()

	return factory
}

func (f *clientFactory) RegisterConstructor(network types.Network, constructor ClientConstructor) {
	f.constructorsMutex.Lock()
	defer f.constructorsMutex.Unlock()

	f.constructors[network] = constructor
}

func (f *clientFactory) CreateClient(ctx context.Context, config *types.NetworkConfig, logger *logrus.Logger) (*zksync.Client, error) {
	if config == nil {
		return nil, errors.Wrap(zkerrors.ErrInvalidNetwork, "network config is required")
	}

	f.constructorsMutex.RLock()
	constructor, exists := f.constructors[config.Name]
	f.constructorsMutex.RUnlock()

	if !exists {
		return nil, errors.Wrapf(zkerrors.ErrInvalidNetwork, "no client constructor for network %q", config.Name)
	}

	f.gate.Announce(logger)

	return constructor(ctx, config, logger)
}

// registerConstructors registers the default constructor for every known network.
func (f *clientFactory) registerConstructors() {
	for _, network := range []types.Network{types.Mainnet, types.Sepolia, types.Custom} {
		f.RegisterConstructor(network, zksync.NewClient)
	}
}
